package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), nil, mark("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "first,second,handler" {
		t.Fatalf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	handler := Chain(http.NotFoundHandler(), RequestID("life"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get(requestIDHeader); !strings.HasPrefix(got, "life-") {
		t.Fatalf("request id = %q", got)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "given")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "given" {
		t.Fatalf("request id = %q, want given", got)
	}
}

func TestRecoverPanic(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverPanic())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWriteJSONAndDecode(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}

	var decoded map[string]string
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(rec.Body.String()))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1<<10, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["ok"] != "yes" {
		t.Fatalf("decoded = %v", decoded)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ok":`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1<<10, &decoded); err == nil {
		t.Fatal("expected decode error")
	}
}
