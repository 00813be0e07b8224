package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/platform/i18n"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/engine"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage/sqlite"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
	"golang.org/x/crypto/bcrypt"
)

type fakeGenerator struct {
	suggestions []suggest.Suggestion
}

func (g *fakeGenerator) Generate(_ context.Context, req suggest.Request) ([]suggest.Suggestion, error) {
	if len(g.suggestions) > req.Count {
		return g.suggestions[:req.Count], nil
	}
	return g.suggestions, nil
}

type apiHarness struct {
	handler   http.Handler
	generator *fakeGenerator
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	translator, err := i18n.NewEmbedded("ru")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	generator := &fakeGenerator{}
	svc := engine.NewService(store, generator, translator, clock, nil, engine.Config{
		Interval:      24 * time.Hour,
		DefaultLocale: "ru",
		PasswordCost:  bcrypt.MinCost,
	})
	if err := svc.EnsureGuest(context.Background()); err != nil {
		t.Fatalf("ensure guest: %v", err)
	}
	return &apiHarness{handler: New(svc, translator, clock), generator: generator}
}

type call struct {
	method   string
	path     string
	body     string
	login    string
	password string
}

func (h *apiHarness) do(t *testing.T, c call, out any) int {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.login != "" {
		req.Header.Set(headerLogin, c.login)
		req.Header.Set(headerPassword, c.password)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", c.method, c.path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func (h *apiHarness) signUp(t *testing.T, login string, language string) {
	t.Helper()
	var res authResponseDTO
	code := h.do(t, call{
		method: http.MethodPost,
		path:   "/api/v1/session/auth",
		body:   `{"login":"` + login + `","password":"secret","language":"` + language + `"}`,
	}, &res)
	if code != http.StatusCreated || !res.Success {
		t.Fatalf("sign up = %d %+v", code, res)
	}
}

func TestHealth(t *testing.T) {
	h := newAPIHarness(t)
	var res healthDTO
	if code := h.do(t, call{method: http.MethodGet, path: "/api/v1/health"}, &res); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if res.Status != "ok" || res.Timestamp != "2026-03-01T08:00:00.000Z" {
		t.Fatalf("health = %+v", res)
	}
}

func TestSessionAuth(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	var res authResponseDTO
	h.do(t, call{method: http.MethodPost, path: "/api/v1/session/auth", body: `{"login":"alex","password":"nope","language":"en"}`}, &res)
	if res.Success || res.User != nil || res.Message != "Wrong password." {
		t.Fatalf("wrong password = %+v", res)
	}

	h.do(t, call{method: http.MethodPost, path: "/api/v1/session/auth", body: `{"login":"alex","password":"secret"}`}, &res)
	if !res.Success || res.User == nil || res.User.Language != "en-US" {
		t.Fatalf("sign in = %+v", res)
	}

	var errRes errorDTO
	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/session/auth", body: `{"login":`}, &errRes); code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d", code)
	}
	if errRes.Error.Code != "INVALID_ARGUMENT" {
		t.Fatalf("error = %+v", errRes)
	}
}

func TestRitualRoutes(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	var rituals []ritualDTO
	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/rituals/start", login: "alex", password: "secret"}, &rituals); code != http.StatusOK {
		t.Fatalf("start status = %d", code)
	}
	if rituals[0].Status != "active" || rituals[0].Title != "Breathing" {
		t.Fatalf("rituals = %+v", rituals)
	}

	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/rituals/breath/complete?lang=es", login: "alex", password: "secret"}, &rituals); code != http.StatusOK {
		t.Fatalf("complete status = %d", code)
	}
	if rituals[0].Status != "done" || rituals[0].CompletedAt == nil || rituals[1].Status != "active" {
		t.Fatalf("rituals = %+v", rituals)
	}
	if rituals[1].Title == "Water" {
		t.Fatalf("lang=es not applied: %+v", rituals[1])
	}

	h.do(t, call{method: http.MethodGet, path: "/api/v1/rituals?login=alex"}, &rituals)
	if rituals[0].Status != "done" {
		t.Fatalf("listed rituals = %+v", rituals)
	}

	h.do(t, call{method: http.MethodGet, path: "/api/v1/rituals"}, &rituals)
	if rituals[0].Status != "idle" {
		t.Fatalf("guest rituals = %+v", rituals)
	}

	var errRes errorDTO
	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/rituals/yoga/complete?lang=en", login: "alex", password: "secret"}, &errRes); code != http.StatusNotFound {
		t.Fatalf("unknown ritual status = %d", code)
	}
	if errRes.Error.Code != "RITUAL_NOT_FOUND" || errRes.Error.Message != "Unknown ritual." {
		t.Fatalf("error = %+v", errRes)
	}
}

func TestWritesRequireAuth(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	paths := []string{
		"/api/v1/rituals/start?lang=en",
		"/api/v1/rituals/breath/complete?lang=en",
		"/api/v1/tasks/x/swipe?lang=en",
		"/api/v1/logs?lang=en",
		"/api/v1/language?lang=en",
	}
	for _, path := range paths {
		var errRes errorDTO
		code := h.do(t, call{method: http.MethodPost, path: path, body: `{}`, login: "alex", password: "wrong"}, &errRes)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d", path, code)
		}
		if errRes.Error.Message != "Sign in to continue." {
			t.Fatalf("%s: error = %+v", path, errRes)
		}
	}
}

func TestTaskRoutes(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")
	h.generator.suggestions = []suggest.Suggestion{
		{Title: "A", Detail: "a"},
		{Title: "B", Detail: "b"},
		{Title: "C", Detail: "c"},
	}

	var tasks []taskDTO
	if code := h.do(t, call{method: http.MethodGet, path: "/api/v1/tasks?login=alex"}, &tasks); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if len(tasks) != 3 || tasks[0].Title != "A" || tasks[0].CreatedAt != "2026-03-01T08:00:00.000Z" {
		t.Fatalf("tasks = %+v", tasks)
	}

	h.generator.suggestions = []suggest.Suggestion{{Title: "D", Detail: "d"}}
	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/tasks/" + tasks[1].ID + "/swipe", login: "alex", password: "secret"}, &tasks); code != http.StatusOK {
		t.Fatalf("swipe status = %d", code)
	}
	got := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title}
	if strings.Join(got, "") != "DAC" {
		t.Fatalf("titles = %v, want [D A C]", got)
	}
}

func TestLogRoutes(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	var entry logEntryDTO
	code := h.do(t, call{method: http.MethodPost, path: "/api/v1/logs", body: `{"title":"Slept","note":"7h"}`, login: "alex", password: "secret"}, &entry)
	if code != http.StatusCreated || entry.Title != "Slept" || entry.ID == "" {
		t.Fatalf("add log = %d %+v", code, entry)
	}

	var errRes errorDTO
	if code := h.do(t, call{method: http.MethodPost, path: "/api/v1/logs", body: `{"title":" "}`, login: "alex", password: "secret"}, &errRes); code != http.StatusBadRequest {
		t.Fatalf("blank title status = %d", code)
	}

	var logs []logEntryDTO
	h.do(t, call{method: http.MethodGet, path: "/api/v1/logs", login: "alex"}, &logs)
	if len(logs) != 1 || logs[0].ID != entry.ID {
		t.Fatalf("logs = %+v", logs)
	}
}

func TestDailyAndMetrics(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	var daily dailyStatusDTO
	h.do(t, call{method: http.MethodGet, path: "/api/v1/daily?login=alex"}, &daily)
	if daily.IntervalMs != 86400000 || daily.RemainingMs != 86400000 || daily.Completed {
		t.Fatalf("daily = %+v", daily)
	}
	if daily.NextResetAt != "2026-03-02T08:00:00.000Z" {
		t.Fatalf("next reset = %q", daily.NextResetAt)
	}

	var metrics []metricDTO
	h.do(t, call{method: http.MethodGet, path: "/api/v1/metrics?login=alex"}, &metrics)
	if len(metrics) != 3 || metrics[0].Label != "Sleep" || metrics[0].Value != "Needs support" {
		t.Fatalf("metrics = %+v", metrics)
	}
}

func TestLanguageRoutes(t *testing.T) {
	h := newAPIHarness(t)
	h.signUp(t, "alex", "en")

	var list languageListDTO
	h.do(t, call{method: http.MethodGet, path: "/api/v1/language"}, &list)
	if len(list.Languages) != 3 {
		t.Fatalf("languages = %+v", list)
	}

	var user userDTO
	code := h.do(t, call{method: http.MethodPost, path: "/api/v1/language", body: `{"language":"es"}`, login: "alex", password: "secret"}, &user)
	if code != http.StatusOK || user.Language != "es-ES" {
		t.Fatalf("update = %d %+v", code, user)
	}

	code = h.do(t, call{method: http.MethodPost, path: "/api/v1/session/language", body: `{"login":"alex","password":"secret","language":"ru"}`}, &user)
	if code != http.StatusOK || user.Language != "ru-RU" {
		t.Fatalf("session update = %d %+v", code, user)
	}
}
