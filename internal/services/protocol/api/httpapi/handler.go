// Package httpapi exposes the protocol engine as a JSON API under /api/v1.
//
// Reads take the partition from the login query parameter and fall back to
// the guest partition. Writes authenticate with the x-auth-login and
// x-auth-password headers. The lang query parameter selects the locale of
// translated text.
package httpapi

import (
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/louisbranch/lifeprotocol/internal/platform/errors"
	"github.com/louisbranch/lifeprotocol/internal/platform/httpx"
	"github.com/louisbranch/lifeprotocol/internal/platform/i18n"
	"github.com/louisbranch/lifeprotocol/internal/platform/requestctx"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/engine"
)

const (
	headerLogin    = "x-auth-login"
	headerPassword = "x-auth-password"
	maxBodyBytes   = 64 << 10
)

// Handler serves the protocol JSON API.
type Handler struct {
	engine     *engine.Service
	translator *i18n.Translator
	clock      func() time.Time
}

// New builds the API handler with its middleware chain.
func New(svc *engine.Service, translator *i18n.Translator, clock func() time.Time) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	h := &Handler{engine: svc, translator: translator, clock: clock}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", h.health)
	mux.HandleFunc("GET /api/v1/daily", h.daily)
	mux.HandleFunc("GET /api/v1/language", h.languages)
	mux.HandleFunc("POST /api/v1/language", h.requireAuth(h.updateLanguage))
	mux.HandleFunc("POST /api/v1/session/auth", h.authenticate)
	mux.HandleFunc("POST /api/v1/session/language", h.sessionLanguage)
	mux.HandleFunc("GET /api/v1/rituals", h.listRituals)
	mux.HandleFunc("POST /api/v1/rituals/start", h.requireAuth(h.startRitual))
	mux.HandleFunc("POST /api/v1/rituals/{id}/complete", h.requireAuth(h.completeRitual))
	mux.HandleFunc("GET /api/v1/tasks", h.listTasks)
	mux.HandleFunc("POST /api/v1/tasks/{id}/swipe", h.requireAuth(h.swipeTask))
	mux.HandleFunc("GET /api/v1/logs", h.listLogs)
	mux.HandleFunc("POST /api/v1/logs", h.requireAuth(h.addLog))
	mux.HandleFunc("GET /api/v1/metrics", h.metrics)

	return httpx.Chain(mux, httpx.RecoverPanic(), httpx.RequestID("life"))
}

// requireAuth checks the credential headers and stores the login in the
// request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.engine.RequireAuth(r.Context(), r.Header.Get(headerLogin), r.Header.Get(headerPassword))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(requestctx.WithLogin(r.Context(), user.Login)))
	}
}

// readLogin returns the login a read request names, from the query or the
// login header.
func readLogin(r *http.Request) string {
	if login := strings.TrimSpace(r.URL.Query().Get("login")); login != "" {
		return login
	}
	return strings.TrimSpace(r.Header.Get(headerLogin))
}

// locale picks the lang query parameter when set, then fallback, then the
// default locale.
func (h *Handler) locale(r *http.Request, fallback string) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return h.translator.Resolve(lang)
	}
	if fallback != "" {
		return fallback
	}
	return h.translator.DefaultLocale()
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		log.Printf("write response %s %s: %v", r.Method, r.URL.Path, err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	locale := h.locale(r, "")
	h.writeJSON(w, r, status, errorDTO{Error: errorBodyDTO{
		Code:    string(code),
		Message: h.translator.Translate(locale, code.MessageKey(), nil),
	}})
}

func invalidBody(err error) error {
	return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
}
