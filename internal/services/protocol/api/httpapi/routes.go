package httpapi

import (
	"net/http"

	"github.com/louisbranch/lifeprotocol/internal/platform/httpx"
	"github.com/louisbranch/lifeprotocol/internal/platform/requestctx"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, healthDTO{Status: "ok", Timestamp: formatTime(h.clock())})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	status, err := h.engine.Status(r.Context(), readLogin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, dailyStatusOf(status))
}

func (h *Handler) languages(w http.ResponseWriter, r *http.Request) {
	languages := h.translator.Languages()
	out := languageListDTO{Languages: make([]languageDTO, 0, len(languages))}
	for _, language := range languages {
		out.Languages = append(out.Languages, languageDTO{Language: language.Code, Name: language.Name, Icon: language.Icon})
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) updateLanguage(w http.ResponseWriter, r *http.Request) {
	var body languageRequestDTO
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		h.writeError(w, r, invalidBody(err))
		return
	}
	user, err := h.engine.UpdateLanguage(r.Context(), r.Header.Get(headerLogin), r.Header.Get(headerPassword), body.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, userOf(user))
}

func (h *Handler) sessionLanguage(w http.ResponseWriter, r *http.Request) {
	var body languageRequestDTO
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		h.writeError(w, r, invalidBody(err))
		return
	}
	user, err := h.engine.UpdateLanguage(r.Context(), body.Login, body.Password, body.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, userOf(user))
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) {
	var body authRequestDTO
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		h.writeError(w, r, invalidBody(err))
		return
	}
	result, err := h.engine.Authenticate(r.Context(), body.Login, body.Password, body.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := authResponseDTO{Success: result.Success, Message: result.Message}
	if result.User != nil {
		user := userOf(*result.User)
		out.User = &user
	}
	h.writeJSON(w, r, http.StatusCreated, out)
}

func (h *Handler) listRituals(w http.ResponseWriter, r *http.Request) {
	board, err := h.engine.ListRituals(r.Context(), readLogin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ritualsOf(h.translator, h.locale(r, board.Locale), board))
}

func (h *Handler) startRitual(w http.ResponseWriter, r *http.Request) {
	board, err := h.engine.StartRitual(r.Context(), requestctx.LoginFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ritualsOf(h.translator, h.locale(r, board.Locale), board))
}

func (h *Handler) completeRitual(w http.ResponseWriter, r *http.Request) {
	board, err := h.engine.CompleteRitual(r.Context(), requestctx.LoginFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ritualsOf(h.translator, h.locale(r, board.Locale), board))
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.GetTasks(r.Context(), readLogin(r), r.URL.Query().Get("lang"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tasksOf(list.Tasks))
}

func (h *Handler) swipeTask(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.SwipeTask(r.Context(), requestctx.LoginFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tasksOf(list.Tasks))
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.engine.ListLogs(r.Context(), readLogin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]logEntryDTO, 0, len(logs))
	for _, entry := range logs {
		out = append(out, logEntryOf(entry))
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) addLog(w http.ResponseWriter, r *http.Request) {
	var body logCreateDTO
	if err := httpx.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		h.writeError(w, r, invalidBody(err))
		return
	}
	entry, err := h.engine.AddLog(r.Context(), requestctx.LoginFromContext(r.Context()), body.Title, body.Note)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, logEntryOf(entry))
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	board, err := h.engine.Metrics(r.Context(), readLogin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	locale := h.locale(r, board.Locale)
	out := make([]metricDTO, 0, len(board.Metrics))
	for _, metric := range board.Metrics {
		out = append(out, metricDTO{
			Label: h.translator.Translate(locale, metric.LabelKey, nil),
			Value: h.translator.Translate(locale, metric.ValueKey, nil),
		})
	}
	h.writeJSON(w, r, http.StatusOK, out)
}
