package httpapi

import (
	"time"

	"github.com/louisbranch/lifeprotocol/internal/platform/i18n"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/engine"
)

// timeLayout renders UTC instants with millisecond precision and a Z suffix.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(timeLayout)
}

type healthDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type dailyStatusDTO struct {
	Completed   bool   `json:"completed"`
	IntervalMs  int64  `json:"intervalMs"`
	NextResetAt string `json:"nextResetAt"`
	RemainingMs int64  `json:"remainingMs"`
}

func dailyStatusOf(status domain.DailyStatus) dailyStatusDTO {
	return dailyStatusDTO{
		Completed:   status.Completed,
		IntervalMs:  status.Interval.Milliseconds(),
		NextResetAt: formatTime(status.NextResetAt),
		RemainingMs: status.Remaining.Milliseconds(),
	}
}

type ritualDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Detail      string  `json:"detail"`
	Duration    string  `json:"duration"`
	Status      string  `json:"status"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

func ritualsOf(translator *i18n.Translator, locale string, board engine.RitualBoard) []ritualDTO {
	out := make([]ritualDTO, 0, len(board.Rituals))
	for _, ritual := range board.Rituals {
		prefix := "rituals." + string(ritual.ID) + "."
		dto := ritualDTO{
			ID:       string(ritual.ID),
			Title:    translator.Translate(locale, prefix+"title", nil),
			Detail:   translator.Translate(locale, prefix+"detail", nil),
			Duration: translator.Translate(locale, prefix+"duration", nil),
			Status:   string(ritual.Status),
		}
		if ritual.CompletedAt != nil {
			completedAt := formatTime(*ritual.CompletedAt)
			dto.CompletedAt = &completedAt
		}
		out = append(out, dto)
	}
	return out
}

type taskDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

func tasksOf(tasks []domain.Task) []taskDTO {
	out := make([]taskDTO, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskDTO{ID: task.ID, Title: task.Title, Detail: task.Detail, CreatedAt: formatTime(task.CreatedAt)})
	}
	return out
}

type logEntryDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	CreatedAt string `json:"createdAt"`
}

func logEntryOf(entry domain.LogEntry) logEntryDTO {
	return logEntryDTO{ID: entry.ID, Title: entry.Title, Note: entry.Note, CreatedAt: formatTime(entry.CreatedAt)}
}

type metricDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type languageDTO struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
}

type languageListDTO struct {
	Languages []languageDTO `json:"languages"`
}

type userDTO struct {
	Login     string `json:"login"`
	CreatedAt string `json:"createdAt"`
	Language  string `json:"language"`
}

func userOf(user domain.User) userDTO {
	return userDTO{Login: user.Login, CreatedAt: formatTime(user.CreatedAt), Language: user.Locale}
}

type authRequestDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type authResponseDTO struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    *userDTO `json:"user,omitempty"`
}

type languageRequestDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type logCreateDTO struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

type errorDTO struct {
	Error errorBodyDTO `json:"error"`
}

type errorBodyDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
