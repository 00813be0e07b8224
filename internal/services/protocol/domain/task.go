package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultTaskBatchSize is the number of suggestions requested for a refill.
const DefaultTaskBatchSize = 3

const maxSlugRunes = 32

// Task is one suggested task of a partition.
type Task struct {
	ID        string
	Title     string
	Detail    string
	CreatedAt time.Time
}

// RecordID builds a record id from its title, creation instant and a random
// disambiguator so identical titles created together never collide.
func RecordID(title string, createdAt time.Time, disambiguator string) string {
	parts := []string{slug(title), strconv.FormatInt(createdAt.UTC().UnixMilli(), 10)}
	if disambiguator = strings.TrimSpace(disambiguator); disambiguator != "" {
		parts = append(parts, disambiguator)
	}
	return strings.Join(parts, "-")
}

func slug(title string) string {
	var b strings.Builder
	runes := 0
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if runes >= maxSlugRunes {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteRune('-')
			dash = true
		default:
			continue
		}
		runes++
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "task"
	}
	return out
}

// TaskStale reports whether task is older than interval at now.
func TaskStale(task Task, now time.Time, interval time.Duration) bool {
	return now.Sub(task.CreatedAt) > interval
}

// NeedsRefill reports whether the list is empty or every entry is stale.
func NeedsRefill(tasks []Task, now time.Time, interval time.Duration) bool {
	for _, task := range tasks {
		if !TaskStale(task, now, interval) {
			return false
		}
	}
	return true
}

// DropStale returns the tasks that are not stale at now.
func DropStale(tasks []Task, now time.Time, interval time.Duration) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if !TaskStale(task, now, interval) {
			out = append(out, task)
		}
	}
	return out
}

// RemoveTask returns tasks without the record matching taskID and whether a
// record was removed.
func RemoveTask(tasks []Task, taskID string) ([]Task, bool) {
	out := make([]Task, 0, len(tasks))
	removed := false
	for _, task := range tasks {
		if !removed && task.ID == taskID {
			removed = true
			continue
		}
		out = append(out, task)
	}
	return out, removed
}

// PrependTasks returns added followed by tasks, newest first.
func PrependTasks(tasks []Task, added ...Task) []Task {
	out := make([]Task, 0, len(tasks)+len(added))
	out = append(out, added...)
	return append(out, tasks...)
}
