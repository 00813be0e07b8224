package domain

import (
	"strings"
	"time"
)

// LogEntry is one immutable journal entry.
type LogEntry struct {
	ID        string
	Title     string
	Note      string
	CreatedAt time.Time
}

// NewLogEntry validates and builds an entry created at now.
func NewLogEntry(title string, note string, now time.Time, disambiguator string) (LogEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return LogEntry{}, ErrEmptyLogTitle
	}
	createdAt := now.UTC()
	return LogEntry{
		ID:        RecordID(title, createdAt, disambiguator),
		Title:     title,
		Note:      strings.TrimSpace(note),
		CreatedAt: createdAt,
	}, nil
}

// PrependLog returns entry followed by logs, newest first.
func PrependLog(logs []LogEntry, entry LogEntry) []LogEntry {
	out := make([]LogEntry, 0, len(logs)+1)
	out = append(out, entry)
	return append(out, logs...)
}
