package domain

import (
	"strings"
	"time"
)

// User is an account owning one partition.
type User struct {
	Login        string
	PasswordHash string
	Locale       string
	CreatedAt    time.Time
}

// NormalizeLogin trims a login candidate.
func NormalizeLogin(raw string) string {
	return strings.TrimSpace(raw)
}
