// Package id generates URL-safe identifiers.
//
// Identifiers are UUIDv4 bytes encoded as unpadded lowercase base32
// (RFC 4648), 26 characters long.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// Short returns the first n characters of a new identifier. It is meant for
// disambiguating suffixes, not for standalone identity.
func Short(n int) (string, error) {
	value, err := NewID()
	if err != nil {
		return "", err
	}
	if n <= 0 || n > len(value) {
		return value, nil
	}
	return value[:n], nil
}
