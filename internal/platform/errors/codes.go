// Package errors provides coded domain errors for the life protocol engine.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument reports malformed caller input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeNotFound reports a missing stored record.
	CodeNotFound Code = "NOT_FOUND"

	// CodeRitualNotFound reports a ritual id outside the canonical set.
	CodeRitualNotFound Code = "RITUAL_NOT_FOUND"

	// CodeUnauthorized reports missing or invalid credentials.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeGenerationFailed reports a suggestion generator failure.
	CodeGenerationFailed Code = "GENERATION_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound, CodeRitualNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the catalog key holding the user-facing text for c.
func (c Code) MessageKey() string {
	return "errors." + string(c)
}
