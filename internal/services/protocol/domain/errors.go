package domain

import apperrors "github.com/louisbranch/lifeprotocol/internal/platform/errors"

var (
	// ErrRitualNotFound indicates a ritual id outside the canonical set.
	ErrRitualNotFound = apperrors.New(apperrors.CodeRitualNotFound, "ritual not found")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = apperrors.New(apperrors.CodeUnauthorized, "unauthorized")
	// ErrEmptyLogTitle indicates a log entry without a title.
	ErrEmptyLogTitle = apperrors.New(apperrors.CodeInvalidArgument, "log title is required")
)
