// Package suggest requests daily task suggestions from an external text
// generator and parses its output.
package suggest

import (
	"context"

	apperrors "github.com/louisbranch/lifeprotocol/internal/platform/errors"
)

// ErrGeneration indicates the generator failed or returned unusable output.
var ErrGeneration = apperrors.New(apperrors.CodeGenerationFailed, "suggestion generation failed")

// Request is the progress context sent with a suggestion request.
type Request struct {
	Count            int
	Locale           string
	RitualsTotal     int
	RitualsCompleted int
	LogsCount        int
	CompletionRatio  float64
}

// Suggestion is one generated task.
type Suggestion struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Generator produces up to req.Count suggestions.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Suggestion, error)
}

func generationError(message string, cause error) error {
	return apperrors.Wrap(apperrors.CodeGenerationFailed, message, cause)
}
