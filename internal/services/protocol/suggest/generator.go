package suggest

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// DefaultTemperature keeps suggestions varied but on topic.
const DefaultTemperature = 0.4

// Config selects and configures a generator backend.
type Config struct {
	Model        string
	APIKey       string
	ResponsesURL string
	GeminiURL    string
	Temperature  float64
	HTTPClient   *http.Client
}

// New returns the generator for cfg.Model. Models starting with "gemini"
// use the Gemini API and everything else the OpenAI Responses API. Without
// an API key the returned generator always fails with ErrGeneration.
func New(cfg Config) Generator {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Disabled{}
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Model)), "gemini") {
		return NewGemini(GeminiConfig{
			BaseURL:     cfg.GeminiURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		})
	}
	return NewOpenAI(OpenAIConfig{
		ResponsesURL: cfg.ResponsesURL,
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		HTTPClient:   cfg.HTTPClient,
	})
}

// Disabled is the generator used when no backend is configured.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(context.Context, Request) ([]Suggestion, error) {
	return nil, generationError("generate", errors.New("suggestion generator is not configured"))
}
