package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig configures the Gemini generateContent generator.
type GeminiConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

// Gemini generates suggestions through the Gemini generateContent API.
type Gemini struct {
	cfg GeminiConfig
}

// NewGemini builds a Gemini generator.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultGeminiURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gemini{cfg: cfg}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, req Request) ([]Suggestion, error) {
	apiKey := strings.TrimSpace(g.cfg.APIKey)
	model := strings.TrimSpace(g.cfg.Model)
	if apiKey == "" {
		return nil, generationError("gemini generate", fmt.Errorf("api key is required"))
	}
	if model == "" {
		return nil, generationError("gemini generate", fmt.Errorf("model is required"))
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, generationError("gemini generate", err)
	}

	requestBody, err := json.Marshal(map[string]any{
		"systemInstruction": geminiContent{Parts: []geminiPart{{Text: prompt.System}}},
		"contents":          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt.User}}}},
		"generationConfig":  map[string]any{"temperature": g.cfg.Temperature},
	})
	if err != nil {
		return nil, generationError("gemini generate", fmt.Errorf("marshal request: %w", err))
	}
	endpoint := g.cfg.BaseURL + "/models/" + url.PathEscape(model) + ":generateContent?key=" + url.QueryEscape(apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return nil, generationError("gemini generate", fmt.Errorf("build request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := g.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		// The endpoint embeds the key; report the failure without the URL.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, generationError("gemini generate", fmt.Errorf("request failed: %w", err))
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, generationError("gemini generate", fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, generationError("gemini generate", fmt.Errorf("decode response: %w", err))
	}
	var text string
	if len(payload.Candidates) > 0 && len(payload.Candidates[0].Content.Parts) > 0 {
		text = strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
	}
	if text == "" {
		return nil, generationError("gemini generate", fmt.Errorf("response missing candidate text"))
	}
	return ParseSuggestions(text, req.Count)
}
