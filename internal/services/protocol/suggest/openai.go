package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

// OpenAIConfig configures the Responses API generator.
type OpenAIConfig struct {
	ResponsesURL string
	APIKey       string
	Model        string
	Temperature  float64
	HTTPClient   *http.Client
}

// OpenAI generates suggestions through the OpenAI Responses API.
type OpenAI struct {
	cfg OpenAIConfig
}

// NewOpenAI builds a Responses API generator.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	return &OpenAI{cfg: cfg}
}

// Generate implements Generator.
func (g *OpenAI) Generate(ctx context.Context, req Request) ([]Suggestion, error) {
	apiKey := strings.TrimSpace(g.cfg.APIKey)
	model := strings.TrimSpace(g.cfg.Model)
	if apiKey == "" {
		return nil, generationError("openai generate", fmt.Errorf("api key is required"))
	}
	if model == "" {
		return nil, generationError("openai generate", fmt.Errorf("model is required"))
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, generationError("openai generate", err)
	}

	requestBody, err := json.Marshal(map[string]any{
		"model":        model,
		"instructions": prompt.System,
		"input":        prompt.User,
		"temperature":  g.cfg.Temperature,
	})
	if err != nil {
		return nil, generationError("openai generate", fmt.Errorf("marshal request: %w", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, generationError("openai generate", fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The key travels only in the Authorization header and never in errors.
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := g.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, generationError("openai generate", fmt.Errorf("request failed: %w", err))
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, generationError("openai generate", fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, generationError("openai generate", fmt.Errorf("decode response: %w", err))
	}
	outputText := strings.TrimSpace(payload.OutputText)
	for _, item := range payload.Output {
		if outputText != "" {
			break
		}
		for _, content := range item.Content {
			if text := strings.TrimSpace(content.Text); text != "" {
				outputText = text
				break
			}
		}
	}
	if outputText == "" {
		return nil, generationError("openai generate", fmt.Errorf("response missing output text"))
	}
	return ParseSuggestions(outputText, req.Count)
}
