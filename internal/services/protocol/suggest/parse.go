package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ParseSuggestions extracts the JSON array embedded in generator output.
// Items without a title or detail are dropped. At most limit items are
// returned when limit is positive.
func ParseSuggestions(text string, limit int) ([]Suggestion, error) {
	match := jsonArrayPattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return nil, generationError("parse suggestions", errors.New("output does not contain a JSON array"))
	}
	var items []any
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, generationError("parse suggestions", fmt.Errorf("decode JSON array: %w", err))
	}

	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := strings.TrimSpace(asString(fields["title"]))
		detail := strings.TrimSpace(asString(fields["detail"]))
		if title == "" || detail == "" {
			continue
		}
		out = append(out, Suggestion{Title: title, Detail: detail})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
