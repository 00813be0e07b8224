package suggest

import (
	"errors"
	"strings"
	"testing"
)

func contains(s string, sub string) bool {
	return strings.Contains(s, sub)
}

func TestParseSuggestions(t *testing.T) {
	text := "Here you go:\n```json\n[" +
		`{"title": " Walk ", "detail": "Ten minutes outside."},` +
		`{"title": "", "detail": "missing title"},` +
		`{"title": "No detail"},` +
		`"not an object",` +
		`{"title": "Stretch", "detail": "Neck and shoulders."}` +
		"]\n```"

	got, err := ParseSuggestions(text, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Suggestion{
		{Title: "Walk", Detail: "Ten minutes outside."},
		{Title: "Stretch", Detail: "Neck and shoulders."},
	}
	if len(got) != len(want) {
		t.Fatalf("suggestions = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestion[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseSuggestionsLimit(t *testing.T) {
	text := `[{"title":"A","detail":"a"},{"title":"B","detail":"b"}]`
	got, err := ParseSuggestions(text, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestParseSuggestionsErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no array", text: "I cannot help with that."},
		{name: "broken json", text: `[{"title": "A", "detail": }]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSuggestions(tt.text, 3)
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("err = %v, want ErrGeneration", err)
			}
		})
	}
}
