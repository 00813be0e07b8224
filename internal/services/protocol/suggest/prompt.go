package suggest

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed prompts/*.prompt.md
var promptFS embed.FS

const (
	systemPromptName = "system"
	dailyPromptName  = "daily_tasks"
)

func loadPrompt(name string) (string, error) {
	content, err := promptFS.ReadFile("prompts/" + name + ".prompt.md")
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return strings.TrimSpace(string(content)), nil
}

// Prompt is a rendered system and user message pair.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the daily tasks prompt for req.
func BuildPrompt(req Request) (Prompt, error) {
	system, err := loadPrompt(systemPromptName)
	if err != nil {
		return Prompt{}, err
	}
	user, err := loadPrompt(dailyPromptName)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: system,
		User: ApplyTemplate(user, map[string]string{
			"count":             strconv.Itoa(req.Count),
			"rituals_total":     strconv.Itoa(req.RitualsTotal),
			"rituals_completed": strconv.Itoa(req.RitualsCompleted),
			"logs_count":        strconv.Itoa(req.LogsCount),
			"completion_ratio":  strconv.FormatFloat(req.CompletionRatio, 'f', 2, 64),
			"language":          languageName(req.Locale),
		}),
	}, nil
}

// languageName returns the English name of locale, or "" when unknown.
func languageName(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return display.English.Languages().Name(language.Make(base.String()))
}
