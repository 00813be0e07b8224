package suggest

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`%([a-zA-Z0-9_]+)(\|[^%]+)?%`)

// ApplyTemplate replaces %name% and %name|fallback% placeholders with vars.
// A missing or empty value renders the fallback, or nothing without one.
func ApplyTemplate(input string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := placeholderPattern.FindStringSubmatch(match)
		if value := vars[parts[1]]; value != "" {
			return value
		}
		return strings.TrimPrefix(parts[2], "|")
	})
}
