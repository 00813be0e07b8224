// Package i18n resolves locale hints to supported locales and renders
// catalog messages with %name% placeholders.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/lifeprotocol/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

// Language describes one supported locale for selection surfaces.
type Language struct {
	Code string
	Name string
	Icon string
}

// Translator resolves locales and translates catalog keys.
type Translator struct {
	bundle        *catalog.Bundle
	supported     []language.Tag
	matcher       language.Matcher
	defaultLocale string
}

// New builds a translator over bundle. defaultHint picks the locale used when
// a hint is blank or unsupported; it must itself resolve to a bundle locale.
func New(bundle *catalog.Bundle, defaultHint string) (*Translator, error) {
	if bundle == nil {
		return nil, fmt.Errorf("catalog bundle is required")
	}
	locales := bundle.Locales()
	supported := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse catalog locale %q: %w", locale, err)
		}
		supported = append(supported, tag)
	}

	t := &Translator{
		bundle:    bundle,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
	defaultLocale, ok := t.match(defaultHint)
	if !ok {
		return nil, fmt.Errorf("default locale %q is not supported", defaultHint)
	}
	t.defaultLocale = defaultLocale
	return t, nil
}

// NewEmbedded builds a translator over the embedded catalogs.
func NewEmbedded(defaultHint string) (*Translator, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return New(bundle, defaultHint)
}

// DefaultLocale returns the locale used for blank or unsupported hints.
func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

// Resolve maps a free-form hint such as "en", "es-MX" or "ru_RU" to a
// supported locale, falling back to the default locale.
func (t *Translator) Resolve(hint string) string {
	if locale, ok := t.match(hint); ok {
		return locale
	}
	return t.defaultLocale
}

func (t *Translator) match(hint string) (string, bool) {
	hint = strings.TrimSpace(strings.ReplaceAll(hint, "_", "-"))
	if hint == "" {
		return "", false
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return "", false
	}
	_, index, confidence := t.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(t.supported) {
		return "", false
	}
	return t.supported[index].String(), true
}

// Translate renders key in locale, replacing %name% tokens with params.
// Unknown keys render as the key itself.
func (t *Translator) Translate(locale string, key string, params map[string]any) string {
	value, ok := t.bundle.Message(t.Resolve(locale), key)
	if !ok {
		return key
	}
	if len(params) == 0 {
		return value
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, "%"+name+"%", fmt.Sprint(params[name]))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

// Languages lists supported locales with their display name and icon.
func (t *Translator) Languages() []Language {
	out := make([]Language, 0, len(t.supported))
	for _, tag := range t.supported {
		code := tag.String()
		icon, ok := t.bundle.Message(code, "language.icon")
		if !ok || icon == "" {
			icon = "🌐"
		}
		name, _ := t.bundle.Message(code, "language.name")
		out = append(out, Language{Code: code, Name: name, Icon: icon})
	}
	return out
}
