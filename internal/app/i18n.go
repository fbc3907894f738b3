package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-optionspage/pkg/render"
)

// ErrMissingTranslation is returned for keys the catalog cannot resolve.
var ErrMissingTranslation = errors.New("app: translation missing")

// Catalog translates label keys from configured locale tables. Requested
// locales are matched to the closest configured one, so pt-BR falls back to
// pt.
type Catalog struct {
	matcher  language.Matcher
	tags     []language.Tag
	messages []map[string]string
}

var _ render.Translator = (*Catalog)(nil)

// NewCatalog builds a catalog from locale -> key -> message tables. Locales
// that do not parse as BCP 47 tags are skipped.
func NewCatalog(translations map[string]map[string]string) *Catalog {
	locales := make([]string, 0, len(translations))
	for locale := range translations {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	c := &Catalog{}
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		c.tags = append(c.tags, tag)
		c.messages = append(c.messages, translations[locale])
	}
	if len(c.tags) > 0 {
		c.matcher = language.NewMatcher(c.tags)
	}
	return c
}

// Locales lists the configured locales.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil || c.matcher == nil || strings.TrimSpace(locale) == "" {
		return "", ErrMissingTranslation
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingTranslation, err)
	}
	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(c.messages) {
		return "", ErrMissingTranslation
	}
	message, ok := c.messages[index][key]
	if !ok || message == "" {
		return "", ErrMissingTranslation
	}
	if len(args) > 0 {
		return fmt.Sprintf(message, args...), nil
	}
	return message, nil
}
