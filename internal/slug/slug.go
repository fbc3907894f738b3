// Package slug normalises free-form strings into the lowercase, hyphenated
// identifiers used for tab ids and radio/select option values.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases value, folds accents ("Ação" -> "acao") and replaces every
// run of characters that are not letters, digits or underscores with a single
// hyphen. Leading and trailing hyphens are trimmed.
func Make(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	folded, _, err := transform.String(foldMarks(), value)
	if err != nil {
		folded = value
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}

// Equal reports whether a and b normalise to the same slug.
func Equal(a, b string) bool {
	return Make(a) == Make(b)
}

// foldMarks builds a fresh transformer per call; transform chains keep state
// and must not be shared between goroutines.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
