// Package validation provides the sanitizing filters applied to settings
// submissions before they are persisted. A Filter receives the page id, the
// field key and the submitted value and returns the value to store. Returning
// an error rejects the value; the caller records the error for the settings
// banner and drops the key.
package validation

import (
	"context"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Filter transforms a single submitted value.
type Filter func(ctx context.Context, pageID, key, value string) (string, error)

// Identity returns values unchanged.
func Identity(_ context.Context, _, _, value string) (string, error) {
	return value, nil
}

// TrimSpace removes leading and trailing whitespace.
func TrimSpace(_ context.Context, _, _, value string) (string, error) {
	return strings.TrimSpace(value), nil
}

// StripTags removes every HTML element, keeping text content.
func StripTags(_ context.Context, _, _, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return strictSanitizer().Sanitize(value), nil
}

// SanitizeHTML keeps the markup allowed in user generated content (links,
// emphasis, lists, images) and strips everything else.
func SanitizeHTML(_ context.Context, _, _, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return ugcSanitizer().Sanitize(value), nil
}

// Chain runs filters in order, feeding each output to the next. The first
// error stops the chain. Nil filters are skipped.
func Chain(filters ...Filter) Filter {
	return func(ctx context.Context, pageID, key, value string) (string, error) {
		var err error
		for _, f := range filters {
			if f == nil {
				continue
			}
			value, err = f(ctx, pageID, key, value)
			if err != nil {
				return "", err
			}
		}
		return value, nil
	}
}

// ForKeys dispatches on the field key. Keys without an entry use fallback;
// a nil fallback behaves like Identity.
func ForKeys(byKey map[string]Filter, fallback Filter) Filter {
	table := make(map[string]Filter, len(byKey))
	for key, f := range byKey {
		if f != nil {
			table[key] = f
		}
	}
	if fallback == nil {
		fallback = Identity
	}
	return func(ctx context.Context, pageID, key, value string) (string, error) {
		if f, ok := table[key]; ok {
			return f(ctx, pageID, key, value)
		}
		return fallback(ctx, pageID, key, value)
	}
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy
)

func strictSanitizer() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func ugcSanitizer() *bluemonday.Policy {
	ugcOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		ugcPolicy = policy
	})
	return ugcPolicy
}
