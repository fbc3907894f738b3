package render

import (
	"sort"
	"strings"
)

// CSSDeclarations renders vars as CSS custom property declarations sorted by
// name, suitable for an inline style attribute. Names without a leading "--"
// get one.
func CSSDeclarations(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, "--"+strings.TrimPrefix(key, "--")+": "+vars[key]+";")
	}
	return strings.Join(parts, " ")
}
