package model

import "strings"

// Values holds the stored settings of one tab namespace, keyed by field id.
type Values map[string]string

// Current returns the stored value for field, or its default when the key is
// absent.
func (v Values) Current(field Field) string {
	if value, ok := v[field.ID]; ok {
		return value
	}
	return field.Default
}

// Lookup returns the raw stored value without default fallback.
func (v Values) Lookup(key string) (string, bool) {
	value, ok := v[key]
	return value, ok
}

// Clone copies the map; a nil receiver yields an empty, non-nil map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// SplitGallery splits a comma separated attachment list, dropping empty
// parts. Ids are opaque and kept as given.
func SplitGallery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinGallery is the inverse of SplitGallery for non-empty ids.
func JoinGallery(ids []string) string {
	return strings.Join(SplitGallery(strings.Join(ids, ",")), ",")
}
