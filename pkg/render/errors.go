package render

import "strings"

// Settings error kinds understood by the banner.
const (
	ErrorKindError   = "error"
	ErrorKindUpdated = "updated"
)

// SettingsError is one entry of the settings-errors banner shown above the
// form. Code identifies the origin (a field key, or "settings_updated").
type SettingsError struct {
	Code    string
	Message string
	Kind    string
}

// IsError reports whether the entry should be styled as a failure.
func (e SettingsError) IsError() bool {
	return e.Kind != ErrorKindUpdated
}

// NormalizeErrors trims messages, drops empties, defaults the kind to
// "error", and removes duplicate (code, message) pairs while preserving order.
func NormalizeErrors(errs []SettingsError) []SettingsError {
	if len(errs) == 0 {
		return nil
	}

	out := make([]SettingsError, 0, len(errs))
	seen := make(map[string]struct{}, len(errs))
	for _, entry := range errs {
		entry.Code = strings.TrimSpace(entry.Code)
		entry.Message = strings.TrimSpace(entry.Message)
		entry.Kind = strings.TrimSpace(entry.Kind)
		if entry.Message == "" {
			continue
		}
		if entry.Kind == "" {
			entry.Kind = ErrorKindError
		}
		key := entry.Code + "\x00" + entry.Message
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// MergeErrors concatenates error slices and normalises the result.
func MergeErrors(existing []SettingsError, extras ...SettingsError) []SettingsError {
	combined := make([]SettingsError, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return NormalizeErrors(combined)
}
