package model

import (
	"sort"
	"strings"
)

// DefaultEditorRows is applied when an editor field declares no settings.
const DefaultEditorRows = "10"

// Option is one (value, label) pair of a radio or select field. Editor fields
// reuse the pair as (setting name, setting value).
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field is the declarative description of one setting.
type Field struct {
	ID          string            `json:"id" yaml:"id"`
	Label       string            `json:"label" yaml:"label"`
	Kind        Kind              `json:"type" yaml:"type"`
	Default     string            `json:"default,omitempty" yaml:"default,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
}

// Attr returns the named attribute.
func (f Field) Attr(name string) (string, bool) {
	if f.Attributes == nil {
		return "", false
	}
	value, ok := f.Attributes[name]
	return value, ok
}

// AttributeNames returns attribute keys sorted so renderers emit them in a
// stable order.
func (f Field) AttributeNames() []string {
	if len(f.Attributes) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.Attributes))
	for name := range f.Attributes {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EditorOptions maps editor options into widget settings, falling back to
// textarea_rows=10 when the field declares none.
func (f Field) EditorOptions() map[string]string {
	if len(f.Options) == 0 {
		return map[string]string{"textarea_rows": DefaultEditorRows}
	}
	out := make(map[string]string, len(f.Options))
	for _, opt := range f.Options {
		key := strings.TrimSpace(opt.Value)
		if key == "" {
			continue
		}
		out[key] = opt.Label
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate a registered schema
// through shared maps or slices.
func (f Field) Clone() Field {
	out := f
	if len(f.Attributes) > 0 {
		out.Attributes = make(map[string]string, len(f.Attributes))
		for key, value := range f.Attributes {
			out.Attributes[key] = value
		}
	} else {
		out.Attributes = nil
	}
	if len(f.Options) > 0 {
		out.Options = append([]Option(nil), f.Options...)
	} else {
		out.Options = nil
	}
	return out
}
