package definition

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/validation/celfilter"
)

// Document is one definition file.
type Document struct {
	Pages []Page `json:"pages" yaml:"pages"`
}

// Page declares an options page.
type Page struct {
	ID         string           `json:"id" yaml:"id"`
	Title      string           `json:"title" yaml:"title"`
	MenuTitle  string           `json:"menu_title,omitempty" yaml:"menu_title,omitempty"`
	Capability string           `json:"capability,omitempty" yaml:"capability,omitempty"`
	Rules      []celfilter.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Tabs       []Tab            `json:"tabs" yaml:"tabs"`

	// Source is the file the page was read from.
	Source string `json:"-" yaml:"-"`
}

type Tab struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Sections []Section `json:"sections" yaml:"sections"`
}

type Section struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field mirrors model.Field; Type is parsed with model.ParseKind.
type Field struct {
	ID          string            `json:"id" yaml:"id"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Type        string            `json:"type" yaml:"type"`
	Default     string            `json:"default,omitempty" yaml:"default,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Options     OptionList        `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionList keeps radio/select choices in document order.
type OptionList []model.Option

// UnmarshalYAML accepts a mapping of value: label or a sequence of
// {value, label} mappings.
func (l *OptionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(OptionList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, model.Option{Value: node.Content[i].Value, Label: node.Content[i+1].Value})
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var items []model.Option
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
	}
	return fmt.Errorf("options must be a mapping or a sequence (line %d)", node.Line)
}

// UnmarshalJSON accepts an object (key order kept) or an array of
// {value, label} objects.
func (l *OptionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var items []model.Option
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if tok, err := dec.Token(); err != nil {
		return err
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options must be an object or an array")
	}
	var out OptionList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var label string
		if err := dec.Decode(&label); err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		out = append(out, model.Option{Value: key, Label: label})
	}
	*l = out
	return nil
}
