package host

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// EditorWidget renders the rich text editor for an editor field. content is
// already paragraph-wrapped markup; settings are the field's editor options.
type EditorWidget interface {
	Render(w io.Writer, id, name, content string, settings map[string]string) error
}

// EditorFunc adapts a function to EditorWidget.
type EditorFunc func(w io.Writer, id, name, content string, settings map[string]string) error

func (fn EditorFunc) Render(w io.Writer, id, name, content string, settings map[string]string) error {
	return fn(w, id, name, content, settings)
}

// TextareaEditor is the fallback widget: a plain textarea sized by the
// textarea_rows setting. Other settings become data attributes so client-side
// editors can pick them up.
type TextareaEditor struct{}

func (TextareaEditor) Render(w io.Writer, id, name, content string, settings map[string]string) error {
	rows := strings.TrimSpace(settings["textarea_rows"])
	if rows == "" {
		rows = "10"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<textarea class="optionspage-editor" id="%s" name="%s" rows="%s"`,
		html.EscapeString(id), html.EscapeString(name), html.EscapeString(rows))

	keys := make([]string, 0, len(settings))
	for key := range settings {
		if key == "textarea_rows" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, ` data-editor-%s="%s"`, html.EscapeString(key), html.EscapeString(settings[key]))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(content))
	b.WriteString("</textarea>")

	_, err := io.WriteString(w, b.String())
	return err
}
