package vanilla

import (
	"html"
	"net/url"
	"strings"

	"github.com/goliatone/go-optionspage/pkg/model"
)

// inputName is the form name of a field inside a namespace: ns[field].
func inputName(namespace, id string) string {
	return namespace + "[" + id + "]"
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(html.EscapeString(name))
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

// writeAttributes emits field attributes in sorted order, with overrides
// replacing (or adding) entries and skip naming keys the caller already wrote.
func writeAttributes(b *strings.Builder, field model.Field, overrides map[string]string, skip ...string) {
	merged := make(map[string]string, len(field.Attributes)+len(overrides))
	for key, value := range field.Attributes {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}
	for _, key := range skip {
		delete(merged, key)
	}
	emit := model.Field{Attributes: merged}
	for _, name := range emit.AttributeNames() {
		writeAttr(b, name, merged[name])
	}
}

func writeDescription(b *strings.Builder, field model.Field) {
	if strings.TrimSpace(field.Description) == "" {
		return
	}
	b.WriteString(`<p class="`)
	b.WriteString(string(ClassDescription))
	b.WriteString(`">`)
	b.WriteString(field.Description)
	b.WriteString(`</p>`)
}

var allowedURLSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"ftp":    {},
	"ftps":   {},
	"mailto": {},
}

// cleanURL drops values that do not parse or carry a scheme outside the
// allow list; relative references pass through.
func cleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, raw)
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" {
		if _, ok := allowedURLSchemes[strings.ToLower(parsed.Scheme)]; !ok {
			return ""
		}
	}
	return raw
}

func splitMulti(current string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, part := range strings.Split(current, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out[part] = struct{}{}
		}
	}
	return out
}
