package vanilla

import (
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-optionspage/pkg/render"
)

// NavigationHTML builds the tab strip. Hrefs are escaped, so query separators
// come out as &amp;.
func NavigationHTML(tabs []render.TabLink) string {
	var b strings.Builder
	b.WriteString(`<h2 class="`)
	b.WriteString(string(ClassNavWrapper))
	b.WriteString(`">`)
	for _, tab := range tabs {
		class := string(ClassNavTab)
		if tab.Active {
			class += " " + string(ClassNavTabActive)
		}
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(tab.Href))
		b.WriteString(`" class="`)
		b.WriteString(class)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(tab.Name))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</h2>`)
	return b.String()
}

// WriteNavigation writes NavigationHTML to w.
func WriteNavigation(w io.Writer, tabs []render.TabLink) error {
	_, err := io.WriteString(w, NavigationHTML(tabs))
	return err
}
