package options

import (
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-optionspage/internal/slug"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
)

// ResolveCurrentTab returns the slug of param when it is non-empty, otherwise
// the first tab id. The slug is not checked against the known tabs; an
// unknown tab renders with no sections. A page without tabs yields "".
func (p *Page) ResolveCurrentTab(param string) string {
	if resolved := slug.Make(param); resolved != "" {
		return resolved
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.tabs) == 0 {
		return ""
	}
	return p.tabs[0].ID
}

// TabLinks returns one navigation entry per tab in insertion order, marking
// current as active.
func (p *Page) TabLinks(current string) []render.TabLink {
	tabs := p.Tabs()
	links := make([]render.TabLink, 0, len(tabs))
	for _, tab := range tabs {
		links = append(links, render.TabLink{
			ID:     tab.ID,
			Name:   tab.Name,
			Href:   p.TabURL(tab.ID),
			Active: tab.ID == current,
		})
	}
	return links
}

// TabURL links to tab on this page: <base>?page=<id>&tab=<tab>.
func (p *Page) TabURL(tab string) string {
	base := p.baseURL
	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + "page=" + url.QueryEscape(p.id) + "&tab=" + url.QueryEscape(tab)
	}
	query := u.Query()
	query.Set("page", p.id)
	query.Set("tab", tab)
	u.RawQuery = query.Encode()
	return u.String()
}

// RenderNavigation writes the tab strip for current.
func (p *Page) RenderNavigation(w io.Writer, current string) error {
	return vanilla.WriteNavigation(w, p.TabLinks(current))
}
