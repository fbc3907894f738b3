package host

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// PageRequest carries the request details a page render needs.
type PageRequest struct {
	// Tab is the raw tab query parameter.
	Tab     string
	Locale  string
	Referer string
}

// RenderFunc draws a registered admin page for one request.
type RenderFunc func(ctx context.Context, w io.Writer, req PageRequest) error

// PageRegistration describes an admin menu entry.
type PageRegistration struct {
	Title      string
	MenuTitle  string
	Capability string
	Slug       string
	Render     RenderFunc
}

// AdminRegistrar adds pages to the admin menu.
type AdminRegistrar interface {
	AddPage(page PageRegistration) error
}

// Menu is an in-process AdminRegistrar that hosts look pages up from.
type Menu struct {
	mu    sync.RWMutex
	pages map[string]PageRegistration
}

// NewMenu returns an empty menu.
func NewMenu() *Menu {
	return &Menu{pages: make(map[string]PageRegistration)}
}

func (m *Menu) AddPage(page PageRegistration) error {
	slug := strings.TrimSpace(page.Slug)
	if slug == "" {
		return fmt.Errorf("host: page slug is required")
	}
	if page.Render == nil {
		return fmt.Errorf("host: page %q has no render callback", slug)
	}
	if page.MenuTitle == "" {
		page.MenuTitle = page.Title
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pages[slug]; exists {
		return fmt.Errorf("host: page %q already registered", slug)
	}
	m.pages[slug] = page
	return nil
}

// Page looks up a registration by slug.
func (m *Menu) Page(slug string) (PageRegistration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[slug]
	return page, ok
}

// Pages returns registrations sorted by slug.
func (m *Menu) Pages() []PageRegistration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PageRegistration, 0, len(m.pages))
	for _, page := range m.pages {
		out = append(out, page)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
