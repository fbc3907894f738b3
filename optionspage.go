package optionspage

import (
	"bytes"
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
)

// Page aliases options.Page so callers can build pages from the module root.
type Page = options.Page

// Option aliases options.Option.
type Option = options.Option

// RenderRequest aliases options.RenderRequest for per-request overrides such
// as the tab, locale and referer.
type RenderRequest = options.RenderRequest

// NewPage exposes the page constructor from the top-level module.
func NewPage(id, title string, opts ...Option) *Page {
	return options.New(id, title, opts...)
}

// RenderHTML renders page for req and returns the markup. It is the simplest
// entry point for callers that just want HTML output.
func RenderHTML(ctx context.Context, page *Page, req RenderRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.RenderPage(ctx, &buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithTheme builds the vanilla renderer against a go-theme selector so the
// page chrome receives the selected tokens and template overrides.
func WithTheme(selector theme.ThemeSelector, name, variant string) (Option, error) {
	renderer, err := vanilla.New(vanilla.WithThemeSelector(selector, name, variant))
	if err != nil {
		return nil, err
	}
	return options.WithRenderer(renderer), nil
}
