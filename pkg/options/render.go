package options

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
)

// RenderRequest carries the per-request inputs of RenderPage.
type RenderRequest struct {
	// Tab is the raw tab query parameter.
	Tab     string
	Locale  string
	Referer string
	// Renderer names a renderer from the page registry; blank uses the default.
	Renderer string
	// Store overrides the registered settings store.
	Store host.SettingsStore
	// Nonces overrides the page nonce issuer.
	Nonces host.NonceIssuer
	// Errors are shown in the banner after the store's queued messages.
	Errors []render.SettingsError
}

// View resolves the request into the render-ready snapshot: current tab,
// navigation, queued settings errors, hidden submit fields and the current
// tab's sections with stored values (falling back to field defaults).
func (p *Page) View(ctx context.Context, req RenderRequest) (render.PageView, error) {
	if len(p.Tabs()) == 0 {
		return render.PageView{}, ErrNoTabs
	}

	current := p.ResolveCurrentTab(req.Tab)
	store := req.Store
	if store == nil {
		store = p.Store()
	}

	var values model.Values
	var queued []render.SettingsError
	if store != nil {
		stored, err := store.Namespace(ctx, current)
		if err != nil {
			return render.PageView{}, fmt.Errorf("options: load namespace %q: %w", current, err)
		}
		values = stored
		queued = store.Errors(current)
	}

	view := render.PageView{
		ID:         p.id,
		Title:      p.title,
		BaseURL:    p.baseURL,
		CurrentTab: current,
		Tabs:       p.TabLinks(current),
		Errors:     render.NormalizeErrors(render.MergeErrors(queued, req.Errors...)),
		Action:     p.action,
		Labels:     p.labels.Localize(req.Locale, p.translator, nil).WithDefaults(),
		Locale:     req.Locale,
	}

	// Hidden submit fields belong to a known tab only; an unknown tab renders
	// an empty form.
	if tab, ok := p.Tab(current); ok {
		nonces := req.Nonces
		if nonces == nil {
			nonces = p.nonces
		}
		nonce := ""
		if nonces != nil {
			nonce = nonces.Issue(render.NonceAction(current))
		}
		view.Hidden = render.SettingsFields(current, nonce, req.Referer)

		for _, section := range tab.Sections() {
			sv := render.SectionView{ID: section.ID, Name: section.Name}
			for _, field := range section.Fields() {
				sv.Fields = append(sv.Fields, render.FieldView{
					Field: field,
					Value: values.Current(field),
				})
			}
			view.Sections = append(view.Sections, sv)
		}
	}
	return view, nil
}

// RenderPage writes the full page for one request: navigation, the settings
// errors banner, the form posting to the submission endpoint with the nonce
// fields of the current tab, the current tab's sections and the submit
// control.
func (p *Page) RenderPage(ctx context.Context, w io.Writer, req RenderRequest) (err error) {
	if ctx == nil {
		return errors.New("options: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	started := time.Now()
	current := p.ResolveCurrentTab(req.Tab)
	defer func() {
		if p.observer != nil {
			p.observer.ObserveRender(p.id, current, time.Since(started), err)
		}
		if err != nil {
			p.logger.Error().Err(err).Str("page", p.id).Str("tab", current).Msg("render options page failed")
		}
	}()

	renderer, err := p.rendererFor(req.Renderer)
	if err != nil {
		return err
	}

	view, err := p.View(ctx, req)
	if err != nil {
		return err
	}

	p.advance(StateRendering)
	if err := renderer.Render(ctx, w, view); err != nil {
		return fmt.Errorf("options: render %q: %w", p.id, err)
	}
	return nil
}
