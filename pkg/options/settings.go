package options

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

// RegisterSettings registers every tab as a namespace with store: its
// sections, a descriptor per field and the page's sanitizer. The store is
// kept for later renders and submissions.
func (p *Page) RegisterSettings(ctx context.Context, store host.SettingsStore) error {
	if store == nil {
		return ErrNoStore
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	if p.state != StateDefined {
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, p.id)
	}
	p.state = StateRegistered
	p.store = store
	tabs := make([]string, 0, len(p.tabs))
	for _, tab := range p.tabs {
		tabs = append(tabs, tab.ID)
	}
	p.mu.Unlock()

	for _, tab := range p.Tabs() {
		for _, section := range tab.Sections() {
			store.RegisterSection(tab.ID, section.ID, section.Name)
			for _, field := range section.Fields() {
				store.RegisterField(host.FieldDescriptor{
					ID:          field.ID,
					Label:       field.Label,
					Kind:        field.Kind,
					Namespace:   tab.ID,
					Section:     section.ID,
					Default:     field.Default,
					Description: field.Description,
					Attributes:  field.Attributes,
					Options:     field.Options,
				})
			}
		}
		store.RegisterSetting(tab.ID, p.Sanitizer(tab.ID))
	}

	p.logger.Debug().Str("page", p.id).Strs("namespaces", tabs).Msg("options page registered")
	return nil
}

// Sanitizer returns the callback registered for namespace. Rejected values
// are queued as settings errors on the registered store under namespace.
func (p *Page) Sanitizer(namespace string) host.Sanitizer {
	return func(ctx context.Context, raw map[string]string) map[string]string {
		return p.validate(ctx, namespace, raw)
	}
}

// Validate passes every submitted key through the page filter. Keys absent
// from raw are not carried over from stored state, so an unchecked checkbox
// disappears from storage on the next save. A key whose filter fails is
// dropped and logged; use Sanitizer to also surface the failure in the
// settings banner.
func (p *Page) Validate(ctx context.Context, raw map[string]string) map[string]string {
	return p.validate(ctx, "", raw)
}

func (p *Page) validate(ctx context.Context, namespace string, raw map[string]string) map[string]string {
	if ctx == nil {
		ctx = context.Background()
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, key := range keys {
		value, err := p.filter(ctx, p.id, key, raw[key])
		if err != nil {
			p.reject(namespace, key, err)
			continue
		}
		out[key] = value
	}

	p.advance(StateSubmitted)
	return out
}

func (p *Page) reject(namespace, key string, err error) {
	p.logger.Warn().Err(err).Str("page", p.id).Str("namespace", namespace).Str("key", key).Msg("settings value rejected")
	if p.observer != nil {
		p.observer.ObserveRejection(p.id, key)
	}
	if namespace == "" {
		return
	}
	if store := p.Store(); store != nil {
		store.AddError(namespace, key, validation.Message(err), render.ErrorKindError)
	}
}

// CurrentValue returns the stored value of fieldID in tabID, or the field
// default when nothing is stored. A nil store uses the registered one.
func (p *Page) CurrentValue(ctx context.Context, store host.SettingsStore, tabID, fieldID string) (string, error) {
	if store == nil {
		store = p.Store()
	}
	if store == nil {
		return "", ErrNoStore
	}
	values, err := store.Namespace(ctx, tabID)
	if err != nil {
		return "", fmt.Errorf("options: load namespace %q: %w", tabID, err)
	}
	if tab, ok := p.Tab(tabID); ok {
		if field, ok := tab.Field(fieldID); ok {
			return values.Current(field), nil
		}
	}
	value, _ := values.Lookup(fieldID)
	return value, nil
}

// RegisterMenu adds the page to an admin menu. The render callback uses the
// registered store and the page nonce issuer.
func (p *Page) RegisterMenu(admin host.AdminRegistrar) error {
	if admin == nil {
		return fmt.Errorf("options: admin registrar is nil")
	}
	return admin.AddPage(host.PageRegistration{
		Title:      p.title,
		MenuTitle:  p.menuTitle,
		Capability: p.capability,
		Slug:       p.id,
		Render: func(ctx context.Context, w io.Writer, req host.PageRequest) error {
			return p.RenderPage(ctx, w, RenderRequest{
				Tab:     req.Tab,
				Locale:  req.Locale,
				Referer: req.Referer,
			})
		},
	})
}
