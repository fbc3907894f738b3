package options

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

const (
	// DefaultBaseURL is the admin entry point navigation links point at.
	DefaultBaseURL = "/admin"
	// DefaultAction is the generic options submission endpoint.
	DefaultAction = "/options"
	// DefaultCapability is required to view a page when none is configured.
	DefaultCapability = "manage_options"
)

var (
	// ErrAlreadyRegistered is returned by a second RegisterSettings call.
	ErrAlreadyRegistered = errors.New("options: page already registered")
	// ErrNoTabs is returned when rendering a page without tabs.
	ErrNoTabs = errors.New("options: page has no tabs")
	// ErrNoStore is returned when an operation needs a settings store and
	// none was registered or supplied.
	ErrNoStore = errors.New("options: settings store is not configured")
)

// Observer receives page level events. internal/metrics implements it.
type Observer interface {
	ObserveRender(page, tab string, elapsed time.Duration, err error)
	ObserveRejection(page, key string)
}

// Option customises a Page.
type Option func(*Page)

// WithCapability sets the capability a user needs to see the page.
func WithCapability(capability string) Option {
	return func(p *Page) {
		p.capability = strings.TrimSpace(capability)
	}
}

// WithMenuTitle sets the menu caption. Defaults to the page title.
func WithMenuTitle(title string) Option {
	return func(p *Page) {
		p.menuTitle = title
	}
}

// WithBaseURL overrides the URL navigation links are built on.
func WithBaseURL(base string) Option {
	return func(p *Page) {
		p.baseURL = base
	}
}

// WithAction overrides the form submit endpoint.
func WithAction(action string) Option {
	return func(p *Page) {
		p.action = action
	}
}

// WithFilter injects the filter applied to every submitted value. The filter
// receives the page id so one filter can serve several pages.
func WithFilter(filter validation.Filter) Option {
	return func(p *Page) {
		p.filter = filter
	}
}

// WithRegistry injects the renderer registry used by RenderPage.
func WithRegistry(registry *render.Registry) Option {
	return func(p *Page) {
		p.registry = registry
	}
}

// WithRenderer registers renderer and makes it the page default.
func WithRenderer(renderer render.Renderer) Option {
	return func(p *Page) {
		p.renderer = renderer
	}
}

// WithNonces sets the issuer for the hidden nonce field.
func WithNonces(issuer host.NonceIssuer) Option {
	return func(p *Page) {
		p.nonces = issuer
	}
}

// WithLabels overrides the button and notice captions.
func WithLabels(labels render.Labels) Option {
	return func(p *Page) {
		p.labels = labels
	}
}

// WithTranslator localises captions per request locale.
func WithTranslator(t render.Translator) Option {
	return func(p *Page) {
		p.translator = t
	}
}

// WithLogger sets the page logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// WithObserver reports renders and rejected values.
func WithObserver(observer Observer) Option {
	return func(p *Page) {
		p.observer = observer
	}
}

// Page is one admin settings page. Definition methods (AddTab and the
// section builders) are meant to run before RegisterSettings; request
// methods are safe for concurrent use afterwards.
type Page struct {
	id         string
	title      string
	menuTitle  string
	capability string
	baseURL    string
	action     string

	filter     validation.Filter
	registry   *render.Registry
	renderer   render.Renderer
	nonces     host.NonceIssuer
	labels     render.Labels
	translator render.Translator
	logger     zerolog.Logger
	observer   Observer

	mu    sync.RWMutex
	tabs  []*model.Tab
	index map[string]int
	store host.SettingsStore
	state State

	initOnce sync.Once
	initErr  error
}

// New returns a page in the Defined state.
func New(id, title string, opts ...Option) *Page {
	p := &Page{
		id:         strings.TrimSpace(id),
		title:      title,
		capability: DefaultCapability,
		baseURL:    DefaultBaseURL,
		action:     DefaultAction,
		filter:     validation.Identity,
		labels:     render.DefaultLabels(),
		logger:     zerolog.Nop(),
		index:      make(map[string]int),
		state:      StateDefined,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.menuTitle == "" {
		p.menuTitle = p.title
	}
	if p.capability == "" {
		p.capability = DefaultCapability
	}
	if p.filter == nil {
		p.filter = validation.Identity
	}
	return p
}

func (p *Page) ID() string         { return p.id }
func (p *Page) Title() string      { return p.title }
func (p *Page) MenuTitle() string  { return p.menuTitle }
func (p *Page) Capability() string { return p.capability }
func (p *Page) Action() string     { return p.action }

// AddTab creates a tab and returns it for section configuration. Adding an
// existing id replaces that tab in its original position.
func (p *Page) AddTab(id, name string) *model.Tab {
	tab := model.NewTab(id, name)

	p.mu.Lock()
	defer p.mu.Unlock()

	if idx, ok := p.index[tab.ID]; ok {
		p.tabs[idx] = tab
		return tab
	}
	p.index[tab.ID] = len(p.tabs)
	p.tabs = append(p.tabs, tab)
	return tab
}

// Tab looks a tab up by id.
func (p *Page) Tab(id string) (*model.Tab, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.tabs[idx], true
}

// Tabs returns the tabs in insertion order.
func (p *Page) Tabs() []*model.Tab {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*model.Tab, len(p.tabs))
	copy(out, p.tabs)
	return out
}

// Store returns the settings store the page was registered with.
func (p *Page) Store() host.SettingsStore {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store
}

func (p *Page) rendererFor(name string) (render.Renderer, error) {
	p.initOnce.Do(p.applyDefaults)
	if p.initErr != nil {
		return nil, p.initErr
	}
	renderer, err := p.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("options: renderer %q: %w", name, err)
	}
	return renderer, nil
}

func (p *Page) applyDefaults() {
	if p.registry == nil {
		p.registry = render.NewRegistry()
	}
	if p.renderer != nil {
		if !p.registry.Has(p.renderer.Name()) {
			if err := p.registry.Register(p.renderer); err != nil {
				p.initErr = fmt.Errorf("options: register renderer: %w", err)
				return
			}
		}
		if err := p.registry.SetDefault(p.renderer.Name()); err != nil {
			p.initErr = fmt.Errorf("options: default renderer: %w", err)
			return
		}
	}
	if len(p.registry.Names()) == 0 {
		renderer, err := vanilla.New()
		if err != nil {
			p.initErr = fmt.Errorf("options: default renderer: %w", err)
			return
		}
		p.registry.MustRegister(renderer)
	}
}
