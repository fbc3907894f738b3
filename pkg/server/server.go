package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/render"
)

// Default routes.
const (
	DefaultAdminPath   = options.DefaultBaseURL
	DefaultOptionsPath = options.DefaultAction
)

// ErrNamespaceConflict is returned by Mount when two pages share a tab id.
var ErrNamespaceConflict = errors.New("server: namespace claimed by more than one page")

// Observer receives HTTP level events. internal/metrics implements it.
type Observer interface {
	ObserveRequest(method, route string, code int, elapsed time.Duration)
	ObserveSubmission(page, tab string, err error)
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the base logger; each request logs with its request id.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAuthorizer replaces the default AllowAll authorizer.
func WithAuthorizer(auth Authorizer) Option {
	return func(s *Server) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithNonces replaces the in-memory nonce issuer. Pages must be built with
// the same issuer so rendered tokens verify.
func WithNonces(nonces host.NonceIssuer) Option {
	return func(s *Server) {
		if nonces != nil {
			s.nonces = nonces
		}
	}
}

// WithPaths sets the render and submission routes.
func WithPaths(admin, submit string) Option {
	return func(s *Server) {
		if admin != "" {
			s.adminPath = "/" + strings.Trim(admin, "/")
		}
		if submit != "" {
			s.optionsPath = "/" + strings.Trim(submit, "/")
		}
	}
}

// WithMetrics mounts handler at path and reports requests to obs. Either may
// be nil.
func WithMetrics(path string, handler http.Handler, obs Observer) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metricsHandler = handler
		s.observer = obs
	}
}

// WithTranslator localises the notice queued after a successful save.
func WithTranslator(t render.Translator) Option {
	return func(s *Server) {
		s.translator = t
	}
}

type mounted struct {
	menu   *host.Menu
	pages  map[string]*options.Page
	owners map[string]string
	order  []string
}

// Server serves options pages over HTTP.
type Server struct {
	store          host.SettingsStore
	nonces         host.NonceIssuer
	auth           Authorizer
	logger         zerolog.Logger
	observer       Observer
	translator     render.Translator
	adminPath      string
	optionsPath    string
	metricsPath    string
	metricsHandler http.Handler

	mu      sync.RWMutex
	current mounted
}

// New returns a server persisting through store.
func New(store host.SettingsStore, opts ...Option) *Server {
	s := &Server{
		store:       store,
		auth:        AllowAll,
		logger:      zerolog.Nop(),
		adminPath:   DefaultAdminPath,
		optionsPath: DefaultOptionsPath,
		current:     mounted{menu: host.NewMenu()},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.nonces == nil {
		s.nonces = NewNonces(DefaultNonceTTL)
	}
	return s
}

// Nonces returns the issuer submissions are verified with.
func (s *Server) Nonces() host.NonceIssuer { return s.nonces }

// AdminPath returns the render route.
func (s *Server) AdminPath() string { return s.adminPath }

// OptionsPath returns the submission route.
func (s *Server) OptionsPath() string { return s.optionsPath }

// Mount replaces the served pages. Each page registers its settings with the
// store and its menu entry with a fresh menu. Stores implementing
// host.Resetter have a namespace's layout replaced on re-registration, and
// namespaces no longer mounted are unregistered. The served set only changes
// when every page registers cleanly, so a failed reload keeps serving the
// previous pages.
func (s *Server) Mount(ctx context.Context, pages ...*options.Page) error {
	next := mounted{
		menu:   host.NewMenu(),
		pages:  make(map[string]*options.Page, len(pages)),
		owners: make(map[string]string),
	}

	for _, page := range pages {
		if page == nil {
			continue
		}
		if _, exists := next.pages[page.ID()]; exists {
			return fmt.Errorf("server: page %q mounted twice", page.ID())
		}
		for _, tab := range page.Tabs() {
			if owner, taken := next.owners[tab.ID]; taken {
				return fmt.Errorf("%w: %q (%s, %s)", ErrNamespaceConflict, tab.ID, owner, page.ID())
			}
			next.owners[tab.ID] = page.ID()
		}
		next.pages[page.ID()] = page
		next.order = append(next.order, page.ID())
	}

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	resetter, _ := s.store.(host.Resetter)
	for _, id := range next.order {
		page := next.pages[id]
		if page.State() == options.StateDefined {
			if resetter != nil {
				for _, tab := range page.Tabs() {
					resetter.ResetNamespace(tab.ID)
				}
			}
			if err := page.RegisterSettings(ctx, s.store); err != nil {
				return fmt.Errorf("server: register %q: %w", id, err)
			}
		}
		if err := page.RegisterMenu(next.menu); err != nil {
			return fmt.Errorf("server: menu %q: %w", id, err)
		}
	}

	s.mu.Lock()
	previous := s.current
	s.current = next
	s.mu.Unlock()

	if resetter != nil {
		for namespace := range previous.owners {
			if _, kept := next.owners[namespace]; !kept {
				resetter.Unregister(namespace)
			}
		}
	}

	s.logger.Info().Strs("pages", next.order).Msg("options pages mounted")
	return nil
}

// Pages returns the mounted pages sorted by id.
func (s *Server) Pages() []*options.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := append([]string(nil), s.current.order...)
	sort.Strings(ids)
	out := make([]*options.Page, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.current.pages[id])
	}
	return out
}

func (s *Server) snapshot() mounted {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.observer != nil {
		r.Use(requestMetrics(s.observer, "/healthz", s.metricsPath))
	}

	r.Get("/healthz", s.health)
	if s.metricsHandler != nil && s.metricsPath != "" {
		r.Handle(s.metricsPath, s.metricsHandler)
	}

	r.Get(s.adminPath, s.index)
	r.Get(s.adminPath+"/{page}", s.show)
	r.Post(s.optionsPath, s.submit)

	return r
}

// HTTPServer wraps Handler with timeouts.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
