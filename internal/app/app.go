// Package app wires configuration, storage, page definitions and the HTTP
// host into a runnable options page service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/internal/config"
	"github.com/goliatone/go-optionspage/internal/metrics"
	"github.com/goliatone/go-optionspage/pkg/definition"
	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
	"github.com/goliatone/go-optionspage/pkg/server"
	"github.com/goliatone/go-optionspage/pkg/storage"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 15 * time.Second

// App holds the wired service.
type App struct {
	Config   *config.Holder
	Logger   zerolog.Logger
	Backend  storage.Backend
	Registry *host.Registry
	Nonces   *server.Nonces
	Media    *host.MemoryMedia
	Metrics  *metrics.Collector
	Server   *server.Server
	// Hooks holds page-scoped filters added at runtime. They run after the
	// configured filter chain.
	Hooks *validation.Hooks

	prom *prometheus.Registry

	filterMu    sync.RWMutex
	filter      validation.Filter
	closeFilter func() error

	reloadMu sync.Mutex
}

// New opens storage, loads page definitions with the configured submission
// filter and mounts them on a server.
func New(ctx context.Context, holder *config.Holder, logger zerolog.Logger) (*App, error) {
	if holder == nil {
		holder = config.NewStaticHolder(nil, logger)
	}
	cfg := holder.Get()

	a := &App{
		Config: holder,
		Logger: logger,
		Nonces: server.NewNonces(cfg.Nonce.TTL),
		Media:  host.NewMemoryMedia(),
		Hooks:  validation.NewHooks(),
	}

	if cfg.Metrics.Enabled {
		a.prom = prometheus.NewRegistry()
		a.prom.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.prom)
	}

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if a.Metrics != nil {
		backend = storage.Instrument(backend, a.Metrics)
	}
	a.Backend = backend
	a.Registry = host.NewRegistry(backend, host.WithLogger(logger))

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithNonces(a.Nonces),
		server.WithPaths(cfg.Server.AdminPath, cfg.Server.OptionsPath),
		server.WithAuthorizer(server.AuthorizerFunc(a.authorize)),
		server.WithTranslator(NewCatalog(cfg.Translations)),
	}
	if a.Metrics != nil {
		serverOpts = append(serverOpts, server.WithMetrics(cfg.Metrics.Path,
			promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}), a.Metrics))
	}
	a.Server = server.New(a.Registry, serverOpts...)

	if err := a.ReloadDefinitions(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// authorize applies the current auth settings so reloads take effect without
// rebuilding the router.
func (a *App) authorize(r *http.Request, capability string) bool {
	auth := a.Config.Get().Auth
	return server.TokenAuthorizer{Token: auth.Token, Capabilities: auth.Capabilities}.Can(r, capability)
}

// DefinitionsFS returns the configured definitions directory, or the bundled
// sample when none is set.
func DefinitionsFS(cfg *config.Config) fs.FS {
	if cfg.Definitions.Dir == "" {
		return definition.DefaultsFS()
	}
	return os.DirFS(cfg.Definitions.Dir)
}

// BuildPages loads definitions and builds pages configured from cfg. Pages
// validate through the filter of the last successful reload.
func (a *App) BuildPages(cfg *config.Config) ([]*options.Page, error) {
	a.filterMu.RLock()
	filter := a.filter
	a.filterMu.RUnlock()
	return a.buildPages(cfg, filter)
}

func (a *App) buildPages(cfg *config.Config, filter validation.Filter) ([]*options.Page, error) {
	set, err := definition.LoadFS(DefinitionsFS(cfg))
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	catalog := NewCatalog(cfg.Translations)
	rendererOpts := []vanilla.Option{
		vanilla.WithTranslator(catalog),
		vanilla.WithFieldOptions(
			vanilla.WithMedia(a.Media),
			vanilla.WithEditor(host.TextareaEditor{}),
		),
	}
	if manifest := cfg.Theme.Manifest(); manifest != nil {
		selector, err := vanilla.NewManifestSelector(manifest)
		if err != nil {
			return nil, fmt.Errorf("theme: %w", err)
		}
		rendererOpts = append(rendererOpts, vanilla.WithThemeSelector(selector, cfg.Theme.Name, cfg.Theme.Variant))
	}
	renderer, err := vanilla.New(rendererOpts...)
	if err != nil {
		return nil, err
	}

	pageOpts := []options.Option{
		options.WithBaseURL(cfg.Server.AdminPath),
		options.WithAction(cfg.Server.OptionsPath),
		options.WithNonces(a.Nonces),
		options.WithRenderer(renderer),
		options.WithTranslator(catalog),
		options.WithLogger(a.Logger),
	}
	if a.Metrics != nil {
		pageOpts = append(pageOpts, options.WithObserver(a.Metrics))
	}
	return set.BuildAll(validation.Chain(filter, a.Hooks.Filter()), pageOpts...)
}

// ReloadDefinitions rebuilds the submission filter and every page from the
// current configuration and remounts them. On failure the previously mounted
// pages and their filter keep serving.
func (a *App) ReloadDefinitions(ctx context.Context) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	err := a.reload(ctx, a.Config.Get())
	if a.Metrics != nil {
		a.Metrics.ObserveDefinitionsReload(err)
	}
	if err != nil {
		return fmt.Errorf("reload definitions: %w", err)
	}
	return nil
}

func (a *App) reload(ctx context.Context, cfg *config.Config) error {
	filter, closeFilter, err := BuildFilter(cfg.Filters)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}

	pages, err := a.buildPages(cfg, filter)
	if err == nil {
		err = a.Server.Mount(ctx, pages...)
	}
	if err != nil {
		_ = closeFilter()
		return err
	}

	a.filterMu.Lock()
	previous := a.closeFilter
	a.filter, a.closeFilter = filter, closeFilter
	a.filterMu.Unlock()

	if previous != nil {
		if err := previous(); err != nil {
			a.Logger.Warn().Err(err).Msg("close previous filter")
		}
	}
	return nil
}

// Page returns a mounted page by id.
func (a *App) Page(id string) (*options.Page, bool) {
	for _, page := range a.Server.Pages() {
		if page.ID() == id {
			return page, true
		}
	}
	return nil, false
}

// Run serves HTTP until ctx is cancelled or the server fails. With
// definitions.watch enabled, config and definition changes remount pages.
func (a *App) Run(ctx context.Context) error {
	cfg := a.Config.Get()

	reload := func() {
		if err := a.ReloadDefinitions(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("definitions reload failed")
		}
	}
	a.Config.OnChange(func(*config.Config) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
		reload()
	})
	a.Config.OnDefinitionsChange(reload)
	a.Config.WatchSignals()
	if cfg.Definitions.Watch {
		if err := a.Config.Watch(cfg.Definitions.Dir); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}
	defer a.Config.Stop()

	httpServer := a.Server.HTTPServer(cfg.Server.Addr(), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", httpServer.Addr).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.Logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("http server shutdown error")
	}
	return nil
}

// Close releases the filter script and the storage backend.
func (a *App) Close() error {
	var errs []error
	a.filterMu.Lock()
	closeFilter := a.closeFilter
	a.closeFilter = nil
	a.filterMu.Unlock()
	if closeFilter != nil {
		errs = append(errs, closeFilter())
	}
	if a.Backend != nil {
		errs = append(errs, a.Backend.Close())
	}
	return errors.Join(errs...)
}
