package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder provides thread-safe access to configuration with hot reload of the
// config file and change notification for the definitions directory.
type Holder struct {
	mu            sync.RWMutex
	config        *Config
	path          string
	logger        zerolog.Logger
	watcher       *fsnotify.Watcher
	defsDir       string
	onChange      []func(*Config)
	onDefinitions []func()
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// NewHolder loads the initial configuration. A blank path holds defaults and
// cannot be watched.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := LoadWithFallback(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath := ""
	if path != "" {
		if absPath, err = filepath.Abs(path); err != nil {
			return nil, fmt.Errorf("absolute path: %w", err)
		}
	}

	return &Holder{
		config: cfg,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// NewStaticHolder wraps an already loaded configuration.
func NewStaticHolder(cfg *Config, logger zerolog.Logger) *Holder {
	if cfg == nil {
		cfg = Default()
	}
	return &Holder{config: cfg, logger: logger, stopCh: make(chan struct{})}
}

// Get returns the current configuration.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// SetLogger replaces the logger, typically once the loaded logging settings
// are known.
func (h *Holder) SetLogger(logger zerolog.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// Path returns the absolute config file path, or "" when none was given.
func (h *Holder) Path() string {
	return h.path
}

// Reload reloads the configuration from disk. On error the old
// configuration stays in place.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := LoadWithFallback(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	listeners := append([]func(*Config){}, h.onChange...)
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)

	for _, fn := range listeners {
		fn(newCfg)
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

// OnChange registers a callback run after every successful reload.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnDefinitionsChange registers a callback run when a definition file in the
// watched directory is written, created or removed.
func (h *Holder) OnDefinitionsChange(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDefinitions = append(h.onDefinitions, fn)
}

// Watch starts watching the config file and, when dir is not blank, the
// definitions directory.
func (h *Holder) Watch(dir string) error {
	if h.path == "" && dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory; editors that save atomically replace the file.
	if h.path != "" {
		if err := watcher.Add(filepath.Dir(h.path)); err != nil {
			watcher.Close()
			return fmt.Errorf("watch config directory: %w", err)
		}
	}
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("absolute path: %w", err)
		}
		if err := watcher.Add(abs); err != nil {
			watcher.Close()
			return fmt.Errorf("watch definitions directory: %w", err)
		}
		h.defsDir = abs
	}
	h.watcher = watcher

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Str("definitions", h.defsDir).Msg("watching for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger a reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
				h.notifyDefinitions()
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals. It is safe to call more
// than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			h.handleEvent(event)

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	if h.path != "" && name == h.path {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		h.logger.Debug().Str("event", event.Op.String()).Str("file", name).Msg("config file changed")
		if err := h.Reload(); err != nil {
			h.logger.Error().Err(err).Msg("file watch reload failed")
		}
		return
	}

	if h.defsDir == "" || filepath.Dir(name) != h.defsDir || !IsDefinitionFile(name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	h.logger.Debug().Str("event", event.Op.String()).Str("file", name).Msg("definition file changed")
	h.notifyDefinitions()
}

func (h *Holder) notifyDefinitions() {
	h.mu.RLock()
	listeners := append([]func(){}, h.onDefinitions...)
	h.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// IsDefinitionFile reports whether name has a definition file extension.
func IsDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func (h *Holder) logChanges(old, next *Config) {
	if old.Logging.Level != next.Logging.Level {
		h.logger.Info().
			Str("old", old.Logging.Level).
			Str("new", next.Logging.Level).
			Msg("log level changed")
	}
	if old.Theme.Name != next.Theme.Name || old.Theme.Variant != next.Theme.Variant {
		h.logger.Info().
			Str("old", old.Theme.Name+"/"+old.Theme.Variant).
			Str("new", next.Theme.Name+"/"+next.Theme.Variant).
			Msg("theme changed")
	}
	if old.Storage != next.Storage {
		h.logger.Warn().Msg("storage settings changed; restart to apply")
	}
	if old.Server.Addr() != next.Server.Addr() {
		h.logger.Warn().Msg("server address changed; restart to apply")
	}
	if !old.Filters.Equal(next.Filters) {
		h.logger.Info().
			Bool("trim_space", next.Filters.TrimSpace).
			Str("lua", next.Filters.Lua).
			Msg("submission filters changed")
	}
	if len(old.Translations) != len(next.Translations) {
		h.logger.Info().
			Int("old", len(old.Translations)).
			Int("new", len(next.Translations)).
			Msg("translation locales changed")
	}
}
