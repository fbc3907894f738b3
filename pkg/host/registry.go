package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/storage"
)

// ErrUnknownNamespace is returned when submitting to a namespace that no page
// registered.
var ErrUnknownNamespace = errors.New("host: namespace not registered")

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Registry is the in-process SettingsStore. Registration state lives in
// memory; values go to the backend.
type Registry struct {
	mu         sync.RWMutex
	backend    storage.Backend
	logger     zerolog.Logger
	sections   map[string][]SectionDescriptor
	fields     map[string][]FieldDescriptor
	sanitizers map[string]Sanitizer
	errors     map[string][]render.SettingsError
}

var (
	_ SettingsStore = (*Registry)(nil)
	_ Resetter      = (*Registry)(nil)
)

// NewRegistry builds a registry that persists through backend.
func NewRegistry(backend storage.Backend, opts ...Option) *Registry {
	r := &Registry{
		backend:    backend,
		logger:     zerolog.Nop(),
		sections:   make(map[string][]SectionDescriptor),
		fields:     make(map[string][]FieldDescriptor),
		sanitizers: make(map[string]Sanitizer),
		errors:     make(map[string][]render.SettingsError),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Backend exposes the underlying storage.
func (r *Registry) Backend() storage.Backend {
	return r.backend
}

func (r *Registry) RegisterSection(namespace, section, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.sections[namespace]
	for i, existing := range list {
		if existing.ID == section {
			list[i].Title = title
			return
		}
	}
	r.sections[namespace] = append(list, SectionDescriptor{ID: section, Namespace: namespace, Title: title})
}

// RegisterField records field under its namespace. A field registered again
// with the same id replaces the earlier descriptor in place.
func (r *Registry) RegisterField(field FieldDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.fields[field.Namespace]
	for i, existing := range list {
		if existing.ID == field.ID {
			list[i] = field
			return
		}
	}
	r.fields[field.Namespace] = append(list, field)
}

func (r *Registry) RegisterSetting(namespace string, sanitize Sanitizer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sanitizers[namespace] = sanitize
	r.logger.Debug().Str("namespace", namespace).Msg("setting registered")
}

// ResetNamespace drops the sections and fields of namespace so a page can
// register its current layout. The sanitizer stays until it is replaced.
func (r *Registry) ResetNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sections, namespace)
	delete(r.fields, namespace)
}

// Unregister removes every registration of namespace. Stored values and
// queued errors are kept.
func (r *Registry) Unregister(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sections, namespace)
	delete(r.fields, namespace)
	delete(r.sanitizers, namespace)
	r.logger.Debug().Str("namespace", namespace).Msg("setting unregistered")
}

// Sections returns the registered sections of namespace in registration order.
func (r *Registry) Sections(namespace string) []SectionDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]SectionDescriptor(nil), r.sections[namespace]...)
}

// Fields returns the registered fields of namespace in registration order.
func (r *Registry) Fields(namespace string) []FieldDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]FieldDescriptor(nil), r.fields[namespace]...)
}

// Registered lists namespaces that have a sanitizer.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sanitizers))
	for name := range r.sanitizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether namespace accepts submissions.
func (r *Registry) IsRegistered(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sanitizers[namespace]
	return ok
}

func (r *Registry) Namespace(ctx context.Context, namespace string) (model.Values, error) {
	values, err := r.backend.Load(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("host: load namespace %q: %w", namespace, err)
	}
	return model.Values(values), nil
}

// Submit sanitizes raw through the namespace's registered callback and
// replaces the stored namespace with the result.
func (r *Registry) Submit(ctx context.Context, namespace string, raw map[string]string) (model.Values, error) {
	r.mu.RLock()
	sanitize, ok := r.sanitizers[namespace]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, namespace)
	}

	clean := raw
	if sanitize != nil {
		clean = sanitize(ctx, raw)
	}
	if clean == nil {
		clean = map[string]string{}
	}

	if err := r.backend.Save(ctx, namespace, clean); err != nil {
		r.logger.Error().Err(err).Str("namespace", namespace).Msg("save settings failed")
		return nil, fmt.Errorf("host: save namespace %q: %w", namespace, err)
	}
	r.logger.Info().Str("namespace", namespace).Int("keys", len(clean)).Msg("settings saved")
	return model.Values(clean).Clone(), nil
}

func (r *Registry) AddError(namespace, code, message, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[namespace] = render.MergeErrors(r.errors[namespace], render.SettingsError{
		Code:    code,
		Message: message,
		Kind:    kind,
	})
}

func (r *Registry) Errors(namespace string) []render.SettingsError {
	r.mu.Lock()
	defer r.mu.Unlock()

	queued := r.errors[namespace]
	delete(r.errors, namespace)
	return queued
}
