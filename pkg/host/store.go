package host

import (
	"context"

	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
)

// FieldDescriptor is what a page registers for each field so the host knows
// where it renders and which namespace stores it.
type FieldDescriptor struct {
	ID          string
	Label       string
	Kind        model.Kind
	Namespace   string
	Section     string
	Default     string
	Description string
	Attributes  map[string]string
	Options     []model.Option
}

// SectionDescriptor is a registered section heading.
type SectionDescriptor struct {
	ID        string
	Namespace string
	Title     string
}

// Sanitizer cleans a raw submission before it is stored. Keys missing from
// the returned map are removed from storage.
type Sanitizer func(ctx context.Context, raw map[string]string) map[string]string

// SettingsStore persists tab namespaces and collects settings errors for the
// banner shown on the next render.
type SettingsStore interface {
	RegisterSection(namespace, section, title string)
	RegisterField(field FieldDescriptor)
	RegisterSetting(namespace string, sanitize Sanitizer)
	Namespace(ctx context.Context, namespace string) (model.Values, error)
	Submit(ctx context.Context, namespace string, raw map[string]string) (model.Values, error)
	AddError(namespace, code, message, kind string)
	// Errors returns and clears the queued messages for namespace.
	Errors(namespace string) []render.SettingsError
}

// Resetter is implemented by stores whose registrations can be replaced when
// pages are mounted again.
type Resetter interface {
	ResetNamespace(namespace string)
	Unregister(namespace string)
}
