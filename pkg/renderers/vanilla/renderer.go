package vanilla

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-optionspage/pkg/render"
	rendertemplate "github.com/goliatone/go-optionspage/pkg/render/template"
	"github.com/goliatone/go-optionspage/pkg/render/template/pongo"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Engine
	fields           *FieldRenderer
	fieldOptions     []FieldOption
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	themeConfig      *theme.RendererConfig
	translator       render.Translator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateEngine swaps the pongo2 engine for another implementation.
func WithTemplateEngine(renderer rendertemplate.Engine) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFieldRenderer replaces the field renderer.
func WithFieldRenderer(fields *FieldRenderer) Option {
	return func(cfg *config) {
		cfg.fields = fields
	}
}

// WithFieldOptions configures the default field renderer.
func WithFieldOptions(opts ...FieldOption) Option {
	return func(cfg *config) {
		cfg.fieldOptions = append(cfg.fieldOptions, opts...)
	}
}

// WithThemeSelector resolves name/variant through selector when the renderer
// is built. The resulting tokens are written as CSS variables on the wrapper
// and the "options.page" partial, when set, replaces the page template.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithThemeConfig applies an already resolved theme configuration.
func WithThemeConfig(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeConfig = themeCfg
	}
}

// WithTranslator enables the translate(locale, key, fallback) template helper.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// Renderer draws a complete options page as HTML.
type Renderer struct {
	templates rendertemplate.Engine
	fields    *FieldRenderer
	theme     *theme.RendererConfig
	template  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	themeCfg := cfg.themeConfig
	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
		}
		themeCfg = ThemeConfig(selection)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithFuncs(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	fields := cfg.fields
	if fields == nil {
		fields = NewFieldRenderer(cfg.fieldOptions...)
	}

	tmpl := PageTemplate
	if themeCfg != nil {
		if partial := strings.TrimSpace(themeCfg.Partials[PagePartialName]); partial != "" {
			tmpl = partial
		}
	}

	return &Renderer{
		templates: renderer,
		fields:    fields,
		theme:     themeCfg,
		template:  tmpl,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Fields exposes the field renderer.
func (r *Renderer) Fields() *FieldRenderer {
	return r.fields
}

func (r *Renderer) Render(ctx context.Context, w io.Writer, view render.PageView) error {
	if r.templates == nil {
		return fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data, err := r.viewData(ctx, view)
	if err != nil {
		return err
	}
	if _, err := r.templates.RenderTemplate(r.template, data, w); err != nil {
		return fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return nil
}

func (r *Renderer) viewData(ctx context.Context, view render.PageView) (map[string]any, error) {
	labels := view.Labels.WithDefaults()
	fields := r.fields.WithLabels(labels)

	sections := make([]map[string]any, 0, len(view.Sections))
	for _, section := range view.Sections {
		rows := make([]map[string]any, 0, len(section.Fields))
		for _, fv := range section.Fields {
			control, err := fields.RenderString(ctx, view.Namespace(), fv.Field, fv.Value)
			if err != nil {
				return nil, fmt.Errorf("vanilla renderer: %w", err)
			}
			rows = append(rows, map[string]any{
				"id":      fv.Field.ID,
				"label":   fv.Field.Label,
				"kind":    string(fv.Field.Kind),
				"control": control,
			})
		}
		sections = append(sections, map[string]any{
			"id":   section.ID,
			"name": section.Name,
			"rows": rows,
		})
	}

	notices := make([]map[string]any, 0, len(view.Errors))
	for _, notice := range render.NormalizeErrors(view.Errors) {
		kind := "error"
		if !notice.IsError() {
			kind = "success"
		}
		notices = append(notices, map[string]any{
			"code":    notice.Code,
			"message": notice.Message,
			"kind":    kind,
		})
	}

	hidden := make([]map[string]any, 0, len(view.Hidden))
	for _, field := range view.Hidden {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	themeData := map[string]any{}
	if r.theme != nil {
		themeData["name"] = r.theme.Theme
		themeData["variant"] = r.theme.Variant
		themeData["style"] = render.CSSDeclarations(r.theme.CSSVars)
		themeData["tokens"] = r.theme.Tokens
	}

	return map[string]any{
		"page": map[string]any{
			"id":     view.ID,
			"title":  view.Title,
			"tab":    view.CurrentTab,
			"action": view.Action,
			"locale": view.Locale,
		},
		"nav":      NavigationHTML(view.Tabs),
		"notices":  notices,
		"hidden":   hidden,
		"sections": sections,
		"labels": map[string]any{
			"submit": labels.Submit,
		},
		"theme": themeData,
	}, nil
}
