package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/render/template"
)

// ErrNoSource is returned by New when no template fs.FS was configured.
var ErrNoSource = errors.New("pongo: template source is required")

// Option configures the engine before construction.
type Option func(*settings)

type settings struct {
	source  fs.FS
	ext     string
	funcs   map[string]any
	globals map[string]any
}

// WithFS sets the template source.
func WithFS(files fs.FS) Option {
	return func(s *settings) {
		s.source = files
	}
}

// WithExtension overrides the ".tmpl" suffix appended to bare template names.
func WithExtension(ext string) Option {
	return func(s *settings) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.ext = ext
	}
}

// WithFuncs exposes callables such as translate(locale, key, fallback) to
// every template.
func WithFuncs(funcs map[string]any) Option {
	return func(s *settings) {
		for name, fn := range funcs {
			if s.funcs == nil {
				s.funcs = make(map[string]any, len(funcs))
			}
			s.funcs[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(s *settings) {
		for key, value := range data {
			if s.globals == nil {
				s.globals = make(map[string]any, len(data))
			}
			s.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders options page templates through a pongo2 template set.
// Autoescaping stays on; field markup built elsewhere must pass through |safe.
type Engine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
	ext   string
}

var _ template.Engine = (*Engine)(nil)

// New builds an engine over the configured fs.FS.
func New(opts ...Option) (*Engine, error) {
	s := settings{ext: ".tmpl"}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.source == nil {
		return nil, ErrNoSource
	}

	registerBuiltinFilters()

	set := pongo2.NewSet("optionspage", pongo2.NewFSLoader(s.source))
	set.Globals = pongo2.Context{}
	for name, fn := range s.funcs {
		if name == "" {
			continue
		}
		if fn == nil || reflect.ValueOf(fn).Kind() != reflect.Func {
			return nil, fmt.Errorf("pongo: template func %q is not callable", name)
		}
		set.Globals[name] = fn
	}
	set.Globals.Update(pongo2.Context(s.globals))

	return &Engine{
		set:   set,
		cache: make(map[string]*pongo2.Template),
		ext:   s.ext,
	}, nil
}

// RenderTemplate executes the named template with data, writing the result to
// every non-nil writer in out as well as returning it.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", path, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// RegisterFilter adds a pongo2 filter. pongo2 filters are process global, so
// each name can be registered once.
func (e *Engine) RegisterFilter(name string, fn template.Filter) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values visible to every template.
func (e *Engine) GlobalContext(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	e.mu.Lock()
	e.set.Globals.Update(pongo2.Context(data))
	e.mu.Unlock()
	return nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

var builtinOnce sync.Once

func registerBuiltinFilters() {
	builtinOnce.Do(func() {
		if !pongo2.FilterExists("autop") {
			_ = pongo2.RegisterFilter("autop", filterAutoParagraph)
		}
		if !pongo2.FilterExists("css_vars") {
			_ = pongo2.RegisterFilter("css_vars", filterCSSVars)
		}
	})
}

// filterAutoParagraph applies the editor paragraph rules. The result is
// markup, so templates still need |safe after it.
func filterAutoParagraph(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() == 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(render.AutoParagraph(in.String())), nil
}

// filterCSSVars turns a token map into "--key: value;" declarations in key
// order, for themes that inline tokens themselves.
func filterCSSVars(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tokens, ok := in.Interface().(map[string]string)
	if !ok || len(tokens) == 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(render.CSSDeclarations(tokens)), nil
}
