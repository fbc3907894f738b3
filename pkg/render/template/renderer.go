package template

import "io"

// Filter transforms a template value. param is nil when the filter is used
// without an argument.
type Filter func(input any, param any) (any, error)

// Engine is the contract page renderers depend on to draw the page chrome.
// Template names resolve against the engine source; the extension is optional.
type Engine interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
	GlobalContext(data map[string]any) error
}
