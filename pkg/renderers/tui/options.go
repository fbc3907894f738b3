package tui

import "io"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object of field id to value.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits tab[field]=value pairs, the same shape
	// the HTML form posts.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one field=value line per setting.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds the prefixes put in front of prompts, notices and errors.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]string) (map[string]string, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPrompter replaces the survey prompter.
func WithPrompter(p Prompter) Option {
	return func(r *Renderer) {
		if p != nil {
			r.prompter = p
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithInfoWriter sets where the survey prompter prints notices.
func WithInfoWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.infoWriter = w
	}
}
