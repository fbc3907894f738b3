package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// PageTemplate is the template name used for the page chrome. Themes can
// override it through the "options.page" partial.
const (
	PageTemplate    = "templates/page.tmpl"
	PagePartialName = "options.page"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
