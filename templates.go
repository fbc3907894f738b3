package optionspage

import (
	"io/fs"

	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page chrome templates so callers can
// copy or extend them and pass the result to vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
