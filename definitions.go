package optionspage

import (
	"io/fs"

	"github.com/goliatone/go-optionspage/pkg/definition"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

// LoadDefinitions reads every .yaml, .yml and .json page definition in fsys.
func LoadDefinitions(fsys fs.FS) (*definition.Set, error) {
	return definition.LoadFS(fsys)
}

// BuildPages loads the definitions in fsys and builds a page for each, with
// filter validating submissions ahead of any rules the definitions declare.
func BuildPages(fsys fs.FS, filter validation.Filter, opts ...Option) ([]*Page, error) {
	set, err := definition.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return set.BuildAll(filter, opts...)
}

// DefaultDefinitions exposes the bundled sample definitions (the
// theme-options page) so applications can start from them.
//
// Typical use:
//
//	pages, err := optionspage.BuildPages(optionspage.DefaultDefinitions(), validation.TrimSpace)
func DefaultDefinitions() fs.FS {
	return definition.DefaultsFS()
}
