package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-optionspage/pkg/model"
)

// Set is a validated collection of page definitions in load order.
type Set struct {
	pages []Page
	index map[string]int
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A nil fsys
// yields an empty set. Page ids must be unique across files.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := &Set{index: make(map[string]int)}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, page := range doc.Pages {
			if err := set.add(page); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Parse decodes and validates one document. JSON is tried first, then YAML.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return Document{}, fmt.Errorf("definition: parse %s: %w", source, yerr)
		}
	}

	for i := range doc.Pages {
		doc.Pages[i].Source = source
		if err := doc.Pages[i].normalise(); err != nil {
			return Document{}, fmt.Errorf("definition: %s: %w", source, err)
		}
	}
	return doc, nil
}

func (s *Set) add(page Page) error {
	if _, exists := s.index[page.ID]; exists {
		return fmt.Errorf("definition: duplicate page %q (file %s)", page.ID, page.Source)
	}
	s.index[page.ID] = len(s.pages)
	s.pages = append(s.pages, page)
	return nil
}

// Page returns the definition with id.
func (s *Set) Page(id string) (Page, bool) {
	if s == nil {
		return Page{}, false
	}
	idx, ok := s.index[id]
	if !ok {
		return Page{}, false
	}
	return s.pages[idx], true
}

// Pages returns every definition in load order.
func (s *Set) Pages() []Page {
	if s == nil {
		return nil
	}
	return append([]Page(nil), s.pages...)
}

// Len reports the number of pages.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pages)
}

func (p *Page) normalise() error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return fmt.Errorf("page id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = p.ID
	}

	tabs := make(map[string]struct{}, len(p.Tabs))
	for ti := range p.Tabs {
		tab := &p.Tabs[ti]
		tab.ID = strings.TrimSpace(tab.ID)
		if tab.ID == "" {
			return fmt.Errorf("page %q: tab %d has no id", p.ID, ti)
		}
		if _, dup := tabs[tab.ID]; dup {
			return fmt.Errorf("page %q: duplicate tab %q", p.ID, tab.ID)
		}
		tabs[tab.ID] = struct{}{}
		if tab.Name == "" {
			tab.Name = tab.ID
		}

		sections := make(map[string]struct{}, len(tab.Sections))
		for si := range tab.Sections {
			section := &tab.Sections[si]
			section.ID = strings.TrimSpace(section.ID)
			if section.ID == "" {
				return fmt.Errorf("page %q tab %q: section %d has no id", p.ID, tab.ID, si)
			}
			if _, dup := sections[section.ID]; dup {
				return fmt.Errorf("page %q tab %q: duplicate section %q", p.ID, tab.ID, section.ID)
			}
			sections[section.ID] = struct{}{}

			for fi := range section.Fields {
				field := &section.Fields[fi]
				field.ID = strings.TrimSpace(field.ID)
				if field.ID == "" {
					return fmt.Errorf("page %q tab %q section %q: field %d has no id", p.ID, tab.ID, section.ID, fi)
				}
				kind, err := model.ParseKind(field.Type)
				if err != nil {
					return fmt.Errorf("page %q field %q: %w", p.ID, field.ID, err)
				}
				field.Type = string(kind)
			}
		}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
