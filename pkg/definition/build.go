package definition

import (
	"fmt"

	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/validation"
	"github.com/goliatone/go-optionspage/pkg/validation/celfilter"
)

// Build turns the definition into an options page. filter runs first, then
// the page's CEL rules. opts are applied after the definition's own
// capability and menu title, so callers can override them.
func (p Page) Build(filter validation.Filter, opts ...options.Option) (*options.Page, error) {
	if len(p.Rules) > 0 {
		rules, err := celfilter.Compile(p.Rules...)
		if err != nil {
			return nil, fmt.Errorf("definition: page %q rules: %w", p.ID, err)
		}
		filter = validation.Chain(filter, rules.Filter())
	}

	pageOpts := []options.Option{
		options.WithCapability(p.Capability),
		options.WithMenuTitle(p.MenuTitle),
	}
	if filter != nil {
		pageOpts = append(pageOpts, options.WithFilter(filter))
	}
	pageOpts = append(pageOpts, opts...)

	page := options.New(p.ID, p.Title, pageOpts...)
	for _, tabDef := range p.Tabs {
		tab := page.AddTab(tabDef.ID, tabDef.Name)
		for _, sectionDef := range tabDef.Sections {
			section := tab.AddSection(sectionDef.ID, sectionDef.Name)
			for _, f := range sectionDef.Fields {
				kind, err := model.ParseKind(f.Type)
				if err != nil {
					return nil, fmt.Errorf("definition: page %q field %q: %w", p.ID, f.ID, err)
				}
				if err := section.AddField(kind, f.ID, f.Label, f.Default, f.Description, f.Attributes, f.Options...); err != nil {
					return nil, fmt.Errorf("definition: page %q field %q: %w", p.ID, f.ID, err)
				}
			}
		}
	}
	return page, nil
}

// BuildAll builds every page in the set with the same filter and options.
func (s *Set) BuildAll(filter validation.Filter, opts ...options.Option) ([]*options.Page, error) {
	pages := make([]*options.Page, 0, s.Len())
	for _, def := range s.Pages() {
		page, err := def.Build(filter, opts...)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}
