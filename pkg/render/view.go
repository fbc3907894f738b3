package render

import "github.com/goliatone/go-optionspage/pkg/model"

// PageView is the render-ready snapshot of one options page request: the
// resolved tab, its sections with current values, navigation links and the
// form plumbing supplied by the host.
type PageView struct {
	ID         string
	Title      string
	BaseURL    string
	CurrentTab string
	Tabs       []TabLink
	Sections   []SectionView
	Errors     []SettingsError
	// Action is the form submit endpoint.
	Action string
	Hidden []HiddenField
	Labels Labels
	Locale string
}

// TabLink is one navigation entry.
type TabLink struct {
	ID     string
	Name   string
	Href   string
	Active bool
}

// SectionView is a section heading plus its rows.
type SectionView struct {
	ID     string
	Name   string
	Fields []FieldView
}

// FieldView pairs a field schema with the value it should display.
type FieldView struct {
	Field model.Field
	Value string
}

// Namespace returns the storage namespace the form inputs belong to.
func (v PageView) Namespace() string {
	return v.CurrentTab
}

// ActiveTab returns the navigation entry for the current tab.
func (v PageView) ActiveTab() (TabLink, bool) {
	for _, tab := range v.Tabs {
		if tab.Active {
			return tab, true
		}
	}
	return TabLink{}, false
}
