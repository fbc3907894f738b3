package model

// Tab is a top-level group of sections. Its id doubles as the storage
// namespace for the fields it contains.
type Tab struct {
	ID       string
	Name     string
	order    []string
	sections map[string]*Section
}

// NewTab constructs an empty tab.
func NewTab(id, name string) *Tab {
	return &Tab{ID: id, Name: name, sections: make(map[string]*Section)}
}

// AddSection registers a section and returns it for field definitions.
// Re-adding an existing id replaces the previous section in its original slot.
func (t *Tab) AddSection(id, name string) *Section {
	if t.sections == nil {
		t.sections = make(map[string]*Section)
	}
	section := NewSection(id, name)
	if _, exists := t.sections[id]; !exists {
		t.order = append(t.order, id)
	}
	t.sections[id] = section
	return section
}

// Section looks up a section by id.
func (t *Tab) Section(id string) (*Section, bool) {
	if t == nil || t.sections == nil {
		return nil, false
	}
	section, ok := t.sections[id]
	return section, ok
}

// Sections returns the tab's sections in insertion order.
func (t *Tab) Sections() []*Section {
	if t == nil || len(t.order) == 0 {
		return nil
	}
	out := make([]*Section, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.sections[id])
	}
	return out
}

// Fields flattens every section's fields in render order.
func (t *Tab) Fields() []Field {
	var out []Field
	for _, section := range t.Sections() {
		out = append(out, section.Fields()...)
	}
	return out
}

// Field finds a field by id. With duplicate ids the last definition wins,
// matching how their stored values collide.
func (t *Tab) Field(id string) (Field, bool) {
	var (
		found Field
		ok    bool
	)
	for _, field := range t.Fields() {
		if field.ID == id {
			found, ok = field, true
		}
	}
	return found, ok
}
