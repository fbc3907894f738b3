package model

// Section groups fields under a heading within a tab.
type Section struct {
	ID     string
	Name   string
	fields []Field
}

// NewSection constructs an empty section.
func NewSection(id, name string) *Section {
	return &Section{ID: id, Name: name}
}

// Fields returns a copy of the section's fields in insertion order.
func (s *Section) Fields() []Field {
	if s == nil || len(s.fields) == 0 {
		return nil
	}
	out := make([]Field, len(s.fields))
	for i, field := range s.fields {
		out[i] = field.Clone()
	}
	return out
}

// Len reports how many fields the section holds.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// AddField appends a field schema. Options are kept only for kinds that use
// them; html fields keep their markup in desc and never carry attributes.
func (s *Section) AddField(kind Kind, id, label, def, desc string, attrs map[string]string, opts ...Option) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	field := Field{
		ID:          id,
		Label:       label,
		Kind:        kind,
		Default:     def,
		Description: desc,
		Attributes:  attrs,
	}
	if kind.HasOptions() {
		field.Options = opts
	}
	if kind == KindHTML {
		field.Label = ""
		field.Default = ""
		field.Attributes = nil
	}
	s.fields = append(s.fields, field.Clone())
	return nil
}

// add routes the typed wrappers through AddField; their kinds are always valid.
func (s *Section) add(kind Kind, id, label, def, desc string, attrs map[string]string, opts ...Option) *Section {
	_ = s.AddField(kind, id, label, def, desc, attrs, opts...)
	return s
}

// AddText adds a single line text input styled as regular-text.
func (s *Section) AddText(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindText, id, label, def, desc, attrs)
}

// AddInput adds a generic input; attrs["type"] selects the HTML input type.
func (s *Section) AddInput(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindInput, id, label, def, desc, attrs)
}

func (s *Section) AddTextarea(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindTextarea, id, label, def, desc, attrs)
}

// AddEditor adds a rich text editor. opts are passed to the editor widget as
// settings.
func (s *Section) AddEditor(id, label, def, desc string, opts ...Option) *Section {
	return s.add(KindEditor, id, label, def, desc, nil, opts...)
}

func (s *Section) AddCheckbox(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindCheckbox, id, label, def, desc, attrs)
}

func (s *Section) AddRadio(id, label, def, desc string, attrs map[string]string, opts ...Option) *Section {
	return s.add(KindRadio, id, label, def, desc, attrs, opts...)
}

// AddSelect adds a dropdown. Setting attrs["multiple"] renders a multi-select.
func (s *Section) AddSelect(id, label, def, desc string, attrs map[string]string, opts ...Option) *Section {
	return s.add(KindSelect, id, label, def, desc, attrs, opts...)
}

func (s *Section) AddColor(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindColor, id, label, def, desc, attrs)
}

func (s *Section) AddUpload(id, label, def, desc string, attrs map[string]string) *Section {
	return s.add(KindUpload, id, label, def, desc, attrs)
}

func (s *Section) AddImage(id, label, def, desc string) *Section {
	return s.add(KindImage, id, label, def, desc, nil)
}

func (s *Section) AddImageGallery(id, label, def, desc string) *Section {
	return s.add(KindImageGallery, id, label, def, desc, nil)
}

// AddHTML adds a raw markup block rendered verbatim in place of a control.
func (s *Section) AddHTML(id, content string) *Section {
	return s.add(KindHTML, id, "", "", content, nil)
}
