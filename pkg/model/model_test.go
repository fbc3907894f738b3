package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-optionspage/pkg/model"
)

func TestParseKind(t *testing.T) {
	cases := map[string]model.Kind{
		"text":           model.KindText,
		" Select ":       model.KindSelect,
		"image_gallery":  model.KindImageGallery,
		"image_plupload": model.KindImageGallery,
	}
	for raw, want := range cases {
		got, err := model.ParseKind(raw)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := model.ParseKind("slider"); !errors.Is(err, model.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if len(model.Kinds()) != 12 {
		t.Fatalf("expected 12 kinds, got %d", len(model.Kinds()))
	}
}

func TestSectionAddField(t *testing.T) {
	section := model.NewSection("general", "General")

	if err := section.AddField(model.Kind("slider"), "x", "X", "", "", nil); !errors.Is(err, model.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	section.
		AddText("title", "Title", "Hello", "Site title", map[string]string{"maxlength": "40"}).
		AddCheckbox("enable", "Enable", "0", "Turn it on", nil).
		AddColor("accent", "Accent", "#fff", "", nil).
		AddSelect("layout", "Layout", "wide", "", nil,
			model.Option{Value: "wide", Label: "Wide"},
			model.Option{Value: "boxed", Label: "Boxed"}).
		AddHTML("intro", "<p>Read me</p>")

	if err := section.AddField(model.KindTextarea, "notes", "Notes", "", "", nil, model.Option{Value: "ignored", Label: "x"}); err != nil {
		t.Fatalf("add textarea: %v", err)
	}

	fields := section.Fields()
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff([]string{"title", "enable", "accent", "layout", "intro", "notes"}, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if len(fields[3].Options) != 2 {
		t.Fatalf("select should keep options, got %+v", fields[3].Options)
	}
	if fields[5].Options != nil {
		t.Fatalf("textarea should drop options, got %+v", fields[5].Options)
	}
	if fields[4].Kind != model.KindHTML || fields[4].Description != "<p>Read me</p>" {
		t.Fatalf("unexpected html field %+v", fields[4])
	}
}

func TestSectionFieldsAreCopies(t *testing.T) {
	attrs := map[string]string{"placeholder": "x"}
	section := model.NewSection("s", "S").AddText("title", "Title", "", "", attrs)
	attrs["placeholder"] = "mutated"

	fields := section.Fields()
	if got, _ := fields[0].Attr("placeholder"); got != "x" {
		t.Fatalf("schema mutated through caller map: %q", got)
	}
	fields[0].Attributes["placeholder"] = "again"
	if got, _ := section.Fields()[0].Attr("placeholder"); got != "x" {
		t.Fatalf("schema mutated through returned copy: %q", got)
	}
}

func TestTabAddSectionReplacesInPlace(t *testing.T) {
	tab := model.NewTab("general", "General")
	tab.AddSection("a", "A").AddText("one", "One", "", "", nil)
	tab.AddSection("b", "B").AddText("two", "Two", "", "", nil)
	tab.AddSection("a", "A again").AddText("three", "Three", "", "", nil)

	sections := tab.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].ID != "a" || sections[0].Name != "A again" {
		t.Fatalf("replacement should keep original slot, got %+v", sections[0])
	}

	var ids []string
	for _, field := range tab.Fields() {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff([]string{"three", "two"}, ids); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestTabFieldDuplicateLastWins(t *testing.T) {
	tab := model.NewTab("general", "General")
	tab.AddSection("a", "A").AddText("title", "First", "", "", nil)
	tab.AddSection("b", "B").AddText("title", "Second", "", "", nil)

	field, ok := tab.Field("title")
	if !ok || field.Label != "Second" {
		t.Fatalf("expected last definition, got %+v", field)
	}
	if _, ok := tab.Field("missing"); ok {
		t.Fatalf("unexpected match for missing field")
	}
}

func TestValuesCurrent(t *testing.T) {
	field := model.Field{ID: "title", Default: "Untitled"}
	if got := model.Values(nil).Current(field); got != "Untitled" {
		t.Fatalf("nil values should fall back to default, got %q", got)
	}
	if got := (model.Values{"title": ""}).Current(field); got != "" {
		t.Fatalf("stored empty string should win over default, got %q", got)
	}
	if got := (model.Values{"title": "Hi"}).Current(field); got != "Hi" {
		t.Fatalf("got %q", got)
	}
}

func TestGalleryRoundTrip(t *testing.T) {
	ids := model.SplitGallery("12,,7,9,")
	if diff := cmp.Diff([]string{"12", "7", "9"}, ids); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
	if got := model.JoinGallery(ids); got != "12,7,9" {
		t.Fatalf("join = %q", got)
	}
	if model.SplitGallery("") != nil {
		t.Fatalf("empty gallery should split to nil")
	}
}

func TestGalleryKeepsIDsVerbatim(t *testing.T) {
	if diff := cmp.Diff([]string{"12", " 9", "a b"}, model.SplitGallery("12,, 9,a b")); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
	if got := model.JoinGallery([]string{" 9", "", "x"}); got != " 9,x" {
		t.Fatalf("join = %q", got)
	}
}

func TestEditorOptionsDefault(t *testing.T) {
	field := model.Field{Kind: model.KindEditor}
	if diff := cmp.Diff(map[string]string{"textarea_rows": "10"}, field.EditorOptions()); diff != "" {
		t.Fatalf("default editor options mismatch (-want +got):\n%s", diff)
	}
	field.Options = []model.Option{{Value: "media_buttons", Label: "false"}}
	if diff := cmp.Diff(map[string]string{"media_buttons": "false"}, field.EditorOptions()); diff != "" {
		t.Fatalf("editor options mismatch (-want +got):\n%s", diff)
	}
}
