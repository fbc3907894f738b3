package definition_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-optionspage/pkg/definition"
	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/storage"
	"github.com/goliatone/go-optionspage/pkg/validation"
	"github.com/goliatone/go-optionspage/pkg/validation/celfilter"
)

func TestLoadFS_Testdata(t *testing.T) {
	set, err := definition.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 pages, got %d", set.Len())
	}

	theme, ok := set.Page("theme-options")
	if !ok {
		t.Fatalf("theme-options missing")
	}
	if theme.Source != "theme.yaml" || theme.Capability != "edit_theme_options" {
		t.Fatalf("unexpected page metadata %+v", theme)
	}

	layout := theme.Tabs[0].Sections[0].Fields[4]
	want := definition.OptionList{{Value: "wide", Label: "Wide"}, {Value: "boxed", Label: "Boxed"}}
	if diff := cmp.Diff(want, layout.Options); diff != "" {
		t.Fatalf("mapping options mismatch (-want +got):\n%s", diff)
	}

	reading, ok := set.Page("reading")
	if !ok {
		t.Fatalf("reading missing")
	}
	front := reading.Tabs[0].Sections[0].Fields[0]
	wantJSON := definition.OptionList{{Value: "posts", Label: "Latest posts"}, {Value: "page", Label: "A static page"}}
	if diff := cmp.Diff(wantJSON, front.Options); diff != "" {
		t.Fatalf("json object options mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsFS(t *testing.T) {
	set, err := definition.LoadFS(definition.DefaultsFS())
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	def, ok := set.Page("theme-options")
	if !ok {
		t.Fatalf("bundled page missing")
	}

	page, err := def.Build(validation.TrimSpace)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	kinds := map[model.Kind]bool{}
	for _, tab := range page.Tabs() {
		for _, field := range tab.Fields() {
			kinds[field.Kind] = true
		}
	}
	for _, kind := range model.Kinds() {
		if kind == model.KindInput {
			continue
		}
		if !kinds[kind] {
			t.Fatalf("bundled page does not exercise kind %q", kind)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "  ", want: "is empty"},
		{name: "missing page id", doc: "pages:\n  - title: X\n", want: "page id is required"},
		{name: "duplicate tab", doc: "pages:\n  - id: p\n    tabs:\n      - id: a\n      - id: a\n", want: `duplicate tab "a"`},
		{name: "missing field id", doc: "pages:\n  - id: p\n    tabs:\n      - id: a\n        sections:\n          - id: s\n            fields:\n              - type: text\n", want: "has no id"},
		{name: "unknown kind", doc: "pages:\n  - id: p\n    tabs:\n      - id: a\n        sections:\n          - id: s\n            fields:\n              - {id: f, type: slider}\n", want: "unknown field kind"},
		{name: "bad options", doc: "pages:\n  - id: p\n    tabs:\n      - id: a\n        sections:\n          - id: s\n            fields:\n              - {id: f, type: radio, options: nope}\n", want: "options must be"},
		{name: "garbage", doc: "pages: [", want: "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := definition.Parse([]byte(tc.doc), "inline.yaml")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseKindAliasAndScalarDefaults(t *testing.T) {
	doc, err := definition.Parse([]byte(`
pages:
  - id: p
    tabs:
      - id: general
        sections:
          - id: s
            fields:
              - {id: gallery, type: image_plupload}
              - {id: enable, type: checkbox, default: 0}
`), "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fields := doc.Pages[0].Tabs[0].Sections[0].Fields
	if fields[0].Type != string(model.KindImageGallery) {
		t.Fatalf("alias not resolved: %q", fields[0].Type)
	}
	if fields[1].Default != "0" {
		t.Fatalf("numeric default = %q", fields[1].Default)
	}
	if doc.Pages[0].Title != "p" || doc.Pages[0].Tabs[0].Name != "general" {
		t.Fatalf("titles should default to ids: %+v", doc.Pages[0])
	}
}

func TestLoadFS_DuplicatePages(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("pages:\n  - id: p\n")},
		"b.json": {Data: []byte(`{"pages":[{"id":"p"}]}`)},
	}
	if _, err := definition.LoadFS(fsys); err == nil || !strings.Contains(err.Error(), `duplicate page "p"`) {
		t.Fatalf("expected duplicate page error, got %v", err)
	}

	empty, err := definition.LoadFS(nil)
	if err != nil || empty.Len() != 0 {
		t.Fatalf("nil fs should give an empty set: %v", err)
	}
}

func TestBuildAppliesRules(t *testing.T) {
	ctx := context.Background()
	set, err := definition.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pages, err := set.BuildAll(validation.TrimSpace)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(pages) != 2 || pages[0].ID() != "reading" {
		t.Fatalf("pages should follow load order")
	}
	page := pages[1]
	if page.ID() != "theme-options" || page.Capability() != "edit_theme_options" || page.MenuTitle() != "Theme" {
		t.Fatalf("unexpected page %s %s %s", page.ID(), page.Capability(), page.MenuTitle())
	}

	registry := host.NewRegistry(storage.NewMemory())
	if err := page.RegisterSettings(ctx, registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	saved, err := registry.Submit(ctx, "general", map[string]string{
		"accent_color": "blue",
		"site_tagline": "  Hello  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(model.Values{"site_tagline": "Hello"}, saved); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
	errs := registry.Errors("general")
	want := []render.SettingsError{{Code: "accent_color", Message: "Accent color must be a six digit hex value.", Kind: render.ErrorKindError}}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRejectsBadRules(t *testing.T) {
	def := definition.Page{ID: "p", Rules: []celfilter.Rule{{Key: "x", Expr: "value +"}}}
	if _, err := def.Build(nil); err == nil {
		t.Fatalf("expected rule compile error")
	}
}
