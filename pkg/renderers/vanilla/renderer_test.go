package vanilla_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-optionspage/pkg/model"
	"github.com/goliatone/go-optionspage/pkg/render"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
)

func samplePageView() render.PageView {
	return render.PageView{
		ID:         "theme-options",
		Title:      "Theme <Options>",
		CurrentTab: "general",
		Tabs: []render.TabLink{
			{ID: "general", Name: "General", Href: "/admin?page=theme-options&tab=general", Active: true},
			{ID: "social", Name: "Social", Href: "/admin?page=theme-options&tab=social"},
		},
		Sections: []render.SectionView{{
			ID:   "basics",
			Name: "Basics",
			Fields: []render.FieldView{
				{Field: model.Field{ID: "title", Label: "Title", Kind: model.KindText}, Value: "Hi"},
				{Field: model.Field{ID: "notice", Kind: model.KindHTML, Description: "<em>note</em>"}},
			},
		}},
		Errors: []render.SettingsError{
			{Code: "title", Message: "Title <too> long"},
			{Code: "settings_updated", Message: "Settings saved.", Kind: render.ErrorKindUpdated},
		},
		Action: "/options",
		Hidden: render.SettingsFields("general", "nonce-123", ""),
	}
}

func TestRenderer_RendersPage(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer identity %s %s", renderer.Name(), renderer.ContentType())
	}

	var buf bytes.Buffer
	if err := renderer.Render(context.Background(), &buf, samplePageView()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	expectations := []string{
		`<div class="wrap optionspage-wrap" id="optionspage-theme-options">`,
		`<h1>Theme &lt;Options&gt;</h1>`,
		`<h2 class="nav-tab-wrapper"><a href="/admin?page=theme-options&amp;tab=general" class="nav-tab nav-tab-active">General</a><a href="/admin?page=theme-options&amp;tab=social" class="nav-tab">Social</a></h2>`,
		`<div id="setting-error-title" class="notice notice-error settings-error is-dismissible"><p><strong>Title &lt;too&gt; long</strong></p></div>`,
		`class="notice notice-success settings-error is-dismissible"`,
		`<form method="post" action="/options">`,
		`<input type="hidden" name="option_page" value="general" />`,
		`<input type="hidden" name="action" value="update" />`,
		`<input type="hidden" name="_nonce" value="nonce-123" />`,
		`<h2>Basics</h2>`,
		`<tr><th scope="row"><label for="title">Title</label></th><td><input id="title" name="general[title]" value="Hi" class="regular-text" type="text" /></td></tr>`,
		`<tr><th scope="row"></th><td><em>note</em></td></tr>`,
		`value="Save Changes"`,
	}
	for _, want := range expectations {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n---\n%s", want, out)
		}
	}
}

func TestRenderer_LocalizedLabels(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	view := samplePageView()
	view.Labels = render.Labels{Submit: "Salvar"}
	view.Sections[0].Fields = append(view.Sections[0].Fields, render.FieldView{
		Field: model.Field{ID: "logo_file", Kind: model.KindUpload},
	})

	var buf bytes.Buffer
	if err := renderer.Render(context.Background(), &buf, view); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `value="Salvar"`) {
		t.Fatalf("expected localized submit caption")
	}
	if !strings.Contains(buf.String(), `value="Select file"`) {
		t.Fatalf("missing captions should fall back to defaults")
	}
}

func TestRenderer_ThemeSelection(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			vanilla.PagePartialName: "themes/acme/page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"stylesheet": "admin.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321", "surface": "#000"},
			},
		},
	}
	selector, err := vanilla.NewManifestSelector(manifest)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	files := fstest.MapFS{
		"themes/acme/page.tmpl": {Data: []byte(`<section style="{{ theme.style }}">{{ page.title }}|{{ theme.variant }}</section>`)},
	}
	renderer, err := vanilla.New(
		vanilla.WithTemplatesFS(files),
		vanilla.WithThemeSelector(selector, "acme", "dark"),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(context.Background(), &buf, render.PageView{Title: "Options"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<section style="--brand: #654321; --surface: #000;">Options|dark</section>`
	if buf.String() != want {
		t.Fatalf("themed output mismatch\nwant: %s\n got: %s", want, buf.String())
	}

	if _, err := vanilla.New(vanilla.WithThemeSelector(selector, "acme", "neon")); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestThemeConfig(t *testing.T) {
	cfg := vanilla.ThemeConfig(&theme.Selection{
		Theme: "acme",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#111"},
			Assets: theme.Assets{Prefix: "/assets/acme/", Files: map[string]string{"stylesheet": "/admin.css"}},
		},
	})
	if cfg.CSSVars["--brand"] != "#111" {
		t.Fatalf("css vars not derived from tokens: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/admin.css" {
		t.Fatalf("asset url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
	if vanilla.ThemeConfig(nil) != nil {
		t.Fatalf("nil selection should produce nil config")
	}
}

func TestNavigationHTML(t *testing.T) {
	got := vanilla.NavigationHTML([]render.TabLink{
		{Name: "A", Href: "?page=p&tab=a", Active: true},
		{Name: "B & C", Href: "?page=p&tab=b"},
	})
	want := `<h2 class="nav-tab-wrapper"><a href="?page=p&amp;tab=a" class="nav-tab nav-tab-active">A</a><a href="?page=p&amp;tab=b" class="nav-tab">B &amp; C</a></h2>`
	if got != want {
		t.Fatalf("navigation mismatch\nwant: %s\n got: %s", want, got)
	}
}
