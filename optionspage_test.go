package optionspage

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-optionspage/pkg/host"
	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/renderers/vanilla"
	"github.com/goliatone/go-optionspage/pkg/storage"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

func TestEmbeddedTemplatesContainsPage(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "page.tmpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
}

func TestBuildPagesFromDefaults(t *testing.T) {
	ctx := context.Background()
	pages, err := BuildPages(DefaultDefinitions(), validation.TrimSpace, options.WithNonces(host.StaticNonce("n")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(pages) != 1 || pages[0].ID() != "theme-options" {
		t.Fatalf("unexpected pages %v", pages)
	}

	page := pages[0]
	if err := page.RegisterSettings(ctx, host.NewRegistry(storage.NewMemory())); err != nil {
		t.Fatalf("register: %v", err)
	}
	html, err := RenderHTML(ctx, page, RenderRequest{Tab: "social"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), `name="social[twitter]"`) {
		t.Fatalf("social tab missing\n%s", html)
	}

	set, err := LoadDefinitions(DefaultDefinitions())
	if err != nil || set.Len() != 1 {
		t.Fatalf("load definitions: %v", err)
	}
}

func TestWithThemeAppliesTokens(t *testing.T) {
	selector, err := vanilla.NewManifestSelector(&theme.Manifest{
		Name:   "acme",
		Tokens: map[string]string{"brand": "#123456"},
	})
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	opt, err := WithTheme(selector, "acme", "")
	if err != nil {
		t.Fatalf("WithTheme: %v", err)
	}

	page := NewPage("p", "P", opt)
	page.AddTab("general", "General").AddSection("basic", "Basic").AddText("title", "Title", "", "", nil)
	html, err := RenderHTML(context.Background(), page, RenderRequest{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "--brand: #123456;") {
		t.Fatalf("theme tokens not applied\n%s", html)
	}

	if _, err := WithTheme(selector, "missing", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}
