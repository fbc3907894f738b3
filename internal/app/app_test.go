package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/internal/app"
	"github.com/goliatone/go-optionspage/internal/config"
	"github.com/goliatone/go-optionspage/pkg/storage"
	"github.com/goliatone/go-optionspage/pkg/validation"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage = storage.Config{Driver: storage.DriverMemory}
	return cfg
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), config.NewStaticHolder(cfg, zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_MountsBundledDefinitions(t *testing.T) {
	a := newApp(t, memoryConfig())

	page, ok := a.Page("theme-options")
	if !ok {
		t.Fatalf("bundled page not mounted")
	}
	if page.Capability() != "edit_theme_options" {
		t.Fatalf("capability = %q", page.Capability())
	}

	handler := a.Server.Handler()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/theme-options?tab=social", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d\n%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `name="social[twitter]"`) {
		t.Fatalf("social tab not rendered\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"optionspage_renders_total", "optionspage_store_duration_seconds", "optionspage_definitions_reloads_total"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}

func TestNew_AuthFollowsConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.Token = "s3cret"
	a := newApp(t, cfg)

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/theme-options", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status without token = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/theme-options", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d", rec.Code)
	}
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.Metrics.Enabled = false
	a := newApp(t, cfg)

	if a.Metrics != nil {
		t.Fatalf("metrics should be nil when disabled")
	}
	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics route should not be mounted, got %d", rec.Code)
	}
}

func TestHooksRunAfterConfiguredFilters(t *testing.T) {
	a := newApp(t, memoryConfig())
	a.Hooks.Add("theme-options", func(_ context.Context, _, key, value string) (string, error) {
		if key == "facebook" && strings.Contains(value, " ") {
			return "", validation.Reject(key, "No spaces allowed.")
		}
		return value, nil
	})

	ctx := context.Background()
	saved, err := a.Registry.Submit(ctx, "social", map[string]string{
		"facebook": "  https://facebook.com/a b  ",
		"twitter":  "https://twitter.com/acme",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := saved["facebook"]; ok {
		t.Fatalf("hook should have rejected facebook, saved %v", saved)
	}
	if saved["twitter"] != "https://twitter.com/acme" {
		t.Fatalf("twitter = %q", saved["twitter"])
	}

	errs := a.Registry.Errors("social")
	if len(errs) != 1 || errs[0].Message != "No spaces allowed." {
		t.Fatalf("unexpected settings errors %v", errs)
	}
}

const pageV1 = `
pages:
  - id: blog
    title: Blog
    tabs:
      - id: posts
        name: Posts
        sections:
          - id: main
            name: Main
            fields:
              - id: per_page
                label: Posts per page
                type: input
                default: "10"
`

func TestReloadDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blog.yaml")
	if err := os.WriteFile(path, []byte(pageV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := memoryConfig()
	cfg.Definitions.Dir = dir
	a := newApp(t, cfg)

	if _, ok := a.Page("blog"); !ok {
		t.Fatalf("blog page not mounted")
	}

	v2 := strings.Replace(pageV1, "title: Blog", "title: Blog v2", 1)
	if err := os.WriteFile(path, []byte(v2), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := a.ReloadDefinitions(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if page, _ := a.Page("blog"); page.Title() != "Blog v2" {
		t.Fatalf("reload not applied, title %q", page.Title())
	}

	if err := os.WriteFile(path, []byte("pages:\n  - id: \"\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := a.ReloadDefinitions(context.Background()); err == nil {
		t.Fatalf("expected reload error for invalid definitions")
	}
	if page, ok := a.Page("blog"); !ok || page.Title() != "Blog v2" {
		t.Fatalf("previous pages should keep serving")
	}
}

func TestReloadDefinitions_KeepsRegistrationsStable(t *testing.T) {
	a := newApp(t, memoryConfig())

	fields := len(a.Registry.Fields("social"))
	sections := len(a.Registry.Sections("social"))
	if fields == 0 {
		t.Fatalf("social fields not registered")
	}
	for i := 0; i < 2; i++ {
		if err := a.ReloadDefinitions(context.Background()); err != nil {
			t.Fatalf("reload %d: %v", i, err)
		}
		if got := len(a.Registry.Fields("social")); got != fields {
			t.Fatalf("reload %d: social fields = %d, want %d", i, got, fields)
		}
		if got := len(a.Registry.Sections("social")); got != sections {
			t.Fatalf("reload %d: social sections = %d, want %d", i, got, sections)
		}
	}
}

func TestReloadDefinitions_DropsRemovedTabs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blog.yaml")
	if err := os.WriteFile(path, []byte(pageV1), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := memoryConfig()
	cfg.Definitions.Dir = dir
	a := newApp(t, cfg)

	if !a.Registry.IsRegistered("posts") {
		t.Fatalf("posts not registered")
	}
	renamed := strings.Replace(pageV1, "id: posts", "id: archive", 1)
	if err := os.WriteFile(path, []byte(renamed), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := a.ReloadDefinitions(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Registry.IsRegistered("posts") || len(a.Registry.Fields("posts")) != 0 {
		t.Fatalf("removed tab still registered")
	}
	if !a.Registry.IsRegistered("archive") {
		t.Fatalf("archive not registered")
	}
}

func TestReloadDefinitions_RebuildsFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	write := func(trim bool) {
		t.Helper()
		content := fmt.Sprintf("storage:\n  driver: memory\nmetrics:\n  enabled: false\nfilters:\n  trim_space: %t\n", trim)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write(false)

	holder, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	defer holder.Stop()
	a, err := app.New(context.Background(), holder, zerolog.Nop())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	ctx := context.Background()
	raw := map[string]string{"twitter": "  https://x.example  "}
	if saved, _ := a.Registry.Submit(ctx, "social", raw); saved["twitter"] != "" {
		t.Fatalf("untrimmed link should be rejected, saved %v", saved)
	}
	a.Registry.Errors("social")

	write(true)
	if err := holder.Reload(); err != nil {
		t.Fatalf("holder reload: %v", err)
	}
	if err := a.ReloadDefinitions(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	saved, err := a.Registry.Submit(ctx, "social", raw)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if saved["twitter"] != "https://x.example" {
		t.Fatalf("twitter = %q, want trimmed link", saved["twitter"])
	}
	if errs := a.Registry.Errors("social"); len(errs) != 0 {
		t.Fatalf("unexpected settings errors %v", errs)
	}
}

func TestBuildFilter(t *testing.T) {
	ctx := context.Background()
	script := filepath.Join(t.TempDir(), "filter.lua")
	lua := `function validate(page, key, value)
  if key == "count" and tonumber(value) == nil then
    return nil, "Count must be a number."
  end
  return value
end`
	if err := os.WriteFile(script, []byte(lua), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	filter, closeFn, err := app.BuildFilter(config.FiltersConfig{
		TrimSpace:    true,
		StripTags:    []string{"title"},
		SanitizeHTML: []string{"footer"},
		Lua:          script,
	})
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	defer closeFn()

	cases := []struct {
		key, in, want string
	}{
		{key: "title", in: "  <b>Hi</b>  ", want: "Hi"},
		{key: "footer", in: `<em>ok</em><script>x()</script>`, want: "<em>ok</em>"},
		{key: "other", in: " <b>kept</b> ", want: "<b>kept</b>"},
		{key: "count", in: " 12 ", want: "12"},
	}
	for _, tc := range cases {
		got, err := filter(ctx, "p", tc.key, tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("%s = %q, want %q", tc.key, got, tc.want)
		}
	}

	_, err = filter(ctx, "p", "count", "many")
	if !errors.Is(err, validation.ErrRejected) || validation.Message(err) != "Count must be a number." {
		t.Fatalf("expected lua rejection, got %v", err)
	}

	if _, _, err := app.BuildFilter(config.FiltersConfig{Lua: filepath.Join(t.TempDir(), "missing.lua")}); err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestCatalog(t *testing.T) {
	catalog := app.NewCatalog(map[string]map[string]string{
		"pt":       {"optionspage.submit": "Salvar", "greeting": "Olá %s"},
		"en":       {"optionspage.submit": "Save"},
		"!!":        {"x": "y"},
	})

	if got := catalog.Locales(); len(got) != 2 {
		t.Fatalf("locales = %v", got)
	}
	got, err := catalog.Translate("pt-BR", "optionspage.submit")
	if err != nil || got != "Salvar" {
		t.Fatalf("pt-BR submit = %q, %v", got, err)
	}
	if got, _ := catalog.Translate("pt", "greeting", "Ana"); got != "Olá Ana" {
		t.Fatalf("greeting = %q", got)
	}
	if _, err := catalog.Translate("pt", "missing"); !errors.Is(err, app.ErrMissingTranslation) {
		t.Fatalf("expected missing translation, got %v", err)
	}
	if _, err := catalog.Translate("", "optionspage.submit"); !errors.Is(err, app.ErrMissingTranslation) {
		t.Fatalf("blank locale should miss, got %v", err)
	}
	if _, err := app.NewCatalog(nil).Translate("en", "optionspage.submit"); !errors.Is(err, app.ErrMissingTranslation) {
		t.Fatalf("empty catalog should miss, got %v", err)
	}
}
