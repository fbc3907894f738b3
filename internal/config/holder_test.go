package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-optionspage/internal/config"
)

func TestHolder_ReloadNotifies(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var seen *config.Config
	h.OnChange(func(cfg *config.Config) { seen = cfg })

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if h.Get().Logging.Level != "debug" {
		t.Fatalf("reload not applied: %+v", h.Get().Logging)
	}
	if seen != h.Get() {
		t.Fatalf("listener did not receive the new config")
	}
}

func TestHolder_ReloadKeepsOldOnError(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("storage:\n  driver: nope\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := h.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if h.Get().Server.Port != 9000 {
		t.Fatalf("old config should be kept, got %+v", h.Get().Server)
	}
}

func TestHolder_WatchDefinitions(t *testing.T) {
	dir := t.TempDir()
	h := config.NewStaticHolder(nil, zerolog.Nop())
	defer h.Stop()

	changed := make(chan struct{}, 8)
	h.OnDefinitionsChange(func() { changed <- struct{}{} })

	if err := h.Watch(dir); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "page.yaml"), []byte("pages: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatalf("definition change was not reported")
	}
}

func TestHolder_StopTwice(t *testing.T) {
	h := config.NewStaticHolder(config.Default(), zerolog.Nop())
	if err := h.Watch(""); err != nil {
		t.Fatalf("watch without targets: %v", err)
	}
	h.Stop()
	h.Stop()
}

func TestIsDefinitionFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.yaml": true, "b.YML": true, "c.json": true, "d.txt": false, "e": false,
	} {
		if got := config.IsDefinitionFile(name); got != want {
			t.Fatalf("IsDefinitionFile(%q) = %v, want %v", name, got, want)
		}
	}
}
