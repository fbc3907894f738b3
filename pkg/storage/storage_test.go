package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-optionspage/pkg/storage"
)

// exerciseBackend checks the replace-on-save contract every backend shares.
func exerciseBackend(t *testing.T, backend storage.Backend) {
	t.Helper()
	ctx := context.Background()

	empty, err := backend.Load(ctx, "general")
	if err != nil {
		t.Fatalf("load unknown namespace: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty namespace, got %v", empty)
	}

	if err := backend.Save(ctx, "general", map[string]string{"x": "1", "y": "2"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := backend.Save(ctx, "social.links", map[string]string{"twitter": "@site"}); err != nil {
		t.Fatalf("save dotted namespace: %v", err)
	}
	if err := backend.Save(ctx, "general", map[string]string{"x": "5"}); err != nil {
		t.Fatalf("save replace: %v", err)
	}

	got, err := backend.Load(ctx, "general")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"x": "5"}, got); diff != "" {
		t.Fatalf("namespace should be replaced (-want +got):\n%s", diff)
	}

	social, err := backend.Load(ctx, "social.links")
	if err != nil {
		t.Fatalf("load dotted namespace: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"twitter": "@site"}, social); diff != "" {
		t.Fatalf("dotted namespace mismatch (-want +got):\n%s", diff)
	}

	names, err := backend.Namespaces(ctx)
	if err != nil {
		t.Fatalf("namespaces: %v", err)
	}
	if diff := cmp.Diff([]string{"general", "social.links"}, names); diff != "" {
		t.Fatalf("namespaces mismatch (-want +got):\n%s", diff)
	}

	got["x"] = "mutated"
	again, _ := backend.Load(ctx, "general")
	if again["x"] != "5" {
		t.Fatalf("loaded map should not alias storage, got %q", again["x"])
	}
}

func TestMemoryBackend(t *testing.T) {
	backend := storage.NewMemory()
	exerciseBackend(t, backend)

	if err := backend.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := backend.Load(context.Background(), "general"); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.db")
	backend, err := storage.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	exerciseBackend(t, backend)
}

func TestSQLiteBackend_InMemory(t *testing.T) {
	backend, err := storage.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	exerciseBackend(t, backend)
}

func TestJSONFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "options.json")
	backend, err := storage.NewJSONFile(path)
	if err != nil {
		t.Fatalf("new json file: %v", err)
	}
	exerciseBackend(t, backend)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected file contents")
	}
}

func TestJSONFileBackend_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	backend, _ := storage.NewJSONFile(path)
	if _, err := backend.Load(context.Background(), "general"); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	backend, err := storage.Open(ctx, storage.Config{})
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if _, ok := backend.(*storage.Memory); !ok {
		t.Fatalf("default driver should be memory, got %T", backend)
	}

	backend, err = storage.Open(ctx, storage.Config{Driver: "jsonfile", DSN: filepath.Join(t.TempDir(), "o.json")})
	if err != nil {
		t.Fatalf("open jsonfile: %v", err)
	}
	if _, ok := backend.(*storage.JSONFile); !ok {
		t.Fatalf("expected json file backend, got %T", backend)
	}

	if _, err := storage.Open(ctx, storage.Config{Driver: "cassandra"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := storage.Open(ctx, storage.Config{Driver: "sqlite"}); err == nil {
		t.Fatalf("expected error for missing sqlite path")
	}
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveStore(op, namespace string, _ time.Duration, _ error) {
	r.ops = append(r.ops, op+":"+namespace)
}

func TestInstrument(t *testing.T) {
	obs := &recordingObserver{}
	backend := storage.Instrument(storage.NewMemory(), obs)
	ctx := context.Background()

	_ = backend.Save(ctx, "general", map[string]string{"a": "b"})
	_, _ = backend.Load(ctx, "general")
	_, _ = backend.Namespaces(ctx)

	if diff := cmp.Diff([]string{"save:general", "load:general", "namespaces:"}, obs.ops); diff != "" {
		t.Fatalf("observed ops mismatch (-want +got):\n%s", diff)
	}

	plain := storage.NewMemory()
	if storage.Instrument(plain, nil) != storage.Backend(plain) {
		t.Fatalf("nil observer should return backend unchanged")
	}
}
