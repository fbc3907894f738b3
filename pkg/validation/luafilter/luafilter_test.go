package luafilter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-optionspage/pkg/validation"
	"github.com/goliatone/go-optionspage/pkg/validation/luafilter"
)

const script = `
function validate(page, key, value)
  if key == "color" then
    if not string.match(value, "^#%x%x%x%x%x%x$") then
      return nil, "Invalid color"
    end
    return string.lower(value)
  end
  if key == "keep" then
    return true
  end
  if key == "noop" then
    return
  end
  if key == "count" then
    return tonumber(value) * 2
  end
  return page .. ":" .. value
end
`

func TestValidate(t *testing.T) {
	s, err := luafilter.New(script)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	cases := []struct {
		key, in, want string
	}{
		{key: "color", in: "#ABCDEF", want: "#abcdef"},
		{key: "keep", in: "raw", want: "raw"},
		{key: "noop", in: "raw", want: "raw"},
		{key: "count", in: "21", want: "42"},
		{key: "title", in: "hello", want: "general:hello"},
	}
	for _, tc := range cases {
		got, err := s.Filter()(ctx, "general", tc.key, tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.key, got, tc.want)
		}
	}

	_, err = s.Validate(ctx, "general", "color", "red")
	if !errors.Is(err, validation.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if validation.Message(err) != "Invalid color" {
		t.Fatalf("message = %q", validation.Message(err))
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	s, err := luafilter.New(`
function validate(page, key, value)
  return tostring(dofile == nil and loadstring == nil and io == nil and os == nil)
end`)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	got, err := s.Validate(context.Background(), "p", "k", "v")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != "true" {
		t.Fatalf("sandbox leaked loaders: %q", got)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := luafilter.New(`x = 1`); !errors.Is(err, luafilter.ErrMissingFunction) {
		t.Fatalf("expected ErrMissingFunction, got %v", err)
	}
	if _, err := luafilter.New(`function validate(`); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestRuntimeErrorAndClose(t *testing.T) {
	s, err := luafilter.New(`function validate(p, k, v) error("boom") end`)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Validate(context.Background(), "p", "k", "v"); err == nil {
		t.Fatalf("expected runtime error")
	}
	s.Close()
	s.Close()
	if _, err := s.Validate(context.Background(), "p", "k", "v"); !errors.Is(err, luafilter.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.lua")
	if err := os.WriteFile(path, []byte(`function validate(p, k, v) return string.upper(v) end`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := luafilter.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer s.Close()
	got, _ := s.Validate(context.Background(), "p", "k", "abc")
	if got != "ABC" {
		t.Fatalf("got %q", got)
	}
	if _, err := luafilter.Load(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatalf("expected read error")
	}
}
