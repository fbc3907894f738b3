package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONFile keeps every namespace as a top-level object of one JSON document.
// Writes go to a temp file that is renamed over the original.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

// NewJSONFile prepares a backend for path. The file is created on first Save.
func NewJSONFile(path string) (*JSONFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage: json file path is required")
	}
	return &JSONFile{path: path}, nil
}

func (j *JSONFile) read() ([]byte, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", j.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("storage: %s is not valid JSON", j.path)
	}
	return data, nil
}

func (j *JSONFile) Load(_ context.Context, namespace string) (map[string]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := j.read()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string)
	gjson.GetBytes(data, escapePath(namespace)).ForEach(func(key, value gjson.Result) bool {
		result[key.String()] = value.String()
		return true
	})
	return result, nil
}

func (j *JSONFile) Save(_ context.Context, namespace string, values map[string]string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := j.read()
	if err != nil {
		return err
	}
	if values == nil {
		values = map[string]string{}
	}
	updated, err := sjson.SetBytes(data, escapePath(namespace), values)
	if err != nil {
		return fmt.Errorf("storage: set %q: %w", namespace, err)
	}
	return j.writeAtomic(updated)
}

func (j *JSONFile) Namespaces(_ context.Context) ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := j.read()
	if err != nil {
		return nil, err
	}
	var names []string
	gjson.ParseBytes(data).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names, nil
}

func (j *JSONFile) Close() error {
	return nil
}

func (j *JSONFile) writeAtomic(data []byte) error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".optionspage-*.json")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: replace %s: %w", j.path, err)
	}
	return nil
}

// escapePath quotes gjson/sjson path syntax so a namespace is always read as
// a single literal key.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
