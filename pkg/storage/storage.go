// Package storage persists settings namespaces. Each namespace is a flat map
// of field id to string value and is always written as a whole: Save replaces
// whatever the backend held for that namespace.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend closed")

// Backend is a namespaced key-value store. A namespace that was never saved
// loads as an empty map.
type Backend interface {
	Load(ctx context.Context, namespace string) (map[string]string, error)
	Save(ctx context.Context, namespace string, values map[string]string) error
	Namespaces(ctx context.Context) ([]string, error)
	Close() error
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverJSONFile = "jsonfile"
)

// Config selects and configures a backend.
type Config struct {
	Driver string `yaml:"driver" json:"driver"`
	// DSN is the sqlite path, redis URL or JSON file path depending on Driver.
	DSN       string        `yaml:"dsn" json:"dsn"`
	KeyPrefix string        `yaml:"key_prefix" json:"key_prefix"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case DriverRedis:
		return NewRedis(ctx, RedisOptions{
			URL:            cfg.DSN,
			Prefix:         cfg.KeyPrefix,
			ConnectTimeout: cfg.Timeout,
		})
	case DriverJSONFile:
		return NewJSONFile(cfg.DSN)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
