// Package config provides configuration loading, validation and hot reload
// for the optionspage server and CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-optionspage/pkg/storage"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPTIONSPAGE_"

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig                 `yaml:"server"`
	Storage      storage.Config               `yaml:"storage"`
	Definitions  DefinitionsConfig            `yaml:"definitions"`
	Filters      FiltersConfig                `yaml:"filters"`
	Theme        ThemeConfig                  `yaml:"theme"`
	Auth         AuthConfig                   `yaml:"auth"`
	Nonce        NonceConfig                  `yaml:"nonce"`
	Logging      LoggingConfig                `yaml:"logging"`
	Metrics      MetricsConfig                `yaml:"metrics"`
	Translations map[string]map[string]string `yaml:"translations"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// AdminPath is where pages render; navigation links point here.
	AdminPath string `yaml:"admin_path"`
	// OptionsPath receives form submissions.
	OptionsPath string `yaml:"options_path"`
}

// Addr joins host and port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefinitionsConfig locates page definition files. An empty Dir uses the
// bundled sample page.
type DefinitionsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// FiltersConfig assembles the submission filter chain.
type FiltersConfig struct {
	TrimSpace    bool     `yaml:"trim_space"`
	StripTags    []string `yaml:"strip_tags"`
	SanitizeHTML []string `yaml:"sanitize_html"`
	// Lua is a script defining validate(page, key, value).
	Lua string `yaml:"lua"`
}

// Equal reports whether both configurations build the same filter chain.
func (f FiltersConfig) Equal(other FiltersConfig) bool {
	return f.TrimSpace == other.TrimSpace &&
		f.Lua == other.Lua &&
		slices.Equal(f.StripTags, other.StripTags) &&
		slices.Equal(f.SanitizeHTML, other.SanitizeHTML)
}

// ThemeConfig selects chrome tokens for the HTML renderer.
type ThemeConfig struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Manifest converts the configured tokens into a theme manifest. It returns
// nil when no theme is named.
func (t ThemeConfig) Manifest() *theme.Manifest {
	if strings.TrimSpace(t.Name) == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:     t.Name,
		Tokens:   t.Tokens,
		Variants: make(map[string]theme.Variant, len(t.Variants)),
	}
	for name, tokens := range t.Variants {
		manifest.Variants[name] = theme.Variant{Tokens: tokens}
	}
	return manifest
}

// AuthConfig configures the admin authorizer. Requests must carry Token as a
// bearer token when it is set; they are then granted Capabilities.
type AuthConfig struct {
	Token        string   `yaml:"token"`
	Capabilities []string `yaml:"capabilities"`
}

// NonceConfig configures submission nonces.
type NonceConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			AdminPath:    "/admin",
			OptionsPath:  "/options",
		},
		Storage: storage.Config{
			Driver:  storage.DriverSQLite,
			DSN:     "optionspage.db",
			Timeout: 5 * time.Second,
		},
		Filters: FiltersConfig{TrimSpace: true},
		Auth:    AuthConfig{Capabilities: []string{"manage_options", "edit_theme_options"}},
		Nonce:   NonceConfig{TTL: 12 * time.Hour},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load reads configuration from a YAML file on top of Default. An empty path
// skips the file. Environment variables always win.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		data = []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to defaults plus
// environment overrides otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	return Load("")
}

// applyEnvOverrides applies OPTIONSPAGE_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := env("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := env("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := env("SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := env("SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := env("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := env("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := env("STORAGE_KEY_PREFIX"); v != "" {
		cfg.Storage.KeyPrefix = v
	}

	if v := env("DEFINITIONS_DIR"); v != "" {
		cfg.Definitions.Dir = v
	}
	if v := env("DEFINITIONS_WATCH"); v != "" {
		cfg.Definitions.Watch = parseBool(v)
	}
	if v := env("FILTERS_LUA"); v != "" {
		cfg.Filters.Lua = v
	}

	if v := env("THEME_NAME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := env("THEME_VARIANT"); v != "" {
		cfg.Theme.Variant = v
	}

	if v := env("AUTH_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := env("AUTH_CAPABILITIES"); v != "" {
		cfg.Auth.Capabilities = splitList(v)
	}

	if v := env("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := env("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if cfg.Server.AdminPath == "" {
		cfg.Server.AdminPath = def.Server.AdminPath
	}
	if cfg.Server.OptionsPath == "" {
		cfg.Server.OptionsPath = def.Server.OptionsPath
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = def.Storage.Driver
	}
	if cfg.Storage.Timeout == 0 {
		cfg.Storage.Timeout = def.Storage.Timeout
	}
	if cfg.Nonce.TTL == 0 {
		cfg.Nonce.TTL = def.Nonce.TTL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = def.Metrics.Path
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}
	for name, path := range map[string]string{
		"server.admin_path":   cfg.Server.AdminPath,
		"server.options_path": cfg.Server.OptionsPath,
		"metrics.path":        cfg.Metrics.Path,
	} {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%s must start with '/', got %q", name, path)
		}
	}

	switch strings.ToLower(cfg.Storage.Driver) {
	case storage.DriverMemory:
	case storage.DriverSQLite, storage.DriverRedis, storage.DriverJSONFile:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver must be one of: memory, sqlite, redis, jsonfile")
	}

	if cfg.Theme.Variant != "" {
		if _, ok := cfg.Theme.Variants[cfg.Theme.Variant]; !ok {
			return fmt.Errorf("theme.variant %q is not defined in theme.variants", cfg.Theme.Variant)
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	return nil
}

// NewLogger builds the zerolog logger described by cfg.
func NewLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
