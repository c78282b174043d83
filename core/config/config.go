package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/core/client/middleware"
	"github.com/HamzaKV/ai-sdk/providers/ai"
)

// DefaultAddr is the relay listen address used when none is configured.
const DefaultAddr = ":8080"

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// File is a parsed configuration file.
type File struct {
	Providers  map[string]Provider `yaml:"providers"`
	Middleware Middleware          `yaml:"middleware"`
	Relay      Relay               `yaml:"relay"`
}

// Provider holds the settings of one provider. Empty fields fall back to the
// environment and then to the provider defaults.
type Provider struct {
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	APIVersion   string            `yaml:"api_version"`
	Organization string            `yaml:"organization"`
	Timeout      Duration          `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers"`
	Extra        map[string]string `yaml:"extra"`
}

// Middleware configures the built-in gates, applied in this order: logging,
// allow, deny, require_fields, max_input_size.
type Middleware struct {
	LogLevel      string   `yaml:"log_level"` // off, minimal, standard or verbose
	Allow         []string `yaml:"allow"`
	Deny          []string `yaml:"deny"`
	RequireFields []string `yaml:"require_fields"`
	MaxInputSize  int      `yaml:"max_input_size"`
}

// Relay configures the HTTP relay.
type Relay struct {
	Addr string `yaml:"addr"`
}

// Duration is a time.Duration written as "30s" or "1m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: duration %q at line %d: %w", ErrInvalid, node.Value, node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads and validates the YAML file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands environment references in data and decodes it.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks provider names, the log level and limits.
func (f *File) Validate() error {
	for name := range f.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty provider name", ErrInvalid)
		}
	}
	if _, err := parseLogLevel(f.Middleware.LogLevel); err != nil {
		return err
	}
	if f.Middleware.MaxInputSize < 0 {
		return fmt.Errorf("%w: max_input_size must not be negative", ErrInvalid)
	}
	return nil
}

// Addr returns the relay address, DefaultAddr when unset.
func (f *File) Addr() string {
	if f.Relay.Addr == "" {
		return DefaultAddr
	}
	return f.Relay.Addr
}

// ProviderConfig returns the configuration of the named provider: file values
// first, then the <NAME>_* environment variables.
func (f *File) ProviderConfig(name string) ai.Config {
	env := FromEnv(name)
	p, ok := f.Providers[name]
	if !ok {
		return env
	}
	cfg := ai.Config{
		APIKey:       p.APIKey,
		BaseURL:      p.BaseURL,
		APIVersion:   p.APIVersion,
		Organization: p.Organization,
		Timeout:      time.Duration(p.Timeout),
		Headers:      p.Headers,
		Extra:        p.Extra,
	}
	return cfg.WithDefaults(env)
}

// Gates builds the configured gate list.
func (f *File) Gates(logger *slog.Logger) []client.Middleware {
	m := f.Middleware
	var gates []client.Middleware

	if level, _ := parseLogLevel(m.LogLevel); level >= 0 {
		if logger == nil {
			logger = slog.Default()
		}
		gates = append(gates, middleware.NewLoggingMiddleware(logger, middleware.LogLevel(level)))
	}
	if len(m.Allow) > 0 {
		gates = append(gates, middleware.Allow(m.Allow...))
	}
	if len(m.Deny) > 0 {
		gates = append(gates, middleware.Deny(m.Deny...))
	}
	if len(m.RequireFields) > 0 {
		gates = append(gates, middleware.RequireFields(m.RequireFields...))
	}
	if m.MaxInputSize > 0 {
		gates = append(gates, middleware.MaxInputSize(m.MaxInputSize))
	}
	return gates
}

// parseLogLevel maps a level name to a middleware.LogLevel, -1 meaning off.
func parseLogLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return -1, nil
	case "minimal":
		return int(middleware.LogLevelMinimal), nil
	case "standard":
		return int(middleware.LogLevelStandard), nil
	case "verbose":
		return int(middleware.LogLevelVerbose), nil
	default:
		return -1, fmt.Errorf("%w: unknown log_level %q", ErrInvalid, s)
	}
}

// FromEnv reads <PREFIX>_API_KEY, <PREFIX>_BASE_URL, <PREFIX>_API_VERSION,
// <PREFIX>_ORGANIZATION and <PREFIX>_TIMEOUT. The prefix is upper-cased. An
// unparsable timeout is ignored.
func FromEnv(prefix string) ai.Config {
	p := strings.ToUpper(prefix) + "_"
	cfg := ai.Config{
		APIKey:       os.Getenv(p + "API_KEY"),
		BaseURL:      os.Getenv(p + "BASE_URL"),
		APIVersion:   os.Getenv(p + "API_VERSION"),
		Organization: os.Getenv(p + "ORGANIZATION"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(p + "API_BASE_URL")
	}
	if raw := os.Getenv(p + "TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// LoadDotEnv loads the given .env files, ".env" when none are given.
// Missing files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}
