package ai

import (
	"log/slog"
	"maps"
	"net/http"
	"time"
)

// Config is the configuration bound into every call of a provider instance.
// Provider-specific settings that have no field go into Extra.
type Config struct {
	APIKey       string
	BaseURL      string
	APIVersion   string
	Organization string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Headers      map[string]string
	Extra        map[string]string
}

// Clone returns a copy of c that shares no maps with it.
func (c Config) Clone() Config {
	c.Headers = maps.Clone(c.Headers)
	c.Extra = maps.Clone(c.Extra)
	return c
}

// WithDefaults returns c with every empty field taken from defaults. Header
// and Extra entries are merged, with c winning on conflicts.
func (c Config) WithDefaults(defaults Config) Config {
	out := c.Clone()
	if out.APIKey == "" {
		out.APIKey = defaults.APIKey
	}
	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}
	if out.APIVersion == "" {
		out.APIVersion = defaults.APIVersion
	}
	if out.Organization == "" {
		out.Organization = defaults.Organization
	}
	if out.Timeout == 0 {
		out.Timeout = defaults.Timeout
	}
	if out.HTTPClient == nil {
		out.HTTPClient = defaults.HTTPClient
	}
	out.Headers = mergeMissing(out.Headers, defaults.Headers)
	out.Extra = mergeMissing(out.Extra, defaults.Extra)
	return out
}

// Client returns the configured HTTP client or http.DefaultClient.
func (c Config) Client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Get returns the Extra value stored under key.
func (c Config) Get(key string) string {
	return c.Extra[key]
}

// LogValue keeps the API key out of logs.
func (c Config) LogValue() slog.Value {
	key := ""
	if c.APIKey != "" {
		key = "[redacted]"
	}
	return slog.GroupValue(
		slog.String("api_key", key),
		slog.String("base_url", c.BaseURL),
		slog.String("api_version", c.APIVersion),
		slog.Duration("timeout", c.Timeout),
	)
}

func mergeMissing(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}
