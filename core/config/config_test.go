package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaKV/ai-sdk/core/client"
)

const sample = `
providers:
  openai:
    api_key: ${TEST_OPENAI_KEY}
    timeout: 30s
    headers:
      X-Team: search
  anthropic:
    api_version: "2023-06-01"
middleware:
  log_level: off
  deny: ["openai.images.*"]
  require_fields: [model]
  max_input_size: 1024
relay:
  addr: ":9090"
`

func TestParse(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-file")

	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "sk-file", f.Providers["openai"].APIKey)
	assert.Equal(t, Duration(30*time.Second), f.Providers["openai"].Timeout)
	assert.Equal(t, ":9090", f.Addr())
	assert.Equal(t, []string{"openai.images.*"}, f.Middleware.Deny)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("providers:\n  openai:\n    timeout: soon\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("middleware:\n  log_level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("providers:\n  \"\":\n    api_key: x\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("middleware:\n  max_input_size: -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relay:\n  addr: \":7000\"\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", f.Addr())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAddr_Default(t *testing.T) {
	assert.Equal(t, DefaultAddr, (&File{}).Addr())
}

func TestProviderConfig_FileOverEnv(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-file")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_ORGANIZATION", "org-env")
	t.Setenv("ANTHROPIC_API_KEY", "ant-env")

	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	openai := f.ProviderConfig("openai")
	assert.Equal(t, "sk-file", openai.APIKey)
	assert.Equal(t, "org-env", openai.Organization)
	assert.Equal(t, 30*time.Second, openai.Timeout)
	assert.Equal(t, "search", openai.Headers["X-Team"])

	anthropic := f.ProviderConfig("anthropic")
	assert.Equal(t, "ant-env", anthropic.APIKey)
	assert.Equal(t, "2023-06-01", anthropic.APIVersion)

	t.Setenv("MISTRAL_API_KEY", "m-env")
	assert.Equal(t, "m-env", f.ProviderConfig("mistral").APIKey)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ACME_API_KEY", "k")
	t.Setenv("ACME_API_BASE_URL", "http://acme")
	t.Setenv("ACME_TIMEOUT", "2s")

	cfg := FromEnv("acme")
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "http://acme", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	t.Setenv("ACME_TIMEOUT", "later")
	assert.Zero(t, FromEnv("acme").Timeout)
}

func TestGates(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	gates := f.Gates(nil)
	require.Len(t, gates, 3)

	call := client.CallContext{Provider: "openai", Model: "text", Call: "create_response", Input: json.RawMessage(`{"model":"gpt-4.1"}`)}
	for i, gate := range gates {
		ok, err := gate(context.Background(), call)
		require.NoError(t, err)
		assert.True(t, ok, "gate %d", i)
	}

	call.Model = "images"
	ok, err := gates[0](context.Background(), call)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGates_LoggingFirst(t *testing.T) {
	f := &File{Middleware: Middleware{LogLevel: "standard", Allow: []string{"*.*.*"}}}
	assert.Len(t, f.Gates(nil), 2)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_ONLY_VAR=from-file\n"), 0o600))
	t.Setenv("DOTENV_ONLY_VAR", "")
	require.NoError(t, os.Unsetenv("DOTENV_ONLY_VAR"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("DOTENV_ONLY_VAR"))
}
