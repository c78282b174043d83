package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Text string `json:"text"`
}

type echoOutput struct {
	Text   string
	APIKey string
	Base   string
}

func echo(_ context.Context, in echoInput, cfg Config) (echoOutput, error) {
	return echoOutput{Text: in.Text, APIKey: cfg.APIKey, Base: cfg.BaseURL}, nil
}

func testDefinition() Definition {
	return Definition{
		Name:     "echo",
		Defaults: Config{BaseURL: "https://echo.example/v1", Headers: map[string]string{"x-default": "1"}},
		Models: map[string]map[string]CallFunc{
			"small": {
				"say":  Typed(echo),
				"void": nil,
			},
			"large": {
				"say":   Typed(echo),
				"shout": Typed(echo),
			},
		},
	}
}

// ========== Context injection ==========

func TestDefinitionNew_BindsConfig(t *testing.T) {
	inst := testDefinition().New(Config{APIKey: "sk-test"})

	out, err := inst.Call(context.Background(), "small", "say", echoInput{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, echoOutput{Text: "hi", APIKey: "sk-test", Base: "https://echo.example/v1"}, out)
}

func TestDefinitionNew_BoundEqualsUnbound(t *testing.T) {
	def := testDefinition()
	cfg := Config{APIKey: "k", BaseURL: "https://other"}
	inst := def.New(cfg)

	bound, ok := inst.Lookup("large", "shout")
	require.True(t, ok)
	got, err := bound(context.Background(), echoInput{Text: "x"})
	require.NoError(t, err)

	want, err := def.Models["large"]["shout"](context.Background(), echoInput{Text: "x"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefinitionNew_MissingAndNilCalls(t *testing.T) {
	inst := testDefinition().New(Config{})

	_, ok := inst.Lookup("small", "void")
	assert.False(t, ok, "nil call functions are skipped")
	_, ok = inst.Lookup("medium", "say")
	assert.False(t, ok)

	_, err := inst.Call(context.Background(), "small", "shout", nil)
	assert.ErrorIs(t, err, ErrCallNotFound)

	assert.Equal(t, []string{"large", "small"}, inst.Models())
	assert.Equal(t, []string{"say", "shout"}, inst.Calls("large"))
	assert.Empty(t, inst.Calls("medium"))
	assert.Equal(t, "echo", inst.Name())
}

func TestInstance_ConfigIsImmutable(t *testing.T) {
	cfg := Config{APIKey: "k", Headers: map[string]string{"x-trace": "a"}}
	inst := Definition{
		Name: "p",
		Models: map[string]map[string]CallFunc{
			"m": {"c": func(_ context.Context, _ any, cfg Config) (any, error) {
				cfg.Headers["x-trace"] = "mutated"
				return cfg.Headers["x-trace"], nil
			}},
		},
	}.New(cfg)

	cfg.Headers["x-trace"] = "changed by caller"
	copied := inst.Config()
	copied.Headers["x-trace"] = "changed by reader"

	_, err := inst.Call(context.Background(), "m", "c", nil)
	require.NoError(t, err)
	assert.Equal(t, "a", inst.Config().Headers["x-trace"])
}

// ========== Config ==========

func TestConfig_WithDefaults(t *testing.T) {
	client := &http.Client{}
	defaults := Config{
		APIKey:     "default-key",
		BaseURL:    "https://default",
		APIVersion: "2023-06-01",
		Timeout:    time.Minute,
		HTTPClient: client,
		Headers:    map[string]string{"a": "default", "b": "default"},
	}
	cfg := Config{APIKey: "mine", Headers: map[string]string{"a": "mine"}}.WithDefaults(defaults)

	assert.Equal(t, "mine", cfg.APIKey)
	assert.Equal(t, "https://default", cfg.BaseURL)
	assert.Equal(t, "2023-06-01", cfg.APIVersion)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Same(t, client, cfg.Client())
	assert.Equal(t, map[string]string{"a": "mine", "b": "default"}, cfg.Headers)
}

func TestConfig_ClientDefault(t *testing.T) {
	assert.Same(t, http.DefaultClient, Config{}.Client())
	assert.Equal(t, "eu", Config{Extra: map[string]string{"region": "eu"}}.Get("region"))
}

func TestConfig_LogValueRedactsKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("configured", "config", Config{APIKey: "sk-secret", BaseURL: "https://x"})

	assert.NotContains(t, buf.String(), "sk-secret")
	assert.Contains(t, buf.String(), "config.api_key=[redacted]")
}

// ========== Typed inputs ==========

func TestTyped_AcceptsInputForms(t *testing.T) {
	call := Typed(echo)
	ctx := context.Background()

	inputs := map[string]any{
		"value":   echoInput{Text: "v"},
		"pointer": &echoInput{Text: "v"},
		"raw":     json.RawMessage(`{"text":"v"}`),
		"bytes":   []byte(`{"text":"v"}`),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := call(ctx, input, Config{})
			require.NoError(t, err)
			assert.Equal(t, "v", out.(echoOutput).Text)
		})
	}
}

func TestTyped_RejectsOtherInputs(t *testing.T) {
	call := Typed(echo)

	_, err := call(context.Background(), 42, Config{})
	assert.ErrorIs(t, err, ErrInputType)

	_, err = call(context.Background(), (*echoInput)(nil), Config{})
	assert.ErrorIs(t, err, ErrInputType)

	_, err = call(context.Background(), json.RawMessage(`{"text":`), Config{})
	assert.ErrorIs(t, err, ErrInputType)
}

func TestInput_NilIsZero(t *testing.T) {
	in, err := Input[echoInput](nil)
	require.NoError(t, err)
	assert.Equal(t, echoInput{}, in)
}
