package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallsCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("middleware:\n  deny: [\"openai.images.*\"]\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"calls", "--config", cfg, "--env-file", filepath.Join(dir, "none.env"), "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, "POST /v1/anthropic/claude/messages")
	assert.Contains(t, lines, "POST /v1/openai/text/stream_response")
	assert.Len(t, lines, 9)
}

func TestServeCommand_BadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("middleware:\n  log_level: loud\n"), 0o600))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--config", cfg, "--env-file", filepath.Join(t.TempDir(), "none.env")})
	assert.Error(t, cmd.Execute())
}
