package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/HamzaKV/ai-sdk/core/client"
)

// Allow returns a gate that lets through only calls whose key matches one of
// patterns. Patterns use path.Match syntax on the dotted key, so
// "openai.text.*" matches every text call of the openai provider.
func Allow(patterns ...string) client.Middleware {
	return func(_ context.Context, call client.CallContext) (bool, error) {
		return matchAny(patterns, call.Key().String())
	}
}

// Deny returns a gate that rejects calls whose key matches one of patterns.
func Deny(patterns ...string) client.Middleware {
	return func(_ context.Context, call client.CallContext) (bool, error) {
		matched, err := matchAny(patterns, call.Key().String())
		return !matched && err == nil, err
	}
}

func matchAny(patterns []string, key string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return false, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// RequireFields returns a gate that rejects calls whose input object lacks any
// of fields. Non-object inputs have no fields.
func RequireFields(fields ...string) client.Middleware {
	return func(_ context.Context, call client.CallContext) (bool, error) {
		input := inputObject(call)
		for _, field := range fields {
			if _, ok := input[field]; !ok {
				return false, nil
			}
		}
		return true, nil
	}
}

// MaxInputSize returns a gate that rejects calls whose JSON input is longer
// than limit bytes.
func MaxInputSize(limit int) client.Middleware {
	return client.Gate(func(call client.CallContext) bool {
		return len(call.Input) <= limit
	})
}

func inputObject(call client.CallContext) map[string]any {
	var input map[string]any
	if len(call.Input) == 0 || json.Unmarshal(call.Input, &input) != nil {
		return nil
	}
	return input
}
