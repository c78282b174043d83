package middleware

import (
	"context"
	"log/slog"
	"slices"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs only the call key and the request id.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard logs everything in Minimal plus the input size and the
	// input field names. This is the recommended default.
	LogLevelStandard

	// LogLevelVerbose logs everything in Standard plus the input itself,
	// truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It logs raw prompts,
	// which may contain sensitive user data, secrets, or PII.
	LogLevelVerbose
)

// truncateLen is the maximum input length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware returns a gate that logs every call reaching it at info
// level and always lets it through. Put it first to see calls that later
// gates reject.
//
// The logger parameter must not be nil. Use slog.Default() if you have not
// configured a custom logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(ctx context.Context, call client.CallContext) (bool, error) {
		logger.InfoContext(ctx, "ai call", buildCallAttrs(call, level)...)
		return true, nil
	}
}

// buildCallAttrs returns slog attributes for a call, expanding detail
// according to the requested verbosity level.
func buildCallAttrs(call client.CallContext, level LogLevel) []any {
	attrs := []any{
		slog.String("call", call.Key().String()),
		slog.String("request_id", call.RequestID),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("input_size", len(call.Input)))
		if names := inputFieldNames(call); len(names) > 0 {
			attrs = append(attrs, slog.Any("input_fields", names))
		}
	}

	if level >= LogLevelVerbose && len(call.Input) > 0 {
		attrs = append(attrs, slog.String("input", utils.TruncateString(string(call.Input), truncateLen)))
	}

	return attrs
}

func inputFieldNames(call client.CallContext) []string {
	input := inputObject(call)
	names := make([]string, 0, len(input))
	for name := range input {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
