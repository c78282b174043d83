package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes (default).
	// Example: 2026-10-18 10:40:35 INFO call finished {"aisdk.provider":"openai"}
	FormatCompact Format = "compact"

	// FormatJSON is the slog JSON handler output, for log aggregation.
	FormatJSON Format = "json"

	// FormatText is the slog key=value text handler output.
	FormatText Format = "text"
)

// LevelTrace sits below slog.LevelDebug and is only emitted when asked for.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat parses a format string. Unknown values map to FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	case "text", "logfmt":
		return FormatText
	default:
		return FormatCompact
	}
}

// FormatFromEnv reads AISDK_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	if format := os.Getenv("AISDK_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

// ParseLevel parses trace, debug, info, warn(ing) and error, case-insensitive.
// Unknown values map to slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromEnv reads AISDK_LOG_LEVEL, then LOG_LEVEL.
func LevelFromEnv() slog.Level {
	if level := os.Getenv("AISDK_LOG_LEVEL"); level != "" {
		return ParseLevel(level)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return ParseLevel(level)
	}
	return slog.LevelInfo
}
