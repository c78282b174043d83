// Package slogobs provides an observability.Provider backed by log/slog.
//
// Spans and metrics are rendered as debug-level log records and metric values
// are kept in memory so they can be inspected with [Observer.CounterValue].
// Output format and level come from [WithFormat] and [WithLevel], or from the
// AISDK_LOG_FORMAT and AISDK_LOG_LEVEL environment variables.
package slogobs
