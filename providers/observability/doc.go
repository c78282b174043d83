// Package observability defines the interfaces and attribute conventions used
// for tracing, metrics and structured logging throughout the SDK.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency. An active [Provider] and [Span] travel through a
// [context.Context] via [ContextWithObserver] and [ContextWithSpan] and are
// retrieved with [ObserverFromContext] and [SpanFromContext], so lower layers
// (HTTP transport, provider calls) can enrich the span opened by the client
// without an explicit parameter.
//
// semconv.go holds the attribute keys, span names and metric names.
package observability
