package client

import (
	"log/slog"

	"github.com/HamzaKV/ai-sdk/providers/ai"
	"github.com/HamzaKV/ai-sdk/providers/observability"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	providers  []*ai.Instance
	middleware []Middleware
	logger     *slog.Logger
	observer   observability.Provider
}

// WithProviders registers bound provider instances. Names must be unique
// across all WithProviders options.
func WithProviders(providers ...*ai.Instance) Option {
	return func(o *options) {
		o.providers = append(o.providers, providers...)
	}
}

// WithMiddleware appends gates to the chain. Gates run in the order they
// were added.
func WithMiddleware(middleware ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, middleware...)
	}
}

// WithLogger sets the logger used for call diagnostics. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets the tracing and metrics provider. The observer and the
// call span are put into the context passed to gates and providers.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}
