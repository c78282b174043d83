// Package middleware provides built-in gates for the client. Each
// constructor returns a [client.Middleware] ready to be passed to
// [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewLoggingMiddleware]: logs every call that reaches it at one of three
//     verbosity levels (Minimal, Standard, Verbose). It never vetoes.
//
//   - [Allow] and [Deny]: let through or reject calls by key pattern, such as
//     "openai.text.*".
//
//   - [RequireFields]: rejects calls whose input lacks one of the given
//     top-level fields.
//
//   - [MaxInputSize]: rejects calls whose JSON input exceeds a byte limit.
//
// # Usage
//
//	c, err := client.New(
//	    client.WithProviders(openai.New()),
//	    client.WithMiddleware(
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	        middleware.Deny("openai.images.*"),
//	        middleware.RequireFields("model"),
//	    ),
//	)
//
// Gates run in the order given. In the example above a call is logged first,
// then checked against the deny list and finally checked for a model field.
// The first gate that says no stops the chain.
package middleware
