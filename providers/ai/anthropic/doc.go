// Package anthropic defines the Anthropic provider for the Messages API.
//
// It exposes two calls on the "claude" model: [CallMessages], which returns
// the complete message and runs any requested tools locally, and
// [CallStream], which returns an SSE decoder over the raw event stream.
// [New] reads ANTHROPIC_API_KEY and ANTHROPIC_API_BASE_URL from the
// environment.
package anthropic
