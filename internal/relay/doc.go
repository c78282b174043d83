// Package relay exposes a client over HTTP. Each registered call is served
// at POST /v1/{provider}/{model}/{call} with the raw JSON input as body.
// Streaming outputs are re-encoded as server-sent events.
package relay
