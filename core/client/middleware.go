package client

import (
	"context"
	"encoding/json"
	"maps"
)

// Middleware is a gate run before every call. Returning false vetoes the
// call; returning an error aborts it. Gates run one at a time, in
// registration order.
type Middleware func(ctx context.Context, call CallContext) (bool, error)

// Gate adapts a plain predicate into a Middleware.
func Gate(fn func(call CallContext) bool) Middleware {
	return func(_ context.Context, call CallContext) (bool, error) {
		return fn(call), nil
	}
}

// CallContext is what a gate observes about a call. It is passed by value and
// Input is a private copy, so a gate cannot change what the provider
// receives.
type CallContext struct {
	Provider  string
	Model     string
	Call      string
	RequestID string
	// Input is the caller's input encoded as JSON.
	Input json.RawMessage
}

// Key returns the routing key of the call.
func (c CallContext) Key() Key {
	return Key{Provider: c.Provider, Model: c.Model, Call: c.Call}
}

// Fields returns the top-level input fields merged with the provider, model
// and call keys. The routing keys win over input fields of the same name.
// Inputs that are not JSON objects contribute nothing.
func (c CallContext) Fields() map[string]any {
	fields := make(map[string]any)
	if len(c.Input) > 0 {
		var input map[string]any
		if json.Unmarshal(c.Input, &input) == nil {
			maps.Copy(fields, input)
		}
	}
	fields["provider"] = c.Provider
	fields["model"] = c.Model
	fields["call"] = c.Call
	return fields
}

// runGates evaluates gates in order. It returns nil when every gate passed.
func runGates(ctx context.Context, gates []Middleware, call CallContext) error {
	for i, gate := range gates {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Each gate gets its own copy of the input bytes.
		view := call
		view.Input = append(json.RawMessage(nil), call.Input...)

		ok, err := gate(ctx, view)
		if err != nil {
			return &GateError{Index: i, Call: call, Err: err}
		}
		if !ok {
			return &VetoError{Index: i, Call: call}
		}
	}
	return nil
}
