package client

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/HamzaKV/ai-sdk/providers/ai"
	"github.com/HamzaKV/ai-sdk/providers/observability"
)

// Key identifies one call of one model of one provider.
type Key struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Call     string `json:"call"`
}

func (k Key) String() string {
	return k.Provider + "." + k.Model + "." + k.Call
}

// Client routes calls to registered providers through the gate chain. It is
// immutable after New and safe for concurrent use.
type Client struct {
	providers  map[string]*ai.Instance
	middleware []Middleware
	logger     *slog.Logger
	observer   observability.Provider
}

// New builds a Client. It fails on nil or unnamed providers, duplicate
// provider names and nil gates.
func New(opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		providers:  make(map[string]*ai.Instance, len(o.providers)),
		middleware: slices.Clone(o.middleware),
		logger:     o.logger,
		observer:   o.observer,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.observer == nil {
		c.observer = observability.Nop
	}

	for _, p := range o.providers {
		if p == nil {
			return nil, errors.New("client: nil provider")
		}
		name := p.Name()
		if name == "" {
			return nil, errors.New("client: provider without a name")
		}
		if _, exists := c.providers[name]; exists {
			return nil, fmt.Errorf("client: provider %q registered twice", name)
		}
		c.providers[name] = p
	}
	for i, mw := range c.middleware {
		if mw == nil {
			return nil, fmt.Errorf("client: middleware %d is nil", i)
		}
	}
	return c, nil
}

// Has reports whether key resolves to a registered call.
func (c *Client) Has(key Key) bool {
	_, ok := c.lookup(key)
	return ok
}

// Keys returns every registered call, sorted by provider, model and call.
func (c *Client) Keys() []Key {
	var keys []Key
	for name, p := range c.providers {
		for _, model := range p.Models() {
			for _, call := range p.Calls(model) {
				keys = append(keys, Key{Provider: name, Model: model, Call: call})
			}
		}
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return cmp.Or(
			cmp.Compare(a.Provider, b.Provider),
			cmp.Compare(a.Model, b.Model),
			cmp.Compare(a.Call, b.Call),
		)
	})
	return keys
}

func (c *Client) lookup(key Key) (ai.BoundFunc, bool) {
	p, ok := c.providers[key.Provider]
	if !ok {
		return nil, false
	}
	return p.Lookup(key.Model, key.Call)
}

// Invoke runs the gate chain for key and, when every gate passes, the bound
// call. A veto returns *VetoError and a failing gate *GateError; in both
// cases the provider is not called.
func (c *Client) Invoke(ctx context.Context, key Key, input any) (any, error) {
	fn, ok := c.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCall, key)
	}

	raw, err := snapshot(input)
	if err != nil {
		return nil, fmt.Errorf("client: encode input for %s: %w", key, err)
	}
	call := CallContext{
		Provider:  key.Provider,
		Model:     key.Model,
		Call:      key.Call,
		RequestID: uuid.NewString(),
		Input:     raw,
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrProvider, key.Provider),
		observability.String(observability.AttrModel, key.Model),
		observability.String(observability.AttrCall, key.Call),
	}
	ctx, span := c.observer.StartSpan(ctx, observability.SpanCall,
		append(attrs, observability.String(observability.AttrRequestID, call.RequestID))...)
	defer span.End()
	ctx = observability.ContextWithSpan(ctx, span)
	ctx = observability.ContextWithObserver(ctx, c.observer)

	c.observer.Counter(observability.MetricCalls).Add(ctx, 1, attrs...)
	start := time.Now()

	if err := runGates(ctx, c.middleware, call); err != nil {
		var veto *VetoError
		if errors.As(err, &veto) {
			span.AddEvent(observability.EventVetoed, observability.Int(observability.AttrGateIndex, veto.Index))
			span.SetStatus(observability.StatusOK, "vetoed")
			span.SetAttributes(observability.String(observability.AttrOutcome, observability.OutcomeVetoed))
			c.observer.Counter(observability.MetricCallsVetoed).Add(ctx, 1, attrs...)
			c.logger.InfoContext(ctx, "call vetoed",
				slog.String("call", key.String()),
				slog.String("request_id", call.RequestID),
				slog.Int("gate", veto.Index),
			)
			return nil, err
		}
		c.fail(ctx, span, key, call.RequestID, err, attrs)
		return nil, err
	}
	span.AddEvent(observability.EventGatesPassed, observability.Int(observability.AttrGateCount, len(c.middleware)))

	out, err := fn(ctx, input)
	elapsed := time.Since(start)
	c.observer.Histogram(observability.MetricCallDuration).Record(ctx, float64(elapsed.Milliseconds()), attrs...)
	if err != nil {
		c.fail(ctx, span, key, call.RequestID, err, attrs)
		return nil, err
	}

	span.SetStatus(observability.StatusOK, "")
	span.SetAttributes(
		observability.String(observability.AttrOutcome, observability.OutcomeOK),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	c.logger.DebugContext(ctx, "call completed",
		slog.String("call", key.String()),
		slog.String("request_id", call.RequestID),
		slog.Duration("duration", elapsed),
	)
	return out, nil
}

func (c *Client) fail(ctx context.Context, span observability.Span, key Key, requestID string, err error, attrs []observability.Attribute) {
	span.RecordError(err)
	span.SetStatus(observability.StatusError, err.Error())
	span.SetAttributes(observability.String(observability.AttrOutcome, observability.OutcomeFailed))
	c.observer.Counter(observability.MetricCallsFailed).Add(ctx, 1, attrs...)
	c.logger.WarnContext(ctx, "call failed",
		slog.String("call", key.String()),
		slog.String("request_id", requestID),
		slog.String("error", err.Error()),
	)
}

// snapshot encodes input once so every gate sees the same bytes.
func snapshot(input any) (json.RawMessage, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return append(json.RawMessage(nil), v...), nil
	case []byte:
		if json.Valid(v) {
			return append(json.RawMessage(nil), v...), nil
		}
	}
	return json.Marshal(input)
}

// Call is Invoke with the output asserted to O. A nil output yields the zero
// O.
func Call[O any](ctx context.Context, c *Client, key Key, input any) (O, error) {
	var zero O
	out, err := c.Invoke(ctx, key, input)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(O)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T, want %T", ErrOutputType, key, out, zero)
	}
	return typed, nil
}
