package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInputType is returned when a call receives an input it cannot convert.
	ErrInputType = errors.New("aisdk: unsupported input type")

	// ErrCallNotFound is returned by Instance.Call for an unknown model or call.
	ErrCallNotFound = errors.New("aisdk: call not found")

	// ErrMissingAPIKey is returned by provider calls made without credentials.
	ErrMissingAPIKey = errors.New("aisdk: api key is not set")
)

// CallFunc is a provider call before configuration is bound.
type CallFunc func(ctx context.Context, input any, cfg Config) (any, error)

// BoundFunc is a provider call with its configuration captured.
type BoundFunc func(ctx context.Context, input any) (any, error)

// Definition describes a provider: its name, default configuration and the
// calls each model exposes, keyed by model name then call name.
type Definition struct {
	Name     string
	Defaults Config
	Models   map[string]map[string]CallFunc
}

// New binds cfg, completed from d.Defaults, into every call of d. Nil call
// functions are left out.
func (d Definition) New(cfg Config) *Instance {
	bound := cfg.WithDefaults(d.Defaults)

	inst := &Instance{
		name:  d.Name,
		cfg:   bound,
		calls: make(map[string]map[string]BoundFunc, len(d.Models)),
	}
	for model, calls := range d.Models {
		for call, fn := range calls {
			if fn == nil {
				continue
			}
			if inst.calls[model] == nil {
				inst.calls[model] = make(map[string]BoundFunc, len(calls))
			}
			inst.calls[model][call] = bind(fn, bound)
		}
	}
	return inst
}

func bind(fn CallFunc, cfg Config) BoundFunc {
	return func(ctx context.Context, input any) (any, error) {
		return fn(ctx, input, cfg.Clone())
	}
}

// Instance is a provider with configuration bound into its calls. It is
// immutable and safe for concurrent use.
type Instance struct {
	name  string
	cfg   Config
	calls map[string]map[string]BoundFunc
}

// Name returns the provider name.
func (i *Instance) Name() string {
	return i.name
}

// Config returns a copy of the bound configuration.
func (i *Instance) Config() Config {
	return i.cfg.Clone()
}

// Lookup returns the bound call for model and call.
func (i *Instance) Lookup(model, call string) (BoundFunc, bool) {
	fn, ok := i.calls[model][call]
	return fn, ok
}

// Models returns the model names in sorted order.
func (i *Instance) Models() []string {
	models := make([]string, 0, len(i.calls))
	for model := range i.calls {
		models = append(models, model)
	}
	slices.Sort(models)
	return models
}

// Calls returns the call names of model in sorted order.
func (i *Instance) Calls(model string) []string {
	calls := make([]string, 0, len(i.calls[model]))
	for call := range i.calls[model] {
		calls = append(calls, call)
	}
	slices.Sort(calls)
	return calls
}

// Call runs the bound call for model and call. It does not go through any
// middleware; use a client for gated calls.
func (i *Instance) Call(ctx context.Context, model, call string, input any) (any, error) {
	fn, ok := i.Lookup(model, call)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s.%s", ErrCallNotFound, i.name, model, call)
	}
	return fn(ctx, input)
}

// Typed adapts fn into a CallFunc. See Input for the accepted input forms.
func Typed[I, O any](fn func(ctx context.Context, input I, cfg Config) (O, error)) CallFunc {
	return func(ctx context.Context, input any, cfg Config) (any, error) {
		in, err := Input[I](input)
		if err != nil {
			return nil, err
		}
		return fn(ctx, in, cfg)
	}
}

// Input converts a call input to I. It accepts I, a non-nil *I, raw JSON as
// json.RawMessage or []byte, and nil (the zero I).
func Input[I any](input any) (I, error) {
	var in I
	switch v := input.(type) {
	case I:
		return v, nil
	case *I:
		if v == nil {
			return in, fmt.Errorf("%w: nil %T", ErrInputType, v)
		}
		return *v, nil
	case json.RawMessage:
		return decodeInput[I](v)
	case []byte:
		return decodeInput[I](v)
	case nil:
		return in, nil
	default:
		return in, fmt.Errorf("%w: got %T, want %T", ErrInputType, input, in)
	}
}

func decodeInput[I any](raw []byte) (I, error) {
	var in I
	if len(raw) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("%w: decode %T: %w", ErrInputType, in, err)
	}
	return in, nil
}
