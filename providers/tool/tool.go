package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HamzaKV/ai-sdk/core/parse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/observability"
)

// ErrUnknownTool is returned when a model calls a tool that is not in the set.
var ErrUnknownTool = errors.New("aisdk: unknown tool")

// Tool is a function the model may call.
type Tool struct {
	Name        string
	Description string
	// Parameters is the JSON schema of the arguments object.
	Parameters map[string]any
	Strict     bool
	// Execute receives the model's arguments as a JSON string and returns the
	// result sent back to the model.
	Execute func(ctx context.Context, arguments string) (string, error)
}

// Define builds a Tool around a typed function. Arguments are parsed into I
// and the output is serialized to JSON (strings are returned unchanged).
//
//	weather := tool.Define("get_weather", "Current weather for a city", schema,
//	    func(ctx context.Context, in WeatherArgs) (Report, error) { ... })
func Define[I, O any](name, description string, parameters map[string]any, fn func(ctx context.Context, input I) (O, error)) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		Execute: func(ctx context.Context, arguments string) (string, error) {
			input, err := parse.As[I](arguments)
			if err != nil && !errors.Is(err, parse.ErrEmpty) {
				return "", fmt.Errorf("tool %s: parse arguments: %w", name, err)
			}
			output, err := fn(ctx, input)
			if err != nil {
				return "", err
			}
			return utils.JSONToString(output), nil
		},
	}
}

// Call runs the tool and records its execution on the span in ctx, if any.
func (t Tool) Call(ctx context.Context, arguments string) (string, error) {
	if t.Execute == nil {
		return "", fmt.Errorf("tool %s: no execute function", t.Name)
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.SpanToolExec,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, utils.TruncateString(arguments, 0)),
		)
	}
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Counter(observability.MetricToolCalls).Add(ctx, 1, observability.String(observability.AttrToolName, t.Name))
	}

	start := time.Now()
	output, err := t.Execute(ctx, arguments)
	if span != nil {
		if err != nil {
			span.RecordError(err)
		} else {
			span.AddEvent("tool.result",
				observability.String(observability.AttrToolName, t.Name),
				observability.String(observability.AttrToolOutput, utils.TruncateString(output, 0)),
				observability.Duration(observability.AttrDuration, time.Since(start)),
			)
		}
	}
	return output, err
}

// Set is an immutable collection of tools keyed by lower-cased name.
type Set struct {
	tools map[string]Tool
	order []string
}

// NewSet returns a Set holding tools. A later tool replaces an earlier one
// with the same name.
func NewSet(tools ...Tool) *Set {
	s := &Set{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		key := strings.ToLower(t.Name)
		if _, exists := s.tools[key]; !exists {
			s.order = append(s.order, key)
		}
		s.tools[key] = t
	}
	return s
}

// Get retrieves a tool by name (case-insensitive).
func (s *Set) Get(name string) (Tool, bool) {
	if s == nil {
		return Tool{}, false
	}
	t, ok := s.tools[strings.ToLower(name)]
	return t, ok
}

// Len returns the number of tools.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the tools in registration order.
func (s *Set) All() []Tool {
	if s == nil {
		return nil
	}
	out := make([]Tool, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.tools[key])
	}
	return out
}

// Execute runs the named tool with arguments.
func (s *Set) Execute(ctx context.Context, name, arguments string) (string, error) {
	t, ok := s.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Call(ctx, arguments)
}
