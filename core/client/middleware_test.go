package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// ========== Gate helpers ==========

// callRecorder records whether a gate was invoked and in what order.
type callRecorder struct {
	order  *[]string
	name   string
	called bool
	seen   CallContext
}

func newCallRecorder(name string, sharedOrder *[]string) *callRecorder {
	return &callRecorder{order: sharedOrder, name: name}
}

func (rec *callRecorder) gate(allow bool) Middleware {
	return func(_ context.Context, call CallContext) (bool, error) {
		rec.called = true
		rec.seen = call
		*rec.order = append(*rec.order, rec.name)
		return allow, nil
	}
}

func testCall() CallContext {
	return CallContext{
		Provider:  "acme",
		Model:     "text",
		Call:      "complete",
		RequestID: "req-1",
		Input:     json.RawMessage(`{"prompt":"hi","model":"spoofed"}`),
	}
}

// ========== runGates tests ==========

// TestRunGates_Empty verifies that an empty list lets the call through.
func TestRunGates_Empty(t *testing.T) {
	if err := runGates(context.Background(), nil, testCall()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// TestRunGates_Order verifies gates run in registration order.
func TestRunGates_Order(t *testing.T) {
	order := []string{}
	rec1 := newCallRecorder("g1", &order)
	rec2 := newCallRecorder("g2", &order)
	rec3 := newCallRecorder("g3", &order)

	err := runGates(context.Background(), []Middleware{rec1.gate(true), rec2.gate(true), rec3.gate(true)}, testCall())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"g1", "g2", "g3"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, order[i])
		}
	}
}

// TestRunGates_ShortCircuit verifies that no gate after a veto runs.
func TestRunGates_ShortCircuit(t *testing.T) {
	order := []string{}
	rec1 := newCallRecorder("g1", &order)
	rec2 := newCallRecorder("g2", &order)
	rec3 := newCallRecorder("g3", &order)

	err := runGates(context.Background(), []Middleware{rec1.gate(true), rec2.gate(false), rec3.gate(true)}, testCall())

	var veto *VetoError
	if !errors.As(err, &veto) {
		t.Fatalf("expected *VetoError, got %v", err)
	}
	if veto.Index != 1 {
		t.Errorf("expected veto index 1, got %d", veto.Index)
	}
	if !errors.Is(err, ErrStoppedByMiddleware) {
		t.Error("expected veto to match ErrStoppedByMiddleware")
	}
	if rec3.called {
		t.Error("expected gate after the veto not to run")
	}
}

// TestRunGates_GateError verifies that a failing gate stops the chain with a
// GateError that is not a veto.
func TestRunGates_GateError(t *testing.T) {
	boom := errors.New("boom")
	order := []string{}
	after := newCallRecorder("after", &order)

	failing := func(context.Context, CallContext) (bool, error) { return false, boom }
	err := runGates(context.Background(), []Middleware{failing, after.gate(true)}, testCall())

	var gateErr *GateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected *GateError, got %v", err)
	}
	if gateErr.Index != 0 || !errors.Is(err, boom) {
		t.Errorf("unexpected gate error: %v", err)
	}
	if errors.Is(err, ErrStoppedByMiddleware) {
		t.Error("gate failure must not look like a veto")
	}
	if after.called {
		t.Error("expected chain to stop on gate error")
	}
}

// TestRunGates_CancelledContext verifies cancellation is checked before
// each gate.
func TestRunGates_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	order := []string{}
	rec1 := newCallRecorder("g1", &order)
	rec2 := newCallRecorder("g2", &order)

	cancelling := func(ctx context.Context, call CallContext) (bool, error) {
		cancel()
		return rec1.gate(true)(ctx, call)
	}

	err := runGates(ctx, []Middleware{cancelling, rec2.gate(true)}, testCall())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rec2.called {
		t.Error("expected second gate not to run after cancellation")
	}
}

// TestRunGates_InputIsolated verifies a gate cannot change what later gates
// (and the provider) see.
func TestRunGates_InputIsolated(t *testing.T) {
	order := []string{}
	observer := newCallRecorder("observer", &order)

	mutating := func(_ context.Context, call CallContext) (bool, error) {
		for i := range call.Input {
			call.Input[i] = 'x'
		}
		call.Model = "other"
		return true, nil
	}

	call := testCall()
	want := string(call.Input)
	if err := runGates(context.Background(), []Middleware{mutating, observer.gate(true)}, call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(observer.seen.Input) != want {
		t.Errorf("expected input %s, got %s", want, observer.seen.Input)
	}
	if observer.seen.Model != "text" {
		t.Errorf("expected model text, got %q", observer.seen.Model)
	}
	if string(call.Input) != want {
		t.Errorf("caller input changed to %s", call.Input)
	}
}

// ========== Gate and CallContext tests ==========

// TestGate_AdaptsPredicate verifies Gate wraps a predicate without error.
func TestGate_AdaptsPredicate(t *testing.T) {
	mw := Gate(func(call CallContext) bool { return call.Call == "complete" })

	ok, err := mw(context.Background(), testCall())
	if err != nil || !ok {
		t.Errorf("expected (true, nil), got (%v, %v)", ok, err)
	}
}

// TestCallContext_FieldsRoutingKeysWin verifies that input fields cannot
// spoof the routing keys.
func TestCallContext_FieldsRoutingKeysWin(t *testing.T) {
	fields := testCall().Fields()

	if fields["prompt"] != "hi" {
		t.Errorf("expected prompt hi, got %v", fields["prompt"])
	}
	if fields["model"] != "text" {
		t.Errorf("expected routing model to win, got %v", fields["model"])
	}
	if fields["provider"] != "acme" || fields["call"] != "complete" {
		t.Errorf("unexpected routing fields: %v", fields)
	}
}

// TestCallContext_FieldsNonObjectInput verifies that scalar input only
// yields the routing keys.
func TestCallContext_FieldsNonObjectInput(t *testing.T) {
	call := testCall()
	call.Input = json.RawMessage(`"resp_123"`)

	fields := call.Fields()
	if len(fields) != 3 {
		t.Errorf("expected 3 fields, got %v", fields)
	}
}

// TestVetoError_Message verifies the error text names the gate and the call.
func TestVetoError_Message(t *testing.T) {
	err := &VetoError{Index: 2, Call: testCall()}
	want := "aisdk: execution stopped by middleware: gate 2 rejected acme.text.complete"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
