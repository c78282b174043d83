package client

import (
	"errors"
	"fmt"
)

var (
	// ErrStoppedByMiddleware is matched by every veto. Provider failures never
	// wrap it.
	ErrStoppedByMiddleware = errors.New("aisdk: execution stopped by middleware")

	// ErrUnknownCall is returned for a key no registered provider serves.
	ErrUnknownCall = errors.New("aisdk: unknown call")

	// ErrOutputType is returned by Call when the output is not of the
	// requested type.
	ErrOutputType = errors.New("aisdk: unexpected output type")
)

// VetoError is returned when a gate returned false.
type VetoError struct {
	// Index is the position of the vetoing gate in the middleware list.
	Index int
	Call  CallContext
}

func (e *VetoError) Error() string {
	return fmt.Sprintf("%s: gate %d rejected %s", ErrStoppedByMiddleware, e.Index, e.Call.Key())
}

func (e *VetoError) Unwrap() error {
	return ErrStoppedByMiddleware
}

// GateError is returned when a gate failed instead of deciding.
type GateError struct {
	Index int
	Call  CallContext
	Err   error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("aisdk: gate %d failed on %s: %v", e.Index, e.Call.Key(), e.Err)
}

func (e *GateError) Unwrap() error {
	return e.Err
}
