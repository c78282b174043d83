package middleware

import "errors"

// ErrInvalidPattern is returned by Allow and Deny gates configured with a
// malformed key pattern. The client reports it as a *client.GateError, so the
// call fails instead of being silently let through or rejected.
var ErrInvalidPattern = errors.New("aisdk: invalid call pattern")
