package sse

import "errors"

var (
	// ErrStreamAborted is returned when the decoder's context is done before a read.
	ErrStreamAborted = errors.New("aisdk: stream aborted")

	// ErrDecodeFailed wraps a failure of the underlying reader.
	ErrDecodeFailed = errors.New("aisdk: stream decode failed")

	// ErrMissingBody is returned when there is no byte source to decode or deliver.
	ErrMissingBody = errors.New("aisdk: missing response body")

	// ErrStreamClosed is returned by Writer methods once the stream has terminated
	// or its reader has gone away.
	ErrStreamClosed = errors.New("aisdk: stream closed")

	// ErrProducerPanic wraps a value recovered from a panicking producer.
	ErrProducerPanic = errors.New("aisdk: stream producer panicked")
)
