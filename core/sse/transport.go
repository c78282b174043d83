package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/HamzaKV/ai-sdk/internal/utils"
)

// Sink is a push-style destination such as http.ResponseWriter.
type Sink interface {
	Header() http.Header
	Write(p []byte) (int, error)
}

// SetHeaders sets the event-stream response headers on h.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

// Deliver hands body to dst.
//
// When dst is a Sink, the event-stream headers are set, body is copied into
// dst chunk by chunk with a flush after every write, and dst is ended. On
// success the close hook runs and Deliver returns (nil, nil). On a read or
// write failure the error formatter's message, if any, is written once before
// dst is ended and the error is returned.
//
// Any other dst, nil included, gets a 200 *http.Response with the same headers
// whose Body reads from body.
//
// Ending dst calls End() error when dst has it, else Close, else a final flush.
func Deliver(ctx context.Context, body io.Reader, dst any, opts ...Option) (*http.Response, error) {
	if body == nil || body == http.NoBody {
		return nil, ErrMissingBody
	}
	o := applyOptions(opts)

	sink, ok := dst.(Sink)
	if !ok {
		return pullResponse(body), nil
	}

	SetHeaders(sink.Header())
	if closer, ok := body.(io.Closer); ok {
		defer utils.CloseWithLog(closer)
	}

	err := pump(ctx, body, sink)
	if err != nil {
		o.logger.Warn("sse: delivery failed", "error", err.Error())
		if o.errorFormatter != nil {
			if _, writeErr := io.WriteString(sink, o.errorFormatter(err)); writeErr == nil {
				flush(sink)
			}
		}
		if endErr := end(sink); endErr != nil {
			return nil, errors.Join(err, endErr)
		}
		return nil, err
	}

	if err := end(sink); err != nil {
		return nil, fmt.Errorf("sse: end destination: %w", err)
	}
	if o.onClose != nil {
		o.onClose()
	}
	return nil, nil
}

func pullResponse(body io.Reader) *http.Response {
	rc, ok := body.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(body)
	}
	header := make(http.Header)
	SetHeaders(header)
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          rc,
		ContentLength: -1,
	}
}

func pump(ctx context.Context, body io.Reader, sink Sink) error {
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrStreamAborted, context.Cause(ctx))
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := sink.Write(buf[:n]); err != nil {
				return fmt.Errorf("sse: write: %w", err)
			}
			flush(sink)
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("sse: read: %w", readErr)
		}
	}
}

func flush(sink Sink) {
	if w, ok := sink.(http.ResponseWriter); ok {
		// ErrNotSupported just means the writer is unbuffered.
		_ = http.NewResponseController(w).Flush()
		return
	}
	if f, ok := sink.(interface{ Flush() }); ok {
		f.Flush()
	}
}

func end(sink Sink) error {
	switch s := sink.(type) {
	case interface{ End() error }:
		return s.End()
	case io.Closer:
		return s.Close()
	default:
		flush(sink)
		return nil
	}
}
