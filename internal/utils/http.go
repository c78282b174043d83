package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/HamzaKV/ai-sdk/providers/observability"
)

// maxErrorBodySize caps how much of a non-2xx body is kept in an APIError.
const maxErrorBodySize int64 = 1 << 20

// Request describes one HTTP round trip to a provider API.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent as JSON. []byte, json.RawMessage and io.Reader values are
	// sent as-is. A nil Body sends no payload.
	Body any
	// Timeout bounds the whole exchange. For raw responses it stays armed
	// until the response body is closed.
	Timeout time.Duration
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error: status %d", e.StatusCode)
	if e.RequestID != "" {
		msg += " (request " + e.RequestID + ")"
	}
	if e.Body != "" {
		msg += ": " + TruncateString(e.Body, DefaultMaxStringLength)
	}
	return msg
}

// Do performs req. With parseJSON the body is read, closed and decoded into a
// generic value (map[string]any, []any, ...) returned as the first result.
// Otherwise the response is returned with its body open and the caller owns it.
func Do(ctx context.Context, client *http.Client, req Request, parseJSON bool) (any, *http.Response, error) {
	if !parseJSON {
		resp, err := DoRaw(ctx, client, req)
		return nil, resp, err
	}
	var out any
	resp, err := doJSON(ctx, client, req, &out)
	return out, resp, err
}

// DoJSON performs req and decodes the response body into T.
func DoJSON[T any](ctx context.Context, client *http.Client, req Request) (T, error) {
	var out T
	_, err := doJSON(ctx, client, req, &out)
	return out, err
}

// DoRaw performs req and returns the response with its body open, for
// streaming consumption. Non-2xx responses are drained, closed and reported as
// *APIError.
func DoRaw(ctx context.Context, client *http.Client, req Request) (*http.Response, error) {
	resp, cancel, err := send(ctx, client, req)
	if err != nil {
		return resp, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func doJSON(ctx context.Context, client *http.Client, req Request, out any) (*http.Response, error) {
	resp, cancel, err := send(ctx, client, req)
	if err != nil {
		return resp, err
	}
	defer cancel()
	defer CloseWithLog(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("read response body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp, fmt.Errorf("unmarshal response (status %d): %w\nResponse preview: %s",
			resp.StatusCode, err, TruncateString(string(body), DefaultMaxStringLength))
	}
	return resp, nil
}

// send issues the request. On success the returned cancel func must be called
// once the body is no longer needed.
func send(ctx context.Context, client *http.Client, r Request) (*http.Response, context.CancelFunc, error) {
	span := observability.SpanFromContext(ctx)

	if client == nil {
		client = http.DefaultClient
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	body, isJSON, err := encodeBody(r.Body)
	if err != nil {
		return nil, nil, err
	}

	cancel := context.CancelFunc(func() {})
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/event-stream")
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, method),
			observability.String(observability.AttrHTTPURL, r.URL),
		)
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		cancel()
		if span != nil {
			span.AddEvent("http.request.error", observability.Error(err), observability.Duration("http.request.duration", elapsed))
		}
		return nil, nil, fmt.Errorf("send %s %s: %w", method, r.URL, err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
			observability.Duration("http.request.duration", elapsed),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer CloseWithLog(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID(resp.Header)}
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		if readErr != nil {
			return resp, nil, errors.Join(apiErr, fmt.Errorf("read error body: %w", readErr))
		}
		apiErr.Body = string(errBody)
		return resp, nil, apiErr
	}

	return resp, cancel, nil
}

func encodeBody(body any) (io.Reader, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case io.Reader:
		return b, true, nil
	case json.RawMessage:
		return bytes.NewReader(b), true, nil
	case []byte:
		return bytes.NewReader(b), true, nil
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("marshal request body: %w", err)
	}
	return bytes.NewReader(encoded), true, nil
}

func requestID(h http.Header) string {
	for _, key := range []string{"X-Request-Id", "Request-Id"} {
		if id := h.Get(key); id != "" {
			return id
		}
	}
	return ""
}

// CloseWithLog closes c and logs a failure at warn level.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close", "error", err.Error())
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
