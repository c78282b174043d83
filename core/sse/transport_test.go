package sse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertEventStreamHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "text/event-stream", h.Get("Content-Type"))
	assert.Equal(t, "no-cache", h.Get("Cache-Control"))
	assert.Equal(t, "keep-alive", h.Get("Connection"))
}

// ========== Push path ==========

func TestDeliver_PushesIntoResponseWriter(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, w *Writer) error {
		return w.WriteData(delta{Index: 1})
	})
	rec := httptest.NewRecorder()
	closed := false

	resp, err := Deliver(context.Background(), s, rec, WithCloseHook(func() { closed = true }))
	require.NoError(t, err)
	assert.Nil(t, resp)

	assertEventStreamHeaders(t, rec.Header())
	assert.True(t, rec.Flushed)
	assert.Equal(t, "data: {\"index\":1,\"text\":\"\"}\n\ndata: [DONE]\n\n", rec.Body.String())
	assert.True(t, closed)
}

func TestDeliver_EndsSinkWithEnd(t *testing.T) {
	sink := newRecordingSink()
	_, err := Deliver(context.Background(), strings.NewReader("data: [DONE]\n\n"), sink)
	require.NoError(t, err)

	assert.True(t, sink.ended)
	assertEventStreamHeaders(t, sink.header)
	assert.Equal(t, "data: [DONE]\n\n", sink.body.String())
}

func TestDeliver_ReadFailureWritesFormattedErrorOnce(t *testing.T) {
	src := newChunkReader("data: {\"index\":1}\n\n")
	src.err = errors.New("upstream reset")
	sink := newRecordingSink()
	hookCalled := false

	_, err := Deliver(context.Background(), src, sink,
		WithErrorFormatter(func(err error) string { return "event: error\n\n" }),
		WithCloseHook(func() { hookCalled = true }),
		WithLogger(discardLogger()),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream reset")
	assert.Equal(t, "data: {\"index\":1}\n\nevent: error\n\n", sink.body.String())
	assert.True(t, sink.ended)
	assert.False(t, hookCalled, "close hook only runs on success")
	assert.True(t, src.closed)
}

func TestDeliver_WriteFailureEndsSink(t *testing.T) {
	sink := newRecordingSink()
	sink.writeErr = errors.New("client gone")
	sink.failAt = 1

	_, err := Deliver(context.Background(), strings.NewReader("data: [DONE]\n\n"), sink, WithLogger(discardLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, sink.writeErr)
	assert.True(t, sink.ended)
}

func TestDeliver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := newRecordingSink()

	_, err := Deliver(ctx, strings.NewReader("data: [DONE]\n\n"), sink, WithLogger(discardLogger()))
	assert.ErrorIs(t, err, ErrStreamAborted)
	assert.Zero(t, sink.body.Len())
	assert.True(t, sink.ended)
}

func TestDeliver_MissingBody(t *testing.T) {
	_, err := Deliver(context.Background(), nil, newRecordingSink())
	assert.ErrorIs(t, err, ErrMissingBody)
}

// ========== Pull path ==========

func TestDeliver_PullResponse(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, w *Writer) error {
		return w.WriteData(delta{Index: 3})
	})

	resp, err := Deliver(context.Background(), s, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertEventStreamHeaders(t, resp.Header)

	d, err := DecodeResponse[delta](resp)
	require.NoError(t, err)
	assert.Equal(t, []delta{{Index: 3}}, collect(t, d))
}

func TestDeliver_PullWrapsPlainReader(t *testing.T) {
	resp, err := Deliver(context.Background(), strings.NewReader("data: [DONE]\n\n"), struct{}{})
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: [DONE]\n\n", string(body))
	assert.NoError(t, resp.Body.Close())
}

func TestDeliver_OverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := NewStream(r.Context(), func(ctx context.Context, sw *Writer) error {
			for i := 1; i <= 3; i++ {
				if err := sw.WriteData(delta{Index: i}); err != nil {
					return err
				}
			}
			return nil
		})
		if _, err := Deliver(r.Context(), s, w); err != nil {
			t.Errorf("deliver: %v", err)
		}
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	d, err := DecodeResponse[delta](resp)
	require.NoError(t, err)
	assert.Equal(t, []delta{{Index: 1}, {Index: 2}, {Index: 3}}, collect(t, d))
}
