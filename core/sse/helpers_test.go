package sse

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// chunkReader returns its chunks one Read at a time, then err (io.EOF by default).
type chunkReader struct {
	chunks [][]byte
	err    error
	reads  int
	closed bool
}

func newChunkReader(chunks ...string) *chunkReader {
	r := &chunkReader{}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func (r *chunkReader) Read(p []byte) (int, error) {
	r.reads++
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	return nil
}

// recordingSink is a Sink that records headers, writes and how it was ended.
type recordingSink struct {
	header   http.Header
	body     bytes.Buffer
	writes   int
	ended    bool
	failAt   int
	writeErr error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{header: make(http.Header)}
}

func (s *recordingSink) Header() http.Header { return s.header }

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.writeErr != nil && s.writes >= s.failAt {
		return 0, s.writeErr
	}
	return s.body.Write(p)
}

func (s *recordingSink) End() error {
	s.ended = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type delta struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}
