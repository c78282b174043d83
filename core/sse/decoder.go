package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/HamzaKV/ai-sdk/core/parse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
)

const readChunkSize = 32 * 1024

// Decoder reads SSE frames from a byte source and decodes each payload into T.
// It is forward-only: once it has returned io.EOF or an error it keeps
// returning the same result. A Decoder is not safe for concurrent use.
type Decoder[T any] struct {
	src    io.Reader
	closer io.Closer
	opts   options

	chunk   []byte
	pending []byte // incomplete UTF-8 sequence carried to the next read
	buf     []byte // text after the last newline
	lines   []string

	eof     bool
	err     error
	skipped int
	frames  int
}

// NewDecoder returns a Decoder reading from r. A nil r or http.NoBody fails
// with ErrMissingBody before anything is read.
func NewDecoder[T any](r io.Reader, opts ...Option) (*Decoder[T], error) {
	if r == nil || r == http.NoBody {
		return nil, ErrMissingBody
	}

	d := &Decoder[T]{
		src:   r,
		opts:  applyOptions(opts),
		chunk: make([]byte, readChunkSize),
	}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	if d.opts.encoding != nil {
		d.src = transform.NewReader(r, d.opts.encoding.NewDecoder())
	}
	return d, nil
}

// DecodeResponse returns a Decoder over resp.Body. Closing the decoder closes
// the body.
func DecodeResponse[T any](resp *http.Response, opts ...Option) (*Decoder[T], error) {
	if resp == nil || resp.Body == nil {
		return nil, ErrMissingBody
	}
	return NewDecoder[T](resp.Body, opts...)
}

// Next returns the next decoded payload. It returns io.EOF when the stream
// ends normally, either at "[DONE]" or at the end of the input.
func (d *Decoder[T]) Next() (T, error) {
	var zero T
	for {
		if d.err != nil {
			return zero, d.err
		}

		for len(d.lines) > 0 {
			line := d.lines[0]
			d.lines = d.lines[1:]

			value, ok, done := d.decodeLine(line)
			if done {
				d.terminate(io.EOF)
				return zero, io.EOF
			}
			if ok {
				d.frames++
				return value, nil
			}
		}

		if d.eof {
			// An unterminated trailing fragment is never a complete frame.
			d.terminate(io.EOF)
			return zero, io.EOF
		}

		if err := d.fill(); err != nil {
			d.terminate(err)
			return zero, err
		}
	}
}

// All returns an iterator over the remaining payloads. Iteration stops at the
// end of the stream or at the first error, which is yielded once. io.EOF is
// never yielded.
func (d *Decoder[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			value, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}

// Values is All with the payload type erased, for callers that forward
// frames without knowing T.
func (d *Decoder[T]) Values() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for value, err := range d.All() {
			if !yield(value, err) {
				return
			}
		}
	}
}

// Skipped returns how many malformed frames have been dropped so far.
func (d *Decoder[T]) Skipped() int {
	return d.skipped
}

// Frames returns how many payloads have been returned so far.
func (d *Decoder[T]) Frames() int {
	return d.frames
}

// Close stops the decoder and closes the source if it is an io.Closer.
func (d *Decoder[T]) Close() error {
	if d.err == nil {
		d.terminate(io.EOF)
	}
	if d.closer == nil {
		return nil
	}
	closer := d.closer
	d.closer = nil
	return closer.Close()
}

func (d *Decoder[T]) terminate(err error) {
	d.err = err
	d.lines = nil
	d.buf = nil
	d.pending = nil
}

// fill performs one read from the source and queues every complete line.
func (d *Decoder[T]) fill() error {
	if err := d.opts.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamAborted, context.Cause(d.opts.ctx))
	}

	n, err := d.src.Read(d.chunk)
	if n > 0 {
		d.consume(d.chunk[:n])
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		d.eof = true
		if len(d.pending) > 0 {
			d.append(d.pending)
			d.pending = nil
		}
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
}

func (d *Decoder[T]) consume(b []byte) {
	data := b
	if len(d.pending) > 0 {
		data = append(d.pending, b...)
		d.pending = nil
	}

	complete, rest := splitIncompleteRune(data)
	if len(rest) > 0 {
		d.pending = append([]byte(nil), rest...)
	}
	if len(complete) > 0 {
		d.append(complete)
	}
}

func (d *Decoder[T]) append(text []byte) {
	if d.opts.onRawChunk != nil {
		d.opts.onRawChunk(string(text))
	}
	d.buf = append(d.buf, text...)

	last := bytes.LastIndexByte(d.buf, '\n')
	if last < 0 {
		return
	}
	for line := range strings.SplitSeq(string(d.buf[:last]), "\n") {
		d.lines = append(d.lines, line)
	}
	d.buf = append(d.buf[:0], d.buf[last+1:]...)
}

// decodeLine reports ok when line carried a payload and done on "[DONE]".
func (d *Decoder[T]) decodeLine(line string) (value T, ok, done bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, d.opts.prefix) {
		return value, false, false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, d.opts.prefix))
	if payload == DoneToken {
		return value, false, true
	}
	if payload == "" {
		return value, false, false
	}

	err := json.Unmarshal([]byte(payload), &value)
	if err == nil {
		return value, true, false
	}

	if d.opts.repair {
		if repaired, repairErr := parse.Repair(payload); repairErr == nil {
			var fixed T
			if json.Unmarshal([]byte(repaired), &fixed) == nil {
				return fixed, true, false
			}
		}
	}

	d.skipped++
	d.opts.logger.Warn("sse: skipping malformed frame",
		"error", err.Error(),
		"payload", utils.TruncateString(payload, 200),
	)
	var zero T
	return zero, false, false
}

// splitIncompleteRune separates a trailing, not yet complete UTF-8 sequence
// from b. Invalid bytes are left in place.
func splitIncompleteRune(b []byte) (complete, rest []byte) {
	// A UTF-8 sequence is at most utf8.UTFMax bytes long.
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b, nil
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[len(b)-i:]) {
				return b, nil
			}
			return b[:len(b)-i], b[len(b)-i:]
		}
	}
	return b, nil
}
