package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"
)

// Stream is the readable side of an encoded event stream. Reads block until
// the producer writes the next frame.
type Stream struct {
	pr     *io.PipeReader
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStream starts execute in its own goroutine and returns the stream of
// frames it writes. execute runs exactly once. When it returns nil a single
// "[DONE]" frame is written; when it returns an error or panics, an
// {"error": msg} frame is written first. The stream is always closed
// afterwards.
//
// Writes block until the reader consumes them. Closing the Stream cancels the
// ctx passed to execute and makes pending and later writes fail with
// ErrStreamClosed.
func NewStream(ctx context.Context, execute func(ctx context.Context, w *Writer) error, opts ...Option) *Stream {
	o := applyOptions(opts)
	format := o.errorFormatter
	if format == nil {
		format = defaultErrorMessage
	}

	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	s := &Stream{pr: pr, cancel: cancel, done: make(chan struct{})}
	w := &Writer{pw: pw, prefix: o.prefix}

	go func() {
		defer close(s.done)
		defer cancel()

		err := runProducer(ctx, execute, w)
		if err != nil {
			o.logger.Warn("sse: stream producer failed", "error", err.Error())
			// Best effort: the reader may already be gone.
			_ = w.WriteData(map[string]string{"error": format(err)})
		}
		w.finish()
	}()

	return s
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

// Close stops the stream. The producer observes a cancelled context and its
// writes fail from now on.
func (s *Stream) Close() error {
	s.cancel()
	return s.pr.Close()
}

// Done is closed once the producer has returned and the stream is terminated.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func runProducer(ctx context.Context, execute func(context.Context, *Writer) error, w *Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()
	if execute == nil {
		return nil
	}
	return execute(ctx, w)
}

func defaultErrorMessage(err error) string {
	return "Stream error: " + err.Error()
}

// Writer emits frames into a Stream. It is safe for concurrent use; frames are
// never interleaved.
type Writer struct {
	mu     sync.Mutex
	pw     *io.PipeWriter
	prefix string
	closed bool
}

// WriteData serializes v as JSON and writes it as one data frame.
func (w *Writer) WriteData(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: marshal frame: %w", err)
	}
	return w.writeFrame(payload)
}

// WriteMessageAnnotation writes record wrapped as {"annotation": record}.
func (w *Writer) WriteMessageAnnotation(record map[string]any) error {
	return w.WriteData(map[string]any{"annotation": record})
}

func (w *Writer) writeFrame(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrStreamClosed
	}

	frame := make([]byte, 0, len(w.prefix)+len(payload)+3)
	frame = append(frame, w.prefix...)
	frame = append(frame, ' ')
	frame = append(frame, payload...)
	frame = append(frame, '\n', '\n')

	if _, err := w.pw.Write(frame); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamClosed, err)
	}
	return nil
}

// finish writes the terminal frame and closes the pipe. Later writes fail.
func (w *Writer) finish() {
	_ = w.writeFrame([]byte(DoneToken))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	_ = w.pw.Close()
}

// Merge drains seq into w in order. The first error from seq or from a write
// stops the merge and is returned.
func Merge[T any](w *Writer, seq iter.Seq2[T, error]) error {
	for value, err := range seq {
		if err != nil {
			return err
		}
		if err := w.WriteData(value); err != nil {
			return err
		}
	}
	return nil
}

// IsClosed reports whether err means the stream's reader went away.
func IsClosed(err error) bool {
	return errors.Is(err, ErrStreamClosed) || errors.Is(err, io.ErrClosedPipe)
}
