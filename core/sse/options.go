package sse

import (
	"context"
	"log/slog"

	"golang.org/x/text/encoding"
)

const (
	// DefaultPrefix is the field name every frame starts with.
	DefaultPrefix = "data:"

	// DoneToken is the payload that terminates a stream.
	DoneToken = "[DONE]"
)

// Option configures a Decoder, a Stream or Deliver. Options that do not apply
// to the receiving operation are ignored.
type Option func(*options)

type options struct {
	prefix         string
	onRawChunk     func(string)
	ctx            context.Context
	encoding       encoding.Encoding
	logger         *slog.Logger
	repair         bool
	errorFormatter func(error) string
	onClose        func()
}

func applyOptions(opts []Option) options {
	o := options{
		prefix: DefaultPrefix,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithPrefix sets the frame prefix. Decoders only accept lines starting with
// it; streams write it in front of every payload. Default "data:".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithRawChunkHook is called by the decoder with each decoded chunk of text,
// before it is split into lines.
func WithRawChunkHook(fn func(chunk string)) Option {
	return func(o *options) {
		o.onRawChunk = fn
	}
}

// WithContext sets the decoder's cancellation signal. It is checked before
// every read from the underlying reader.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithEncoding decodes the byte stream with enc instead of treating it as UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		o.encoding = enc
	}
}

// WithLogger sets the logger used for malformed frames and producer failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepair makes the decoder attempt a JSON repair on malformed frames
// before skipping them.
func WithRepair(enabled bool) Option {
	return func(o *options) {
		o.repair = enabled
	}
}

// WithErrorFormatter sets the message written when a producer or delivery
// fails. Streams wrap it as {"error": msg}; Deliver writes it verbatim.
func WithErrorFormatter(fn func(error) string) Option {
	return func(o *options) {
		o.errorFormatter = fn
	}
}

// WithCloseHook is called by Deliver after a stream was fully pushed.
func WithCloseHook(fn func()) Option {
	return func(o *options) {
		o.onClose = fn
	}
}
