package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// NewHandler returns a slog.Handler for format writing to output at level.
// FormatJSON and FormatText use the slog handlers; FormatCompact uses
// [CompactHandler].
func NewHandler(format Format, level slog.Leveler, output io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(output, opts)
	case FormatText:
		return slog.NewTextHandler(output, opts)
	default:
		return NewCompactHandler(output, level)
	}
}

// replaceLevel renders LevelTrace as TRACE instead of DEBUG-4.
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelString(level))
		}
	}
	return a
}

// CompactHandler writes one line per record:
//
//	2006-01-02 15:04:05 LEVEL message {"key":"value"}
type CompactHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewCompactHandler creates a CompactHandler.
func NewCompactHandler(out io.Writer, level slog.Leveler) *CompactHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CompactHandler{mu: &sync.Mutex{}, out: out, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record.
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addAttr(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})

	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format(time.DateTime))
	buf.WriteByte(' ')
	buf.WriteString(levelString(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	if len(fields) > 0 {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		buf.WriteByte(' ')
		buf.Write(encoded)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &clone
}

// WithGroup returns a new handler that prefixes later keys with name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func addAttr(fields map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, inner := range a.Value.Group() {
			addAttr(fields, prefix+a.Key+".", inner)
		}
		return
	}
	switch v := a.Value.Any().(type) {
	case error:
		fields[prefix+a.Key] = v.Error()
	case time.Duration:
		fields[prefix+a.Key] = v.String()
	default:
		fields[prefix+a.Key] = v
	}
}

func levelString(level slog.Level) string {
	if level < slog.LevelDebug {
		return "TRACE"
	}
	return level.String()
}
