package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// SafeHandler wraps an slog.Handler and escapes control characters in the
// message and in string attribute values. File names may contain newlines
// or terminal escape sequences; after escaping, one record stays one line.
type SafeHandler struct {
	// handler is the underlying slog handler that receives escaped records.
	handler slog.Handler
}

// NewSafeHandler creates a new SafeHandler wrapping the given handler.
// If handler is nil, the returned SafeHandler will use slog.Default().Handler().
func NewSafeHandler(handler slog.Handler) *SafeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SafeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SafeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle escapes the record's message and attributes and passes it on.
func (h *SafeHandler) Handle(ctx context.Context, r slog.Record) error {
	escaped := slog.NewRecord(r.Time, r.Level, escapeControl(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		escaped.AddAttrs(h.escapeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, escaped)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *SafeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	escaped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		escaped[i] = h.escapeAttr(a)
	}
	return &SafeHandler{handler: h.handler.WithAttrs(escaped)}
}

// WithGroup returns a new handler with the given group name.
func (h *SafeHandler) WithGroup(name string) slog.Handler {
	return &SafeHandler{handler: h.handler.WithGroup(name)}
}

// escapeAttr escapes a single attribute, recursively handling groups.
func (h *SafeHandler) escapeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		escaped := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			escaped[i] = h.escapeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(escaped...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, escapeControl(a.Value.String()))
	}

	return a
}

// escapeControl replaces every control character with its Go escape.
func escapeControl(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}

	var sb strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			quoted := strconv.QuoteRune(r)
			sb.WriteString(quoted[1 : len(quoted)-1])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// level returns the slog level for the verbose flag.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewConsoleLogger creates a logger writing "LEVEL: message key=value" lines.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewConsoleLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := NewConsoleHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewSafeHandler(handler))
}

// NewJSONLogger creates a logger that outputs JSON lines.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewSafeHandler(handler))
}
