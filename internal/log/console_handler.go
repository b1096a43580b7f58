package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ConsoleHandler is an slog.Handler that writes human-oriented lines:
//
//	ERROR: readdir /data/locked: permission denied
//	WARN: document skipped path=bad.txt reason=invalid_text
//
// The level is followed by a colon, then the message and the attributes as
// key=value pairs. No timestamp is written.
type ConsoleHandler struct {
	// mu serializes writes to w. Shared by handlers derived via WithAttrs.
	mu *sync.Mutex

	// w receives the formatted lines.
	w io.Writer

	// level is the minimum level written.
	level slog.Leveler

	// attrs are pre-formatted attributes added through WithAttrs.
	attrs string

	// groups is the current group prefix added through WithGroup.
	groups []string
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
// If opts is nil, records at Info level and above are written.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &ConsoleHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as one line and writes it.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Level.String())
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.groups, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, sb.String())
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.groups, a)
	}

	clone := *h
	clone.attrs = sb.String()
	return &clone
}

// WithGroup returns a new handler with the given group name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

// appendAttr writes " key=value", flattening groups into dotted keys.
func appendAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		prefix := groups
		if a.Key != "" {
			prefix = append(slices.Clone(groups), a.Key)
		}
		for _, ga := range attrs {
			appendAttr(sb, prefix, ga)
		}
		return
	}

	sb.WriteByte(' ')
	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value))
}

// formatValue renders a value, quoting strings that contain spaces or quotes.
func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		s = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}

	if s == "" || strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}
