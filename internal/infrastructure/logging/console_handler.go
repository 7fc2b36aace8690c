package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[90m"
)

// ConsoleHandler is a slog.Handler producing compact single-line
// output:
//
//	15:04:05 [INFO] [scope] message key=value key=value
//
// Colors are applied only when the writer is a terminal.
type ConsoleHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	scope string
	color bool
	attrs []slog.Attr
}

// NewConsoleHandler creates a console handler writing to w.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: slog.LevelInfo,
		color: writerIsTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

func writerIsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given
// level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if h.color {
		b.WriteString(ansiDim)
	}
	b.WriteString(r.Time.Format("15:04:05"))
	if h.color {
		b.WriteString(ansiReset)
	}

	b.WriteString(" ")
	if h.color {
		b.WriteString(levelTint(r.Level))
	}
	b.WriteString("[")
	b.WriteString(levelTag(r.Level))
	b.WriteString("]")
	if h.color {
		b.WriteString(ansiReset)
	}

	if h.scope != "" {
		b.WriteString(" [")
		b.WriteString(h.scope)
		b.WriteString("]")
	}

	b.WriteString(" ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})

	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write([]byte(b.String()))
	return err
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Key == "scope" {
		// Shown in the bracket prefix instead
		return
	}
	b.WriteString(" ")
	b.WriteString(a.Key)
	b.WriteString("=")
	b.WriteString(fmt.Sprint(a.Value.Any()))
}

// WithAttrs returns a new handler carrying the given attributes. A
// "scope" attribute moves into the bracket prefix.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if a.Key == "scope" {
			clone.scope = a.Value.String()
			continue
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup is accepted but groups are not rendered in the line
// format.
func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	return h
}

func levelTint(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiCyan
	}
	return ansiDim
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
