// Package logging builds the slog logger used by every command. Records are
// written as a single line "<level>: <message> key=value ...", with the
// level styled the way the rest of the terminal output is.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var attrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, level))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Handler is a slog.Handler producing styled single-line records.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(styleLevel(r.Level))
	b.WriteString(": ")
	b.WriteString(r.Message)

	var attrs []string
	for _, a := range h.attrs {
		attrs = appendAttr(attrs, "", a)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendAttr(attrs, prefix, a)
		return true
	})
	if len(attrs) > 0 {
		b.WriteString(" ")
		b.WriteString(attrStyle.Render(strings.Join(attrs, " ")))
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	prefix := strings.Join(h.groups, ".")
	next.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func styleLevel(level slog.Level) string {
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles[slog.LevelInfo]
	}
	return style.Render(strings.ToLower(level.String()))
}

func appendAttr(out []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return out
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			out = appendAttr(out, key, ga)
		}
		return out
	}
	return append(out, fmt.Sprintf("%s=%v", key, a.Value.Any()))
}
