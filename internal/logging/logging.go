package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var levelStyles = map[slog.Level]struct {
	color *color.Color
	label string
}{
	slog.LevelDebug: {color.New(color.FgHiBlack), "DEBUG"},
	slog.LevelInfo:  {color.New(color.FgGreen), "INFO "},
	slog.LevelWarn:  {color.New(color.FgYellow), "WARN "},
	slog.LevelError: {color.New(color.FgRed), "ERROR"},
}

var (
	tagColor = color.New(color.FgCyan)
	keyColor = color.New(color.FgCyan)
	sepColor = color.New(color.FgHiBlack)
)

// PrettyHandler writes one colored line per record.
type PrettyHandler struct {
	out        io.Writer
	level      slog.Leveler
	mu         *sync.Mutex
	timeFormat string
	attrs      []slog.Attr
	group      string
}

// NewPrettyHandler returns a handler writing to out at or above level.
func NewPrettyHandler(out io.Writer, level slog.Leveler, timeFormat string) *PrettyHandler {
	if timeFormat == "" {
		timeFormat = "15:04:05"
	}
	return &PrettyHandler{
		out:        out,
		level:      level,
		mu:         &sync.Mutex{},
		timeFormat: timeFormat,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	style, ok := levelStyles[r.Level]
	if !ok {
		style = levelStyles[slog.LevelInfo]
	}

	var b strings.Builder
	b.WriteString(tagColor.Sprint("[longurl]"))
	if !r.Time.IsZero() {
		b.WriteString(" " + r.Time.Format(h.timeFormat))
	}
	b.WriteString(" " + sepColor.Sprint("|") + " " + style.color.Sprint(style.label) + " " + sepColor.Sprint("|") + " ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", keyColor.Sprint(key), a.Value.Resolve().Any())
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		name = nh.group + "." + name
	}
	nh.group = name
	return &nh
}

// New returns a logger writing colored lines to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewPrettyHandler(w, level, ""))
}

// Level maps the --debug flag to a slog level.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
