package statuscolor

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fatih/color"
	"github.com/selimozcann/longurl/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
)

func colorFor(status int) *color.Color {
	switch {
	case status == 0:
		return gray
	case status >= 300 && status < 400:
		return green
	case status == http.StatusOK:
		return yellow
	case status >= 400:
		return red
	default:
		return yellow
	}
}

// Sprint returns a colorized status code string.
func Sprint(status int) string {
	if status == 0 {
		return gray.Sprint("—")
	}
	return colorFor(status).Sprint(status)
}

// WrapByStatus wraps the provided text with the color that corresponds to the
// supplied status code.
func WrapByStatus(text string, status int) string {
	return colorFor(status).Sprint(text)
}

// Gray wraps the provided text in gray.
func Gray(text string) string {
	return gray.Sprint(text)
}

// Tag colors a hop tag; meta refresh stands out from header redirects.
func Tag(tag string) string {
	switch tag {
	case "":
		return ""
	case "refresh":
		return cyan.Sprint(tag)
	default:
		return green.Sprint(tag)
	}
}

// PrintHop prints one hop with a color-coded status code.
func PrintHop(w io.Writer, h model.Hop) {
	line := fmt.Sprintf("[%d] %s %s", h.Index, h.URL, Sprint(h.Status))
	if t := h.Tag(); t != "" {
		line += " via " + Tag(t)
		if h.Encoded {
			line += Gray(" (decoded)")
		}
	}
	fmt.Fprintln(w, line)
}

// PrintChain prints a pre-fetched redirect chain with color-coded statuses.
func PrintChain(w io.Writer, c model.Chain) {
	for _, h := range c.Hops {
		PrintHop(w, h)
	}
}
