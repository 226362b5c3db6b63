package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// PrintBanner writes the ASCII-art title to w.
func PrintBanner(w io.Writer) {
	myFigure := figure.NewColorFigure("LONGURL", "doom", "cyan", true)
	_, _ = io.WriteString(w, myFigure.ColorString()+"\n")

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    Follow short links to where they really go")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
