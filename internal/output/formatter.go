package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/selimozcann/longurl/internal/model"
)

// DefaultColumns is the summary width when the terminal size is unknown.
const DefaultColumns = 80

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
)

var severityColors = map[string]*color.Color{
	"high":   errColor,
	"medium": warnColor,
	"low":    color.New(color.FgCyan),
	"info":   color.New(color.FgHiBlack),
}

// truncate keeps the first columns-19 bytes of a URL, which leaves room
// for the line label on a terminal of the given width.
func truncate(u string, columns int) string {
	n := columns - 19
	if n <= 0 || len(u) <= n {
		return u
	}
	return u[:n]
}

// SummaryLine returns the summary entry for one hop, or "" for hops that
// do not get one (final hops and Location targets carrying a full URL).
func SummaryLine(h model.Hop, columns int) string {
	var label string
	switch {
	case h.Kind == model.KindMetaRefresh:
		label = "meta refresh from  "
	case h.Kind == model.KindHeader && h.Form == model.FormAbsolute:
		label = "absolute path from "
	case h.Kind == model.KindHeader && h.Form == model.FormRelative:
		label = "relative path from "
	default:
		return ""
	}
	return label + truncate(h.URL, columns)
}

// WriteSummary prints the end-of-run summary: one line per scheme-less or
// meta refresh redirect, the redirect count, the final domain, and any
// truncation notice, error or findings.
func WriteSummary(w io.Writer, c model.Chain, err error, columns int) {
	var b strings.Builder
	b.WriteString("\n")
	for _, h := range c.Hops {
		if line := SummaryLine(h, columns); line != "" {
			b.WriteString(line + "\n")
		}
	}
	fmt.Fprintf(&b, "total redirects: %d\n", c.Redirects())
	if err == nil && c.FinalDomain != "" {
		b.WriteString("final domain: " + okColor.Sprint(c.FinalDomain) + "\n")
	}
	if c.Truncated {
		b.WriteString(warnColor.Sprintf("[!] hop limit reached after %d hops; next would be %s", len(c.Hops), truncate(c.FinalURL, columns)) + "\n")
	}
	if len(c.Findings) > 0 {
		b.WriteString("findings:\n")
		for _, f := range c.Findings {
			sev, ok := severityColors[f.Severity]
			if !ok {
				sev = severityColors["info"]
			}
			fmt.Fprintf(&b, "  %s %s at hop %d: %s\n", sev.Sprintf("[%s]", f.Severity), f.Type, f.AtHop, f.Detail)
		}
	}
	_, _ = io.WriteString(w, b.String())
}

// PrintScanHeader announces a target in batch output.
func PrintScanHeader(w io.Writer, target string) {
	fmt.Fprintf(w, "\n[+] Resolving: %s\n", target)
}

// PrintFinalURL reports where a chain ended.
func PrintFinalURL(w io.Writer, c model.Chain) {
	fmt.Fprintln(w, okColor.Sprintf("  ✔ %s (%d redirects)", c.FinalURL, c.Redirects()))
}

// PrintError reports a failed resolution.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errColor.Sprintf("[-] Error: %v", err))
}

// PrintResult prints a batch result: the header, then the final URL or
// the error, then any findings.
func PrintResult(w io.Writer, target string, c model.Chain, err error) {
	PrintScanHeader(w, target)
	if err != nil {
		PrintError(w, err)
	} else {
		PrintFinalURL(w, c)
	}
	for _, f := range c.Findings {
		fmt.Fprintln(w, warnColor.Sprintf("  [!] %s at hop %d: %s", f.Type, f.AtHop, f.Detail))
	}
}
