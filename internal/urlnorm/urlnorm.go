// Package urlnorm holds the small URL rewrites applied between hops.
package urlnorm

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/selimozcann/longurl/internal/model"
	"golang.org/x/net/publicsuffix"
)

var (
	schemeRe  = regexp.MustCompile(`^[^?#:]+://`)
	encodedRe = regexp.MustCompile(`(?i)^https?%3A%2F%2F`)
)

// HasScheme reports whether raw starts with "scheme://".
func HasScheme(raw string) bool {
	return schemeRe.MatchString(raw)
}

// EnsureScheme prefixes http:// when raw has no scheme.
func EnsureScheme(raw string) string {
	if HasScheme(raw) {
		return raw
	}
	return "http://" + raw
}

// LooksEncoded reports whether raw begins with a percent-encoded
// http:// or https:// prefix.
func LooksEncoded(raw string) bool {
	return encodedRe.MatchString(raw)
}

// Decode percent-decodes raw once. "+" is left alone. Input with an invalid
// escape sequence is returned unchanged.
func Decode(raw string) string {
	s, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return s
}

// EscapeSpaces replaces literal spaces with %20. Nothing else is encoded.
func EscapeSpaces(raw string) string {
	return strings.ReplaceAll(raw, " ", "%20")
}

// Classify tells whether a redirect target is a full URL, an absolute path
// or a path relative to the current document.
func Classify(target string) model.Form {
	switch {
	case HasScheme(target):
		return model.FormURL
	case strings.HasPrefix(target, "/"):
		return model.FormAbsolute
	default:
		return model.FormRelative
	}
}

// Host returns the lowercased host of raw without its port.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// FinalDomain returns the host of raw with a leading "www." removed, as long
// as what remains still has a dot in it ("www.com" stays as is).
func FinalDomain(raw string) string {
	return StripWWW(Host(raw))
}

// StripWWW drops a leading "www." label when the remainder keeps a dot.
func StripWWW(host string) string {
	rest, ok := strings.CutPrefix(host, "www.")
	if !ok || !strings.Contains(rest, ".") {
		return host
	}
	return rest
}

// RegisteredDomain returns the eTLD+1 of raw's host, or "" for hosts that
// have none (IP literals, bare public suffixes, localhost).
func RegisteredDomain(raw string) string {
	host := Host(raw)
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}
