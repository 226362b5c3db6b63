package model

import "time"

// Kind says how a hop expressed its redirect, if at all.
type Kind string

const (
	KindNone        Kind = "none"
	KindHeader      Kind = "header"
	KindMetaRefresh Kind = "meta-refresh"
)

// Form classifies the shape of a redirect target as the server sent it.
type Form string

const (
	FormNone     Form = ""
	FormURL      Form = "url"      // carries its own scheme
	FormAbsolute Form = "absolute" // starts with "/"
	FormRelative Form = "relative"
)

// IsAbsolute reports whether the target replaces the path outright.
func (f Form) IsAbsolute() bool {
	return f == FormURL || f == FormAbsolute
}

// Hop represents a single step in a redirect chain.
type Hop struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Status  int    `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Kind    Kind   `json:"kind"`
	Target  string `json:"target,omitempty"`
	Form    Form   `json:"form,omitempty"`
	Encoded bool   `json:"encoded,omitempty"`
	Next    string `json:"next,omitempty"`
	TimeMs  int64  `json:"time_ms"`
}

// Redirected reports whether the hop pointed somewhere else.
func (h Hop) Redirected() bool { return h.Kind != KindNone && h.Kind != "" }

// Tag is the short label used in summaries: "refresh" for meta refresh,
// "absolute" or "relative" for scheme-less Location targets and "header"
// for Location targets that carry a full URL.
func (h Hop) Tag() string {
	switch h.Kind {
	case KindMetaRefresh:
		return "refresh"
	case KindHeader:
		if h.Form == FormURL {
			return "header"
		}
		return string(h.Form)
	default:
		return ""
	}
}

// Finding represents something noteworthy discovered in a redirect chain.
// Severity uses an info/low/medium/high scale for quick triage.
type Finding struct {
	Type     string `json:"type"`
	AtHop    int    `json:"at_hop"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// Chain is the complete record of one resolution run.
type Chain struct {
	Start            string    `json:"start"`
	Hops             []Hop     `json:"hops"`
	FinalURL         string    `json:"final_url"`
	FinalDomain      string    `json:"final_domain"`
	RegisteredDomain string    `json:"registered_domain,omitempty"`
	Truncated        bool      `json:"truncated,omitempty"`
	Findings         []Finding `json:"findings,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	DurationMs       int64     `json:"duration_ms"`
}

// Redirects counts the hops that led somewhere else.
func (c Chain) Redirects() int {
	n := 0
	for _, h := range c.Hops {
		if h.Redirected() {
			n++
		}
	}
	return n
}

// URLs returns the request URL of every hop, in order.
func (c Chain) URLs() []string {
	out := make([]string, len(c.Hops))
	for i, h := range c.Hops {
		out[i] = h.URL
	}
	return out
}

// Last returns the most recent hop, if any.
func (c Chain) Last() (Hop, bool) {
	if len(c.Hops) == 0 {
		return Hop{}, false
	}
	return c.Hops[len(c.Hops)-1], true
}
