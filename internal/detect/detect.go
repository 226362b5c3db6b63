package detect

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/selimozcann/longurl/internal/model"
)

var tokenKeys = map[string]bool{
	"token":        true,
	"access_token": true,
	"id_token":     true,
	"code":         true,
	"session":      true,
	"bearer":       true,
}

// Analyze inspects a resolved chain and returns its findings. It never
// changes how the chain was resolved.
func Analyze(c model.Chain) []model.Finding {
	var out []model.Finding
	seen := make(map[string]int)
	for _, h := range c.Hops {
		u, err := url.Parse(h.URL)
		if err != nil {
			continue
		}
		if prev, ok := seen[h.URL]; ok {
			out = append(out, model.Finding{Type: "REVISIT", Severity: "info", AtHop: h.Index, Detail: h.URL + " first seen at hop " + strconv.Itoa(prev)})
		} else {
			seen[h.URL] = h.Index
		}
		if f := InternalHost(u, h.Index); f != nil {
			out = append(out, *f)
		}
		if f := TokenLeakage(u, h.Index); f != nil {
			out = append(out, *f)
		}
		if h.Next == "" {
			continue
		}
		if next, err := url.Parse(h.Next); err == nil {
			if f := HTTPSDowngrade(u, next, h.Index); f != nil {
				out = append(out, *f)
			}
		}
	}
	if c.Truncated {
		out = append(out, model.Finding{Type: "CHAIN_TRUNCATED", Severity: "info", AtHop: len(c.Hops), Detail: "hop limit reached before " + c.FinalURL})
	}
	return out
}

// InternalHost checks whether the URL points to an internal host.
func InternalHost(u *url.URL, hop int) *model.Finding {
	if IsInternalHost(u.Hostname()) {
		return &model.Finding{Type: "INTERNAL_HOST", Severity: "high", AtHop: hop, Detail: u.Host}
	}
	return nil
}

// HTTPSDowngrade reports if the scheme changed from https to http.
func HTTPSDowngrade(prev, next *url.URL, hop int) *model.Finding {
	if strings.EqualFold(prev.Scheme, "https") && strings.EqualFold(next.Scheme, "http") {
		return &model.Finding{Type: "HTTPS_DOWNGRADE", Severity: "medium", AtHop: hop, Detail: prev.String() + " -> " + next.String()}
	}
	return nil
}

// TokenLeakage detects sensitive tokens in query or fragment.
func TokenLeakage(u *url.URL, hop int) *model.Finding {
	q := u.Query()
	for k := range q {
		if tokenKeys[strings.ToLower(k)] {
			return &model.Finding{Type: "TOKEN_LEAK", Severity: "medium", AtHop: hop, Detail: k + " in query"}
		}
	}
	if frag := u.Fragment; frag != "" {
		for _, part := range strings.Split(frag, "&") {
			k, _, _ := strings.Cut(part, "=")
			if tokenKeys[strings.ToLower(k)] {
				return &model.Finding{Type: "TOKEN_LEAK", Severity: "high", AtHop: hop, Detail: k + " in fragment"}
			}
		}
	}
	return nil
}
