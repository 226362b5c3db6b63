package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HeaderError reports a header flag that is not in "Key: Value" form.
type HeaderError struct {
	Line string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid header %q (expected Key: Value)", e.Line)
}

func splitHeader(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(k)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(v), true
}

// ProxyFunc returns a proxy selector for raw, or nil when raw is empty.
func ProxyFunc(raw string) (func(*http.Request) (*url.URL, error), error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy URL %q: scheme and host required", raw)
	}
	return http.ProxyURL(u), nil
}
