package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Config holds settings for the HTTP client.
type Config struct {
	Timeout  time.Duration
	Proxy    func(*http.Request) (*url.URL, error)
	Headers  http.Header
	Insecure bool
}

// headerRoundTripper wraps a base RoundTripper to inject extra headers.
// Headers already set on the request are replaced.
type headerRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(h.headers) == 0 {
		return h.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	for k, vs := range h.headers {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return h.base.RoundTrip(r)
}

// New returns a configured HTTP client that never follows redirects on its
// own; every 3xx response is handed back to the caller as is.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		// Each hop is a fresh look at the server.
		DisableKeepAlives: true,
	}

	return &http.Client{
		Transport: &headerRoundTripper{
			base:    transport,
			headers: cfg.Headers,
		},
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// ParseHeaders turns "Key: Value" strings into an http.Header.
func ParseHeaders(lines []string) (http.Header, error) {
	hdr := make(http.Header)
	for _, h := range lines {
		key, value, ok := splitHeader(h)
		if !ok {
			return nil, &HeaderError{Line: h}
		}
		hdr.Add(key, value)
	}
	return hdr, nil
}
