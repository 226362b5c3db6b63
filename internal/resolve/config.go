package resolve

import (
	"errors"
	"time"
)

const (
	// DefaultUserAgent is sent unless the caller picks another one. It does
	// not pretend to be a browser.
	DefaultUserAgent = "longurl/1.0"

	// BrowserUserAgent mimics desktop Firefox, for shorteners that treat
	// unknown clients differently.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"

	DefaultMaxHops          = 200
	DefaultMaxResponseBytes = 128 << 10
	DefaultTimeout          = 15 * time.Second
)

// Config controls a resolution run.
//
// Config is a value type; the Resolver keeps its own copy, so changing a
// Config after passing it to New has no effect. Zero values mean:
//   - UserAgent: DefaultUserAgent
//   - MaxHops: no hop limit
//   - MaxResponseBytes: DefaultMaxResponseBytes
//   - Timeout: no per-hop deadline beyond the client's own
type Config struct {
	// UserAgent is sent as the User-Agent header on every hop.
	UserAgent string

	// MaxHops stops the walk once this many hops are recorded. The chain
	// is then marked truncated. 0 means unlimited.
	MaxHops int

	// MaxResponseBytes bounds how much of a 200 response body is read
	// when looking for a meta refresh, whatever Content-Length says.
	MaxResponseBytes int64

	// ForcePercentDecode decodes every redirect target once, not only
	// those whose scheme prefix looks encoded.
	ForcePercentDecode bool

	// Timeout bounds each hop's request.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the recommended values:
//   - UserAgent: DefaultUserAgent
//   - MaxHops: 200
//   - MaxResponseBytes: 128 KiB
//   - Timeout: 15s
func DefaultConfig() Config {
	return Config{
		UserAgent:        DefaultUserAgent,
		MaxHops:          DefaultMaxHops,
		MaxResponseBytes: DefaultMaxResponseBytes,
		Timeout:          DefaultTimeout,
	}
}

func (c Config) applyDefaults() Config {
	cfg := c
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	return cfg
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxHops < 0 {
		return errors.New("resolve: MaxHops must be >= 0")
	}
	if c.Timeout < 0 {
		return errors.New("resolve: Timeout must be >= 0")
	}
	return nil
}
