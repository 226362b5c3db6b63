package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/selimozcann/longurl/internal/resolve"
)

// Environment keys read by Load.
const (
	EnvUserAgent   = "LONGURL_USER_AGENT"
	EnvMaxHops     = "LONGURL_MAX_HOPS"
	EnvMaxBytes    = "LONGURL_MAX_BYTES"
	EnvTimeout     = "LONGURL_TIMEOUT"
	EnvProxy       = "LONGURL_PROXY"
	EnvForceDecode = "LONGURL_FORCE_DECODE"
	EnvAddr        = "LONGURL_ADDR"
)

const DefaultAddr = ":8080"

// Settings are the CLI defaults before flags are applied.
type Settings struct {
	Resolve resolve.Config
	Proxy   string
	Addr    string
}

// Load reads an optional .env file from the given paths (".env" when none
// are given) and then the process environment. A missing file is not an
// error. Variables already set in the environment take precedence over the
// file.
func Load(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds Settings from a lookup function, starting from the
// resolver defaults.
func FromEnv(lookup func(string) (string, bool)) (Settings, error) {
	s := Settings{
		Resolve: resolve.DefaultConfig(),
		Addr:    DefaultAddr,
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		s.Resolve.UserAgent = v
	}
	if v, ok := lookup(EnvMaxHops); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvMaxHops, err)
		}
		s.Resolve.MaxHops = n
	}
	if v, ok := lookup(EnvMaxBytes); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvMaxBytes, err)
		}
		s.Resolve.MaxResponseBytes = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.Resolve.Timeout = d
	}
	if v, ok := lookup(EnvForceDecode); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvForceDecode, err)
		}
		s.Resolve.ForcePercentDecode = b
	}
	if v, ok := lookup(EnvProxy); ok {
		s.Proxy = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		s.Addr = v
	}
	if err := s.Resolve.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
