package resolve

import (
	"errors"
	"fmt"
)

// ErrEmptyURL is returned when resolution is asked to start from "".
var ErrEmptyURL = errors.New("resolve: empty URL")

// UnsupportedSchemeError is returned for any URL whose scheme is not http or
// https. No request is made for such a URL.
type UnsupportedSchemeError struct {
	URL    string
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("resolve: unsupported URI scheme %q in %s", e.Scheme, e.URL)
}

// TransportError wraps a network-level failure (refused connection, DNS,
// timeout). The hop is not retried.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("resolve: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedStatusError is returned when a response has neither a Location
// header nor a 200 status, so there is nothing left to follow.
type UnexpectedStatusError struct {
	URL    string
	Code   int
	Reason string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("resolve: non-200 status and no Location header from %s: %d %s", e.URL, e.Code, e.Reason)
}

// MalformedURLError is returned when a URL or redirect target cannot be
// parsed.
type MalformedURLError struct {
	URL string
	Err error
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("resolve: malformed URL %q: %v", e.URL, e.Err)
}

func (e *MalformedURLError) Unwrap() error { return e.Err }
