// Package metarefresh finds <meta http-equiv="refresh"> redirects in a
// possibly truncated, possibly malformed prefix of an HTML document.
//
// Only start tags are looked at. No DOM is built: the scanner walks the
// token stream produced by golang.org/x/net/html and reacts to each meta tag
// it meets. Input that cannot be tokenized simply yields no result.
package metarefresh

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const urlKey = "url="

// Find returns the redirect target of the last qualifying meta refresh tag
// in prefix. The target is everything after "url=" in the content attribute,
// untouched.
func Find(prefix []byte) (target string, ok bool) {
	defer func() {
		if recover() != nil {
			target, ok = "", false
		}
	}()

	s := &scanner{}
	walkStartTags(bytes.NewReader(prefix), s.onStartTag)
	return s.target, s.found
}

// FindReader reads at most limit bytes from r and scans them. A body that
// ends early is scanned as is; any other read failure is returned.
func FindReader(r io.Reader, limit int64) (target string, ok bool, err error) {
	buf, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}
	target, ok = Find(buf)
	return target, ok, nil
}

type scanner struct {
	target string
	found  bool
}

func (s *scanner) onStartTag(name string, attrs map[string]string) {
	if name != "meta" {
		return
	}
	if attrs["http-equiv"] != "refresh" {
		return
	}
	content := attrs["content"]
	i := strings.Index(strings.ToLower(content), urlKey)
	if i < 0 {
		return
	}
	target := content[i+len(urlKey):]
	if target == "" {
		return
	}
	// Later tags overwrite earlier ones.
	s.target = target
	s.found = true
}

// walkStartTags calls fn for every start tag in r. Tag and attribute names
// are lowercased by the tokenizer; for duplicate attributes the last one wins.
// A tag cut off by the end of input is never reported.
func walkStartTags(r io.Reader, fn func(name string, attrs map[string]string)) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := make(map[string]string)
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			fn(string(name), attrs)
		}
	}
}
