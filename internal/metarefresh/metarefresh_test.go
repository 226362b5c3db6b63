package metarefresh

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   string
		wantOK bool
	}{
		{
			name:   "basic",
			html:   `<html><head><meta http-equiv="refresh" content="0;url=http://dest.example/"></head></html>`,
			want:   "http://dest.example/",
			wantOK: true,
		},
		{
			name:   "uppercase tag and attribute names",
			html:   `<META HTTP-EQUIV="refresh" CONTENT="5; URL=/next">`,
			want:   "/next",
			wantOK: true,
		},
		{
			name:   "self closing",
			html:   `<meta http-equiv="refresh" content="0;url=/x" />`,
			want:   "/x",
			wantOK: true,
		},
		{
			name:   "unquoted attributes",
			html:   `<meta http-equiv=refresh content=0;url=/unquoted>`,
			want:   "/unquoted",
			wantOK: true,
		},
		{
			name:   "target taken verbatim",
			html:   `<meta http-equiv="refresh" content="0; url='http://a.example/ b'">`,
			want:   "'http://a.example/ b'",
			wantOK: true,
		},
		{
			name:   "entities in attribute are decoded",
			html:   `<meta http-equiv="refresh" content="0;url=/a?x=1&amp;y=2">`,
			want:   "/a?x=1&y=2",
			wantOK: true,
		},
		{
			name: "http-equiv value is case sensitive",
			html: `<meta http-equiv="Refresh" content="0;url=/x">`,
		},
		{
			name: "no url in content",
			html: `<meta http-equiv="refresh" content="30">`,
		},
		{
			name: "other meta tags ignored",
			html: `<meta charset="utf-8"><meta name="description" content="url=/nope">`,
		},
		{
			name: "commented out tag ignored",
			html: `<!-- <meta http-equiv="refresh" content="0;url=/x"> --><p>hi</p>`,
		},
		{
			name:   "last qualifying tag wins",
			html:   `<meta http-equiv="refresh" content="0;url=/first"><meta http-equiv="refresh" content="0;url=/second">`,
			want:   "/second",
			wantOK: true,
		},
		{
			name:   "duplicate attribute last wins",
			html:   `<meta http-equiv="refresh" content="0;url=/a" content="0;url=/b">`,
			want:   "/b",
			wantOK: true,
		},
		{
			name: "truncated mid tag",
			html: `<html><head><meta http-equiv="refresh" content="0;url=http://dest.exa`,
		},
		{
			name:   "truncated after a complete tag",
			html:   `<meta http-equiv="refresh" content="0;url=/kept"><meta http-equiv="refresh" content="0;url=/lo`,
			want:   "/kept",
			wantOK: true,
		},
		{
			name: "unterminated meta",
			html: `<meta http-equiv="refresh" content="0;url=/x"`,
		},
		{
			name: "binary garbage",
			html: "\x00\xff\xfe<\x01meta\x00 http-equiv=\x02\x89PNG\r\n\x1a\n<<<>>>",
		},
		{
			name: "empty",
			html: "",
		},
		{
			name: "nothing after url=",
			html: `<meta http-equiv="refresh" content="0;url=">`,
		},
		{
			name:   "empty target does not replace an earlier one",
			html:   `<meta http-equiv="refresh" content="0;url=/first"><meta http-equiv="refresh" content="0; URL=">`,
			want:   "/first",
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Find([]byte(tt.html))
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFindReaderBounded(t *testing.T) {
	page := strings.Repeat("<p>filler</p>", 100) + `<meta http-equiv="refresh" content="0;url=/late">`

	r := strings.NewReader(page)
	_, ok, err := FindReader(r, 64)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, len(page)-64, r.Len())

	got, ok, err := FindReader(strings.NewReader(page), int64(len(page)))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/late", got)
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestFindReaderErrors(t *testing.T) {
	prefix := []byte(`<meta http-equiv="refresh" content="0;url=/x"><p>`)

	_, ok, err := FindReader(&failingReader{data: prefix, err: io.ErrUnexpectedEOF}, 1024)
	require.NoError(t, err, "a short body is scanned as is")
	require.True(t, ok)

	reset := errors.New("connection reset by peer")
	_, ok, err = FindReader(&failingReader{data: prefix, err: reset}, 1024)
	require.ErrorIs(t, err, reset)
	require.False(t, ok)
}
