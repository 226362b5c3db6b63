package detect

import (
	"net/url"
	"testing"

	"github.com/selimozcann/longurl/internal/model"
	"github.com/stretchr/testify/require"
)

func types(fs []model.Finding) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.Type)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	t.Run("clean chain", func(t *testing.T) {
		c := model.Chain{Hops: []model.Hop{
			{Index: 0, URL: "https://sho.rt/a", Kind: model.KindHeader, Next: "https://example.com/"},
			{Index: 1, URL: "https://example.com/", Kind: model.KindNone},
		}}
		require.Empty(t, Analyze(c))
	})

	t.Run("downgrade internal and token", func(t *testing.T) {
		c := model.Chain{Hops: []model.Hop{
			{Index: 0, URL: "https://sho.rt/a", Kind: model.KindHeader, Next: "http://10.0.0.5/login?access_token=abc"},
			{Index: 1, URL: "http://10.0.0.5/login?access_token=abc", Kind: model.KindNone},
		}}
		got := types(Analyze(c))
		require.ElementsMatch(t, []string{"HTTPS_DOWNGRADE", "INTERNAL_HOST", "TOKEN_LEAK"}, got)
	})

	t.Run("revisit and truncation", func(t *testing.T) {
		c := model.Chain{
			Hops: []model.Hop{
				{Index: 0, URL: "http://a.example/", Kind: model.KindHeader, Next: "http://b.example/"},
				{Index: 1, URL: "http://b.example/", Kind: model.KindHeader, Next: "http://a.example/"},
				{Index: 2, URL: "http://a.example/", Kind: model.KindHeader, Next: "http://b.example/"},
			},
			Truncated: true,
			FinalURL:  "http://b.example/",
		}
		fs := Analyze(c)
		require.Equal(t, []string{"REVISIT", "CHAIN_TRUNCATED"}, types(fs))
		require.Equal(t, 2, fs[0].AtHop)
		require.Equal(t, 3, fs[1].AtHop)
	})
}

func TestTokenLeakage(t *testing.T) {
	u, _ := url.Parse("https://example.com/cb#id_token=xyz&state=1")
	f := TokenLeakage(u, 4)
	require.NotNil(t, f)
	require.Equal(t, "high", f.Severity)
	require.Equal(t, 4, f.AtHop)

	u, _ = url.Parse("https://example.com/?q=token")
	require.Nil(t, TokenLeakage(u, 0))
}

func TestIsInternalHost(t *testing.T) {
	for _, h := range []string{"localhost", "127.0.0.1", "10.1.2.3", "192.168.0.1", "::1", "metadata.internal", "169.254.169.254"} {
		require.True(t, IsInternalHost(h), h)
	}
	for _, h := range []string{"example.com", "8.8.8.8", "2001:4860:4860::8888"} {
		require.False(t, IsInternalHost(h), h)
	}
}
