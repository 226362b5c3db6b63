package runner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/selimozcann/longurl/internal/resolve"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final?token=abc", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newResolver(t *testing.T) *resolve.Resolver {
	t.Helper()
	res, err := resolve.New(nil, resolve.DefaultConfig())
	require.NoError(t, err)
	return res
}

func TestRun(t *testing.T) {
	srv := setupServer(t)
	targets := []string{srv.URL + "/a", srv.URL + "/gone", srv.URL + "/b", "ftp://example.com/x"}

	var calls atomic.Int32
	r := New(Config{Threads: 3}, newResolver(t), nil)
	r.OnResult = func(Result) { calls.Add(1) }

	results, err := r.Run(context.Background(), targets)
	require.NoError(t, err)
	require.Len(t, results, len(targets))
	require.EqualValues(t, len(targets), calls.Load())

	for i, res := range results {
		require.Equal(t, targets[i], res.Target, "results keep input order")
	}

	require.NoError(t, results[0].Err)
	require.Equal(t, srv.URL+"/final", results[0].Chain.FinalURL)
	require.Len(t, results[0].Chain.Hops, 2)

	var status *resolve.UnexpectedStatusError
	require.ErrorAs(t, results[1].Err, &status)
	require.Equal(t, http.StatusGone, status.Code)

	require.NoError(t, results[2].Err)
	var types []string
	for _, f := range results[2].Chain.Findings {
		types = append(types, f.Type)
	}
	require.Contains(t, types, "TOKEN_LEAK")
	require.Contains(t, types, "INTERNAL_HOST")

	var scheme *resolve.UnsupportedSchemeError
	require.ErrorAs(t, results[3].Err, &scheme)
}

func TestRunRateLimit(t *testing.T) {
	srv := setupServer(t)
	targets := []string{srv.URL + "/final", srv.URL + "/final", srv.URL + "/final"}

	r := New(Config{Threads: 3, RateLimit: 20}, newResolver(t), nil)
	start := time.Now()
	results, err := r.Run(context.Background(), targets)
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Burst of one: the third start waits for two refills of 50ms.
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{Threads: 2}, newResolver(t), nil)
	results, err := r.Run(ctx, []string{"http://127.0.0.1:1/a", "http://127.0.0.1:1/b"})
	require.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 2)
	require.Empty(t, results[0].Target)
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	content := "  https://bit.ly/a  \n\n# comment\nexample.com/x\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := LoadTargets(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://bit.ly/a", "example.com/x"}, got)

	_, err = LoadTargets(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
