package urlcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(cachePath string) *Checker {
	return New(Options{
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000,
		CachePath:         cachePath,
		TTL:               time.Hour,
	})
}

func TestReachableOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestChecker("")
	assert.NoError(t, c.Reachable(context.Background(), srv.URL))
}

func TestReachableNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newTestChecker("")
	err := c.Reachable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "404")
}

func TestReachableFallsBackToGET(t *testing.T) {
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			gets.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := newTestChecker("")
	assert.NoError(t, c.Reachable(context.Background(), srv.URL))
	assert.Equal(t, int32(1), gets.Load())
}

func TestReachableUsesCacheWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestChecker("")
	require.NoError(t, c.Reachable(context.Background(), srv.URL))
	require.NoError(t, c.Reachable(context.Background(), srv.URL))
	assert.Equal(t, int32(1), hits.Load(), "second call must come from the cache")
}

func TestCachePersistsAcrossCheckers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cachePath := filepath.Join(t.TempDir(), "urlcache")

	first := newTestChecker(cachePath)
	require.NoError(t, first.Reachable(context.Background(), srv.URL))
	require.NoError(t, first.Close())

	second := newTestChecker(cachePath)
	require.NoError(t, second.Reachable(context.Background(), srv.URL))
	assert.Equal(t, int32(1), hits.Load(), "result must be served from the persisted cache")
}

func TestCacheExpiry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestChecker("")
	require.NoError(t, c.Reachable(context.Background(), srv.URL))

	// Age the cached entry past the TTL.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, c.Reachable(context.Background(), srv.URL))
	assert.Equal(t, int32(2), hits.Load(), "expired entry must be re-probed")
}

func TestCloseWithoutCacheIsNoop(t *testing.T) {
	c := newTestChecker("")
	_ = c.Reachable(context.Background(), "http://127.0.0.1:0/unreachable")
	assert.NoError(t, c.Close())
}

func TestCorruptCacheIsIgnored(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "urlcache")
	require.NoError(t, os.WriteFile(cachePath, []byte("not zstd"), 0o644))

	c := newTestChecker(cachePath)
	assert.Empty(t, c.cache, "corrupt cache must load as empty, not fail")
}
