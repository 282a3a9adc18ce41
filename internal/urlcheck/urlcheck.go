// Package urlcheck probes external link targets. Probes are rate
// limited so a check run is polite to the hosts it touches, and
// results are cached on disk between runs so watch mode does not
// re-request every URL after each edit.
package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/time/rate"
)

// ErrUnreachable marks probe failures callers can branch on with
// errors.Is.
var ErrUnreachable = errors.New("url unreachable")

// Result is one cached probe outcome.
type Result struct {
	URL       string    `json:"url"`
	Status    int       `json:"status,omitempty"`
	Err       string    `json:"err,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func (r Result) failed() bool { return r.Err != "" }

// Options configures a Checker.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64

	// CachePath enables the on-disk result cache; entries older than
	// TTL are re-probed.
	CachePath string
	TTL       time.Duration

	// UserAgent defaults to "inkwell-linkcheck".
	UserAgent string
}

// Checker probes URLs. It is safe for concurrent use.
type Checker struct {
	client    *http.Client
	limiter   *rate.Limiter
	cachePath string
	ttl       time.Duration
	userAgent string
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]Result
	dirty bool
}

// New builds a Checker, loading the cache file when one is configured.
// A missing or unreadable cache is not an error; it just means every
// URL gets probed.
func New(opts Options) *Checker {
	if opts.UserAgent == "" {
		opts.UserAgent = "inkwell-linkcheck"
	}
	c := &Checker{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		cachePath: opts.CachePath,
		ttl:       opts.TTL,
		userAgent: opts.UserAgent,
		now:       time.Now,
		cache:     map[string]Result{},
	}
	c.loadCache()
	return c
}

// Reachable probes rawURL, preferring a cached fresh result. It
// returns nil when the target answered with a non-error status and an
// ErrUnreachable-wrapped error otherwise.
func (c *Checker) Reachable(ctx context.Context, rawURL string) error {
	c.mu.Lock()
	if res, ok := c.cache[rawURL]; ok && c.now().Sub(res.CheckedAt) < c.ttl {
		c.mu.Unlock()
		return res.err()
	}
	c.mu.Unlock()

	res := c.probe(ctx, rawURL)

	c.mu.Lock()
	c.cache[rawURL] = res
	c.dirty = true
	c.mu.Unlock()

	return res.err()
}

func (r Result) err() error {
	if !r.failed() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnreachable, r.Err)
}

// probe issues a HEAD request, falling back to GET for hosts that
// reject HEAD.
func (c *Checker) probe(ctx context.Context, rawURL string) Result {
	res := Result{URL: rawURL, CheckedAt: c.now()}

	status, err := c.request(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = c.request(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		res.Err = err.Error()
		return res
	}

	res.Status = status
	if status >= http.StatusBadRequest {
		res.Err = fmt.Sprintf("status %d", status)
	}
	return res
}

func (c *Checker) request(ctx context.Context, method, rawURL string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Close flushes the cache to disk when it changed. The file is a
// zstd-compressed JSON array, written atomically so a crashed run
// never leaves a torn cache behind.
func (c *Checker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachePath == "" || !c.dirty {
		return nil
	}

	results := make([]Result, 0, len(c.cache))
	for _, res := range c.cache {
		results = append(results, res)
	}

	pending, err := renameio.NewPendingFile(c.cachePath)
	if err != nil {
		return fmt.Errorf("create pending cache file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	zw, err := zstd.NewWriter(pending, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("create cache compressor: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(results); err != nil {
		return fmt.Errorf("encode url cache: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush url cache: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace url cache: %w", err)
	}

	c.dirty = false
	return nil
}

func (c *Checker) loadCache() {
	if c.cachePath == "" {
		return
	}
	f, err := os.Open(c.cachePath)
	if err != nil {
		return
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return
	}
	defer zr.Close()

	var results []Result
	if err := json.NewDecoder(zr).Decode(&results); err != nil {
		return
	}
	for _, res := range results {
		c.cache[res.URL] = res
	}
}
