// Package httpsource fetches datasets over HTTP(S).
//
// Each fetch may append a cache-busting timestamp parameter so that
// intermediate caches never serve a stale dataset. Requests are throttled
// by a token bucket, and 429 responses back off for the server's
// Retry-After period.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kotae/internal/core/ports/driven"
	"github.com/custodia-labs/kotae/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// CacheBustParam is the query parameter carrying the fetch timestamp.
const CacheBustParam = "t"

// userAgent identifies kotae to dataset hosts.
const userAgent = "kotae"

// Config controls fetch behaviour.
type Config struct {
	// CacheBust appends t=<unix milliseconds> to every request.
	CacheBust bool

	// RatePerSecond throttles requests. Zero disables throttling.
	RatePerSecond float64

	// Timeout bounds a whole request including the body read.
	Timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithClock replaces the time source used for cache-busting.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// Fetcher retrieves datasets from HTTP(S) URLs.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	limiter *RateLimiter
	now     func() time.Time
}

// New creates an HTTP fetcher.
func New(cfg Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: NewRateLimiter(cfg.RatePerSecond, 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Supports reports whether locator is an http or https URL.
func (f *Fetcher) Supports(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch requests the dataset. The caller closes the body.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	target := locator
	if f.cfg.CacheBust {
		busted, err := CacheBust(locator, f.now())
		if err != nil {
			return nil, err
		}
		target = busted
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain;q=0.9, */*;q=0.5")
	if f.cfg.CacheBust {
		req.Header.Set("Cache-Control", "no-cache")
	}

	logger.Debug("GET %s", target)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		f.limiter.RecordRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After"), f.now()))
		resp.Body.Close()
		return nil, fmt.Errorf("rate limited: %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return resp.Body, nil
}

// CacheBust returns locator with t set to the Unix millisecond timestamp of at.
// Existing query parameters are kept.
func CacheBust(locator string, at time.Time) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}
	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(at.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return at.Sub(now)
	}
	return 0
}
