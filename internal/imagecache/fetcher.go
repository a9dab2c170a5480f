// BackLogus - Personal Media Backlog Tracker
// Copyright 2026 Nelson Portela (nelsonportela)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nelsonportela/BackLogus

package imagecache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/nelsonportela/BackLogus/internal/config"
	"github.com/nelsonportela/BackLogus/internal/logging"
	"github.com/nelsonportela/BackLogus/internal/metrics"
)

const (
	// fetchRatePerSecond and fetchBurst pace outbound downloads so a
	// large export stays polite to IGDB/TMDB image CDNs.
	fetchRatePerSecond = 8
	fetchBurst         = 4

	userAgent = "BackLogus/1.0"
)

// Fetcher downloads images over HTTP with rate limiting and circuit
// breaker protection.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	maxBytes int64
}

// NewFetcher creates a fetcher from the image cache configuration.
//
// Circuit breaker configuration:
// - Max 3 requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewFetcher(cfg *config.ImageCacheConfig) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		limiter:  rate.NewLimiter(rate.Limit(fetchRatePerSecond), fetchBurst),
		maxBytes: cfg.MaxBytes,
	}

	f.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "image-fetch",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Image fetch circuit state changed")
		},
	})

	return f
}

// Fetch downloads one image. It blocks on the rate limiter first, so
// concurrent callers within an export batch share the same pacing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	start := time.Now()
	data, err := f.breaker.Execute(func() ([]byte, error) {
		return f.doFetch(ctx, rawURL)
	})
	metrics.RecordImageDownload(time.Since(start), err)
	return data, err
}

func (f *Fetcher) doFetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("download %s: %d bytes exceeds limit of %d", rawURL, resp.ContentLength, f.maxBytes)
	}

	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		// One byte past the limit distinguishes at-limit from over.
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("download %s: response exceeds limit of %d bytes", rawURL, f.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("download %s: empty response", rawURL)
	}
	return data, nil
}
