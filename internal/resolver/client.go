// Package resolver turns listing URLs into report URLs, either by scraping
// the listing page or by querying the vehicle-details API.
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Pacer spaces successive requests to the same host.
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// Config controls the primary-fetch client shared by both strategies.
type Config struct {
	Headers     http.Header
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

// Client performs GET requests through a cloned Colly collector, retrying
// transient failures with linear backoff over a shared pooled transport.
// Redirects are followed automatically.
type Client struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
	pacer         Pacer
	logger        *zap.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client. A nil transport gets a fresh pooled one; pass
// the same transport to the document fetcher so connections are reused
// across the whole run.
func NewClient(cfg Config, transport http.RoundTripper, pacer Pacer, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 1500 * time.Millisecond
	}
	if transport == nil {
		transport = NewTransport()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false), colly.AllowURLRevisit())
	c.IgnoreRobotsTxt = true
	c.WithTransport(transport)

	return &Client{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
		pacer:         pacer,
		logger:        logger,
		sleep:         sleepContext,
	}
}

// Get fetches rawURL, treating any network error or non-2xx status as a
// failure. Failed attempts back off linearly (backoff * attempt number); the
// last underlying error is wrapped once attempts are exhausted.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx, rawURL); err != nil {
				return nil, err
			}
		}

		body, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == c.cfg.MaxAttempts {
			break
		}
		delay := time.Duration(attempt) * c.cfg.Backoff
		c.logger.Warn("primary fetch failed, backing off",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	collector := c.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(c.transport)
	collector.SetRequestTimeout(c.cfg.Timeout)
	if ua := c.cfg.Headers.Get("User-Agent"); ua != "" {
		collector.UserAgent = ua
	}

	var (
		body     []byte
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		for key, values := range c.cfg.Headers {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", rawURL, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("response for %s: %w", rawURL, fetchErr)
		}
		return body, nil
	}
}

// NewTransport returns a pooled transport suitable for sharing across the
// resolver client and the document fetcher.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
