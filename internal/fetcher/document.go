// Package fetcher retrieves resolved report documents.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// Documents fetches report documents in a single best-effort attempt each.
// Reports are secondary artifacts, so there is no retry here; a failure
// degrades the record without discarding its resolved URL.
type Documents struct {
	client  *http.Client
	headers http.Header
	logger  *zap.Logger
}

// New builds a Documents fetcher over the shared transport.
func New(transport http.RoundTripper, headers http.Header, timeout time.Duration, logger *zap.Logger) *Documents {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Documents{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		headers: headers,
		logger:  logger,
	}
}

// Fetch downloads reportURL and infers the stored extension from the
// response's Content-Type. The caller fills in the filename.
func (d *Documents) Fetch(ctx context.Context, reportURL string) (carfax.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return carfax.Document{}, fmt.Errorf("build report request: %w", err)
	}
	for key, values := range d.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return carfax.Document{}, fmt.Errorf("fetch report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return carfax.Document{}, fmt.Errorf("fetch report: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return carfax.Document{}, fmt.Errorf("read report body: %w", err)
	}

	ext := carfax.ExtensionForContentType(resp.Header.Get("Content-Type"))
	d.logger.Debug("report fetched",
		zap.String("url", reportURL),
		zap.String("extension", ext),
		zap.Int("bytes", len(body)),
	)
	return carfax.Document{Extension: ext, Body: body}, nil
}
