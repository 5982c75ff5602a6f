// Package carfax defines core types shared across the resolution pipeline.
package carfax

import (
	"context"
	"errors"
	"net/http"
)

// Status classifies the terminal outcome of one processed record.
type Status string

// Status values reported per record.
const (
	StatusPending        Status = "PENDING"
	StatusInvalidURL     Status = "INVALID_URL"
	StatusNoToken        Status = "NO_TOKEN"
	StatusNoTargetLink   Status = "NO_TARGET_LINK"
	StatusNoTargetFound  Status = "NO_TARGET_FOUND"
	StatusResolverError  Status = "RESOLVER_ERROR"
	StatusURLOnly        Status = "URL_ONLY"
	StatusDownloaded     Status = "DOWNLOADED"
	StatusDownloadFailed Status = "DOWNLOAD_FAILED"
)

// Non-error terminal outcomes surfaced by Resolver implementations. These mark
// listings that legitimately have no linked report; they are not fetch
// failures.
var (
	ErrNoTargetLink  = errors.New("no report link anchor found")
	ErrNoToken       = errors.New("listing url carries no lookup token")
	ErrNoTargetFound = errors.New("lookup response carries no report url")
)

// Record is one input row handed to the processor.
type Record struct {
	// Index is the zero-based position in the input table; it keys result
	// ordering and the row_<n> identifier fallback.
	Index      int
	Identifier string
	RawURL     string
}

// ResolvedTarget is the report URL extracted from the primary fetch, plus the
// token used to derive it when the API strategy performed a lookup.
type ResolvedTarget struct {
	URL   string
	Token string
}

// Document holds a retrieved report body and its inferred extension.
type Document struct {
	Filename  string
	Extension string
	Body      []byte
}

// Result is the immutable per-record outcome collected by the aggregator.
type Result struct {
	Index       int
	Identifier  string
	SourceURL   string
	ResolvedURL string
	Status      Status
	ErrorMsg    string
	Filename    string
}

// Resolver turns a validated listing URL into a report URL. Implementations
// return one of the sentinel errors above for no-target outcomes and any
// other error for genuine resolver failures.
type Resolver interface {
	Resolve(ctx context.Context, listingURL string) (ResolvedTarget, error)
}

// DocumentFetcher retrieves a resolved report in a single best-effort attempt.
type DocumentFetcher interface {
	Fetch(ctx context.Context, reportURL string) (Document, error)
}

// DefaultUserAgent mimics a desktop browser; the eBrochure endpoint serves
// degraded pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultReferer is required by the eBrochure endpoint, which expects
// same-site navigation.
const DefaultReferer = "https://www.autonation.com/"

// DefaultHeaders returns the fixed header set attached to every request.
func DefaultHeaders(userAgent, referer string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if referer == "" {
		referer = DefaultReferer
	}
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", referer)
	return h
}
