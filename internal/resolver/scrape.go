package resolver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// DefaultLinkSelector matches the report anchor on eBrochure pages.
const DefaultLinkSelector = "a.j-carfax-link"

// ScrapeStrategy fetches the listing page and extracts the report URL from
// the first anchor matching the configured selector.
type ScrapeStrategy struct {
	client   *Client
	selector string
}

// NewScrapeStrategy builds a ScrapeStrategy. An empty selector falls back to
// DefaultLinkSelector.
func NewScrapeStrategy(client *Client, selector string) *ScrapeStrategy {
	if selector == "" {
		selector = DefaultLinkSelector
	}
	return &ScrapeStrategy{client: client, selector: selector}
}

// Resolve fetches the listing and returns the href of the report anchor.
// A page without the anchor yields carfax.ErrNoTargetLink, which is a
// legitimate outcome rather than a fetch failure.
func (s *ScrapeStrategy) Resolve(ctx context.Context, listingURL string) (carfax.ResolvedTarget, error) {
	body, err := s.client.Get(ctx, listingURL)
	if err != nil {
		return carfax.ResolvedTarget{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return carfax.ResolvedTarget{}, fmt.Errorf("parse listing html: %w", err)
	}

	href, ok := doc.Find(s.selector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return carfax.ResolvedTarget{}, carfax.ErrNoTargetLink
	}
	return carfax.ResolvedTarget{URL: href}, nil
}
