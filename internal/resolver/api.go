package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// Defaults for the API strategy. The vehicle-details endpoint takes the
// listing's VID token appended to the base URL.
const (
	DefaultAPIBaseURL = "https://www.autonation.com/api/vehicle-details/carfax?vid="
	DefaultTokenParam = "VID"
)

// APIStrategy derives the report URL by extracting a token from the listing
// URL's query string and asking the backing API for the report location.
type APIStrategy struct {
	client  *Client
	baseURL string
	param   string
}

// NewAPIStrategy builds an APIStrategy; empty baseURL or param fall back to
// the defaults above.
func NewAPIStrategy(client *Client, baseURL, param string) *APIStrategy {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	if param == "" {
		param = DefaultTokenParam
	}
	return &APIStrategy{client: client, baseURL: baseURL, param: param}
}

// reportLookup is the subset of the API response the pipeline cares about.
// Missing or empty fields are a defined outcome, not a decode failure.
type reportLookup struct {
	CarfaxURL string `json:"carfaxUrl"`
}

// Resolve looks up the report URL for the listing's token. The token key is
// matched case-sensitively; a listing without one is carfax.ErrNoToken before
// any network call, and a well-formed response without a report URL is
// carfax.ErrNoTargetFound.
func (s *APIStrategy) Resolve(ctx context.Context, listingURL string) (carfax.ResolvedTarget, error) {
	u, err := url.Parse(listingURL)
	if err != nil {
		return carfax.ResolvedTarget{}, fmt.Errorf("parse listing url: %w", err)
	}
	token := u.Query().Get(s.param)
	if token == "" {
		return carfax.ResolvedTarget{}, carfax.ErrNoToken
	}

	body, err := s.client.Get(ctx, s.baseURL+url.QueryEscape(token))
	if err != nil {
		return carfax.ResolvedTarget{}, err
	}

	var lookup reportLookup
	if err := json.Unmarshal(body, &lookup); err != nil {
		return carfax.ResolvedTarget{}, fmt.Errorf("decode report lookup: %w", err)
	}

	target := strings.TrimSpace(lookup.CarfaxURL)
	if target == "" {
		return carfax.ResolvedTarget{}, carfax.ErrNoTargetFound
	}
	return carfax.ResolvedTarget{URL: target, Token: token}, nil
}
