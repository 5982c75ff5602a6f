package resolver

import (
	"fmt"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

// Strategy names accepted in configuration. A run uses exactly one.
const (
	StrategyScrape = "scrape"
	StrategyAPI    = "api"
)

// StrategyConfig selects and parameterizes the extraction strategy.
type StrategyConfig struct {
	Name         string
	LinkSelector string
	APIBaseURL   string
	TokenParam   string
}

// ForStrategy returns the Resolver implementation named by cfg.
func ForStrategy(client *Client, cfg StrategyConfig) (carfax.Resolver, error) {
	switch cfg.Name {
	case StrategyScrape, "":
		return NewScrapeStrategy(client, cfg.LinkSelector), nil
	case StrategyAPI:
		return NewAPIStrategy(client, cfg.APIBaseURL, cfg.TokenParam), nil
	default:
		return nil, fmt.Errorf("unknown resolver strategy %q", cfg.Name)
	}
}
