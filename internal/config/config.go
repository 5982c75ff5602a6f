// Package config loads and validates cfaxdlr configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/deg0at/cfaxdlr/internal/resolver"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ResolverConfig governs the primary fetch and extraction strategy.
type ResolverConfig struct {
	Strategy       string  `mapstructure:"strategy"`
	LinkSelector   string  `mapstructure:"link_selector"`
	APIBaseURL     string  `mapstructure:"api_base_url"`
	TokenParam     string  `mapstructure:"token_param"`
	MaxAttempts    int     `mapstructure:"max_attempts"`
	BackoffSeconds float64 `mapstructure:"backoff_seconds"`
}

// HTTPConfig configures the shared request behavior.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	Referer        string `mapstructure:"referer"`
}

// BatchConfig controls batch execution and politeness.
type BatchConfig struct {
	Concurrency   int    `mapstructure:"concurrency"`
	PacingDelayMs int    `mapstructure:"pacing_delay_ms"`
	URLColumn     string `mapstructure:"url_column"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. An empty path skips the config
// file and relies on defaults plus CFAXDLR_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CFAXDLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("resolver.strategy", resolver.StrategyScrape)
	v.SetDefault("resolver.link_selector", resolver.DefaultLinkSelector)
	v.SetDefault("resolver.api_base_url", resolver.DefaultAPIBaseURL)
	v.SetDefault("resolver.token_param", resolver.DefaultTokenParam)
	v.SetDefault("resolver.max_attempts", 3)
	v.SetDefault("resolver.backoff_seconds", 1.5)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.pacing_delay_ms", 300)
	v.SetDefault("batch.url_column", "CARFAX_URL")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	switch c.Resolver.Strategy {
	case resolver.StrategyScrape, resolver.StrategyAPI:
	default:
		return fmt.Errorf("resolver.strategy must be %q or %q", resolver.StrategyScrape, resolver.StrategyAPI)
	}
	if c.Resolver.Strategy == resolver.StrategyAPI && c.Resolver.APIBaseURL == "" {
		return fmt.Errorf("resolver.api_base_url must be set for the api strategy")
	}
	if c.Resolver.MaxAttempts <= 0 {
		return fmt.Errorf("resolver.max_attempts must be > 0")
	}
	if c.Resolver.BackoffSeconds < 0 {
		return fmt.Errorf("resolver.backoff_seconds must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0")
	}
	if c.Batch.PacingDelayMs < 0 {
		return fmt.Errorf("batch.pacing_delay_ms must be >= 0")
	}
	return nil
}

// Timeout converts the HTTP timeout into a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Backoff converts the retry base delay into a duration.
func (c ResolverConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds * float64(time.Second))
}

// PacingDelay converts the per-host pacing delay into a duration.
func (c BatchConfig) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelayMs) * time.Millisecond
}
