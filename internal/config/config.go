// Package config loads the screener's yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ordonezjosue/stock-screener/internal/options"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// Config is the root configuration.
type Config struct {
	Universe []string       `yaml:"universe"`
	Quotes   QuotesConfig   `yaml:"quotes"`
	News     NewsConfig     `yaml:"news"`
	Screener ScreenerConfig `yaml:"screener"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// QuotesConfig tunes the quote service.
type QuotesConfig struct {
	RateLimit         int `yaml:"rate_limit"`
	RateWindowSeconds int `yaml:"rate_window_seconds"`
	BatchDelayMS      int `yaml:"batch_delay_ms"`
}

// RateWindow returns the limiter window as a duration.
func (q QuotesConfig) RateWindow() time.Duration {
	return time.Duration(q.RateWindowSeconds) * time.Second
}

// BatchDelay returns the inter-request batch delay as a duration.
func (q QuotesConfig) BatchDelay() time.Duration {
	return time.Duration(q.BatchDelayMS) * time.Millisecond
}

// NewsConfig tunes the news aggregator.
type NewsConfig struct {
	FetchDelaySeconds int `yaml:"fetch_delay_seconds"`
	MaxErrors         int `yaml:"max_errors"`
}

// FetchDelay returns the inter-source delay as a duration.
func (n NewsConfig) FetchDelay() time.Duration {
	return time.Duration(n.FetchDelaySeconds) * time.Second
}

// ScreenerConfig carries the default screening criteria.
type ScreenerConfig struct {
	Criteria types.ScreeningCriteria `yaml:"criteria"`
}

// ScheduleConfig holds the cron specs for the scheduled jobs.
type ScheduleConfig struct {
	Premarket string `yaml:"premarket"`
	Hourly    string `yaml:"hourly"`
	Postclose string `yaml:"postclose"`
}

// Load reads and validates the yaml config at path, applying defaults for
// anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Universe) == 0 {
		c.Universe = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"}
	}
	if c.Quotes.RateLimit == 0 {
		c.Quotes.RateLimit = 5
	}
	if c.Quotes.RateWindowSeconds == 0 {
		c.Quotes.RateWindowSeconds = 60
	}
	if c.Quotes.BatchDelayMS == 0 {
		c.Quotes.BatchDelayMS = 200
	}
	if c.News.FetchDelaySeconds == 0 {
		c.News.FetchDelaySeconds = 1
	}
	if c.News.MaxErrors == 0 {
		c.News.MaxErrors = 3
	}

	crit := &c.Screener.Criteria
	if crit.MaxPrice == 0 {
		crit.MinPrice = 10
		crit.MaxPrice = 200
	}
	if crit.TargetDelta == 0 {
		crit.TargetDelta = 0.3
	}
	if crit.MinOpenInterest == 0 {
		crit.MinOpenInterest = 500
	}
	if crit.MaxSpreadPercent == 0 {
		crit.MaxSpreadPercent = 10
	}
	if crit.MinIV == 0 {
		crit.MinIV = 30
	}
	if crit.DTERange == [2]int{} {
		crit.DTERange = [2]int{30, 45}
	}

	if c.Schedule.Premarket == "" {
		c.Schedule.Premarket = "0 8 * * 1-5"
	}
	if c.Schedule.Hourly == "" {
		c.Schedule.Hourly = "0 10-16 * * 1-5"
	}
	if c.Schedule.Postclose == "" {
		c.Schedule.Postclose = "30 16 * * 1-5"
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Quotes.RateLimit <= 0 {
		return fmt.Errorf("quotes.rate_limit must be positive, got %d", c.Quotes.RateLimit)
	}
	if c.Quotes.RateWindowSeconds <= 0 {
		return fmt.Errorf("quotes.rate_window_seconds must be positive, got %d", c.Quotes.RateWindowSeconds)
	}
	if c.News.MaxErrors <= 0 {
		return fmt.Errorf("news.max_errors must be positive, got %d", c.News.MaxErrors)
	}
	if err := options.ValidateCriteria(c.Screener.Criteria); err != nil {
		return fmt.Errorf("screener.criteria: %w", err)
	}
	return nil
}
