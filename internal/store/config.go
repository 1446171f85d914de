package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"portfolio-dashboard/internal/chart"
	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/types"
)

// Price sources
const (
	SourceMock   = "MOCK"
	SourceHTTP   = "HTTP"
	SourceKite   = "KITE"
	SourceScrape = "SCRAPE"
)

var ErrInvalidConfig = errors.New("invalid config")

type PricesConfig struct {
	Source        string                  `yaml:"source"`
	Bounds        map[string]types.Bounds `yaml:"bounds"`
	DefaultBounds types.Bounds            `yaml:"default_bounds"`
	HTTP          struct {
		BaseURL        string `yaml:"base_url"`
		Path           string `yaml:"path"` // e.g. "/quote/{symbol}"
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Kite struct {
		Exchange string `yaml:"exchange"`
	} `yaml:"kite"`
	Scrape struct {
		URL      string `yaml:"url"` // "{symbol}" is replaced
		Selector string `yaml:"selector"`
	} `yaml:"scrape"`
}

type Config struct {
	Currency    string       `yaml:"currency"`
	Locale      string       `yaml:"locale"`
	PollSeconds int          `yaml:"poll_seconds"`
	Tickers     []string     `yaml:"tickers"`
	Prices      PricesConfig `yaml:"prices"`
	PriceLog    struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"pricelog"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Charts struct {
		Format string `yaml:"format"`
		// Palette overrides the pie slice colours, "#rrggbb" each.
		Palette []string `yaml:"palette"`
	} `yaml:"charts"`
	// DataFile optionally replaces the built-in datasets.
	DataFile string `yaml:"data_file"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Currency == "" {
		c.Currency = "EUR"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 10
	}
	if len(c.Tickers) == 0 {
		c.Tickers = []string{"AAPL", "GOOGL"}
	}
	c.Prices.Source = strings.ToUpper(c.Prices.Source)
	if c.Prices.Source == "" {
		c.Prices.Source = SourceMock
	}
	if c.Prices.Bounds == nil {
		c.Prices.Bounds = map[string]types.Bounds{
			"AAPL":  {Min: 120, Max: 200},
			"GOOGL": {Min: 2400, Max: 2800},
		}
	}
	if c.Prices.DefaultBounds == (types.Bounds{}) {
		c.Prices.DefaultBounds = types.Bounds{Min: 100, Max: 300}
	}
	if c.Prices.HTTP.Path == "" {
		c.Prices.HTTP.Path = "/quote/{symbol}"
	}
	if c.Prices.HTTP.TimeoutSeconds == 0 {
		c.Prices.HTTP.TimeoutSeconds = 5
	}
	if c.Prices.Kite.Exchange == "" {
		c.Prices.Kite.Exchange = "NSE"
	}
	if c.PriceLog.Dir == "" {
		c.PriceLog.Dir = "logs/prices"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	c.Charts.Format = strings.ToLower(c.Charts.Format)
	if c.Charts.Format == "" {
		c.Charts.Format = "svg"
	}
}

func (c *Config) Validate() error {
	switch c.Prices.Source {
	case SourceMock, SourceHTTP, SourceKite, SourceScrape:
	default:
		return fmt.Errorf("%w: prices.source '%s' must be MOCK, HTTP, KITE or SCRAPE", ErrInvalidConfig, c.Prices.Source)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("%w: poll_seconds must be positive, got %d", ErrInvalidConfig, c.PollSeconds)
	}
	if len(c.Tickers) == 0 {
		return fmt.Errorf("%w: tickers cannot be empty", ErrInvalidConfig)
	}
	for sym, b := range c.Prices.Bounds {
		if b.Min > b.Max {
			return fmt.Errorf("%w: prices.bounds.%s min %.2f above max %.2f", ErrInvalidConfig, sym, b.Min, b.Max)
		}
	}
	if b := c.Prices.DefaultBounds; b.Min > b.Max {
		return fmt.Errorf("%w: prices.default_bounds min %.2f above max %.2f", ErrInvalidConfig, b.Min, b.Max)
	}
	if c.Prices.Source == SourceHTTP && c.Prices.HTTP.BaseURL == "" {
		return fmt.Errorf("%w: prices.http.base_url is required for HTTP prices", ErrInvalidConfig)
	}
	if c.Prices.Source == SourceScrape && (c.Prices.Scrape.URL == "" || c.Prices.Scrape.Selector == "") {
		return fmt.Errorf("%w: prices.scrape.url and selector are required for SCRAPE prices", ErrInvalidConfig)
	}
	if got := chart.ParsePalette(c.Charts.Palette); len(got) != len(c.Charts.Palette) {
		return fmt.Errorf("%w: charts.palette entries must be #rrggbb colours", ErrInvalidConfig)
	}
	if c.Charts.Format != "svg" && c.Charts.Format != "png" {
		return fmt.Errorf("%w: charts.format must be 'svg' or 'png', got '%s'", ErrInvalidConfig, c.Charts.Format)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale '%s': %v", ErrInvalidConfig, c.Locale, err)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// Formatter builds the display formatter for the configured currency and
// locale.
func (c *Config) Formatter() *format.Formatter {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.English
	}
	return format.New(format.SymbolFor(c.Currency), tag)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
