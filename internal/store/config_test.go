package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if c.PollInterval() != 10*time.Second {
		t.Errorf("Expected 10s, got %v", c.PollInterval())
	}
	if b := c.Prices.Bounds["GOOGL"]; b.Min != 2400 || b.Max != 2800 {
		t.Errorf("Unexpected GOOGL bounds %+v", b)
	}
	if c.Prices.DefaultBounds.Min != 100 || c.Prices.DefaultBounds.Max != 300 {
		t.Errorf("Unexpected default bounds %+v", c.Prices.DefaultBounds)
	}
	if got := c.Formatter().Unit(); got != "€" {
		t.Errorf("Expected €, got %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
currency: usd
poll_seconds: 5
tickers: [MSFT]
prices:
  source: http
  http:
    base_url: http://localhost:9000
charts:
  format: PNG
`)
	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Prices.Source != SourceHTTP {
		t.Errorf("Expected HTTP, got %q", c.Prices.Source)
	}
	if c.Charts.Format != "png" {
		t.Errorf("Expected png, got %q", c.Charts.Format)
	}
	if c.Formatter().Unit() != "$" {
		t.Errorf("Expected $, got %q", c.Formatter().Unit())
	}
	if len(c.Tickers) != 1 || c.Tickers[0] != "MSFT" {
		t.Errorf("Unexpected tickers %v", c.Tickers)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"source":   "prices:\n  source: CARRIER_PIGEON\n",
		"poll":     "poll_seconds: -1\n",
		"bounds":   "prices:\n  bounds:\n    AAPL: {min: 200, max: 100}\n",
		"format":   "charts:\n  format: gif\n",
		"http":     "prices:\n  source: HTTP\n",
		"scrape":   "prices:\n  source: SCRAPE\n  scrape:\n    url: http://x\n",
		"locale":   "locale: \"not a locale!\"\n",
		"defaults": "prices:\n  default_bounds: {min: 5, max: 1}\n",
		"palette":  "charts:\n  palette: [\"#18bc9c\", teal]\n",
	}
	for name, body := range cases {
		_, err := LoadConfig(writeConfig(t, body))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}
