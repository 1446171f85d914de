package prices

import (
	"fmt"
	"os"
	"time"

	"portfolio-dashboard/internal/api"
	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/store"
)

// NewProvider builds the provider named by cfg.Prices.Source. Kite
// credentials come from KITE_API_KEY and KITE_ACCESS_TOKEN.
func NewProvider(cfg *store.Config, f *format.Formatter) (interfaces.PriceProvider, error) {
	pc := cfg.Prices
	switch pc.Source {
	case store.SourceMock, "":
		return NewMock(pc.Bounds, pc.DefaultBounds), nil
	case store.SourceHTTP:
		client := api.NewClient(
			api.WithBaseURL(pc.HTTP.BaseURL),
			api.WithTimeout(time.Duration(pc.HTTP.TimeoutSeconds)*time.Second),
			api.WithLogging(true),
			api.WithRetry(api.DefaultRetryConfig()),
		)
		return NewHTTP(client, pc.HTTP.Path), nil
	case store.SourceKite:
		key, token := os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN")
		if key == "" || token == "" {
			return nil, fmt.Errorf("kite prices need KITE_API_KEY and KITE_ACCESS_TOKEN")
		}
		return NewKite(key, token, pc.Kite.Exchange), nil
	case store.SourceScrape:
		return NewScrape(pc.Scrape.URL, pc.Scrape.Selector, f), nil
	}
	return nil, fmt.Errorf("%w: prices.source %q", store.ErrInvalidConfig, pc.Source)
}
