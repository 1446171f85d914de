package prices

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/interfaces"
)

// ScrapeProvider reads a price from the first element matching selector on
// a quote page.
type ScrapeProvider struct {
	urlTemplate string
	selector    string
	f           *format.Formatter
	timeout     time.Duration
}

var _ interfaces.PriceProvider = (*ScrapeProvider)(nil)

// NewScrape visits urlTemplate with "{symbol}" replaced. Prices are parsed
// with f so grouped and symbol-prefixed text is understood.
func NewScrape(urlTemplate, selector string, f *format.Formatter) *ScrapeProvider {
	if f == nil {
		f = format.Default()
	}
	return &ScrapeProvider{urlTemplate: urlTemplate, selector: selector, f: f, timeout: 10 * time.Second}
}

func (s *ScrapeProvider) Name() string { return "SCRAPE" }

func (s *ScrapeProvider) Next(ctx context.Context, symbol string) (float64, error) {
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	var (
		text  string
		found bool
		fail  error
	)
	c.OnHTML(s.selector, func(e *colly.HTMLElement) {
		if found {
			return
		}
		text = strings.TrimSpace(e.Text)
		found = true
	})
	c.OnError(func(r *colly.Response, err error) {
		fail = err
	})

	target := strings.ReplaceAll(s.urlTemplate, "{symbol}", url.PathEscape(symbol))
	if err := c.Visit(target); err != nil {
		return 0, fmt.Errorf("scrape %s: %w", target, err)
	}
	c.Wait()

	if fail != nil {
		return 0, fmt.Errorf("scrape %s: %w", target, fail)
	}
	if !found {
		return 0, fmt.Errorf("scrape %s: %w", symbol, ErrUnknownSymbol)
	}
	price := s.f.ParseDisplay(text)
	if price <= 0 {
		return 0, fmt.Errorf("scrape %s: no price in %q", symbol, text)
	}
	return price, nil
}
