package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"portfolio-dashboard/internal/api"
	"portfolio-dashboard/internal/interfaces"
)

// HTTPProvider reads {"price": n} from a JSON quote endpoint.
type HTTPProvider struct {
	client *api.Client
	path   string
}

var _ interfaces.PriceProvider = (*HTTPProvider)(nil)

// NewHTTP queries path relative to the client's base URL; "{symbol}" in
// path is replaced with the escaped symbol.
func NewHTTP(client *api.Client, path string) *HTTPProvider {
	return &HTTPProvider{client: client, path: path}
}

func (h *HTTPProvider) Name() string { return "HTTP" }

type quote struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
}

func (h *HTTPProvider) Next(ctx context.Context, symbol string) (float64, error) {
	p := strings.ReplaceAll(h.path, "{symbol}", url.PathEscape(symbol))
	var q quote
	if err := h.client.GetJSON(ctx, p, &q); err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return 0, fmt.Errorf("quote %s: %w", symbol, ErrUnknownSymbol)
		}
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q.Price == nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, ErrUnknownSymbol)
	}
	return *q.Price, nil
}
