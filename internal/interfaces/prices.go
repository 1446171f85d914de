package interfaces

import "context"

// PriceProvider yields the next price for a ticker symbol.
type PriceProvider interface {
	Name() string
	Next(ctx context.Context, symbol string) (float64, error)
}
