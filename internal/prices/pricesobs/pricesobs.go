package pricesobs

import (
	"context"
	"time"

	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/trace"
)

// observableProvider wraps a PriceProvider with logging and tracing
type observableProvider struct {
	provider interfaces.PriceProvider
}

var _ interfaces.PriceProvider = (*observableProvider)(nil)

func Wrap(provider interfaces.PriceProvider) interfaces.PriceProvider {
	return &observableProvider{provider: provider}
}

func (op *observableProvider) Name() string {
	return op.provider.Name()
}

// Next fetches a price with observability
func (op *observableProvider) Next(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "prices.Next", trace.WithSymbol(symbol))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching price", "symbol", symbol, "source", op.provider.Name())

	start := time.Now()
	price, err := op.provider.Next(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch price", err,
			"symbol", symbol,
			"source", op.provider.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Price fetched",
		"symbol", symbol,
		"price", price,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return price, nil
}
