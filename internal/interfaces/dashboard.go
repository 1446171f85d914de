package interfaces

import (
	"context"

	"portfolio-dashboard/internal/types"
)

type Dashboard interface {
	Init(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetupCalculators(ctx context.Context)
	UpdateTradingAnalysis(ctx context.Context)
	ApplyPrices(ctx context.Context, ticks []types.PriceTick)
}
