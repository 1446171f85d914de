package prices

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/types"
)

// DefaultBounds are the per-symbol ranges of the demo feed.
func DefaultBounds() map[string]types.Bounds {
	return map[string]types.Bounds{
		"AAPL":  {Min: 120, Max: 200},
		"GOOGL": {Min: 2400, Max: 2800},
	}
}

// FallbackBounds applies to symbols without their own range.
var FallbackBounds = types.Bounds{Min: 100, Max: 300}

// MockProvider draws uniformly from each symbol's bounds and rounds to
// cents.
type MockProvider struct {
	mu       sync.Mutex
	rng      *rand.Rand
	bounds   map[string]types.Bounds
	fallback types.Bounds
}

var _ interfaces.PriceProvider = (*MockProvider)(nil)

func NewMock(bounds map[string]types.Bounds, fallback types.Bounds) *MockProvider {
	return NewMockWithSource(bounds, fallback, rand.NewSource(time.Now().UnixNano()))
}

// NewMockWithSource makes the draws reproducible.
func NewMockWithSource(bounds map[string]types.Bounds, fallback types.Bounds, src rand.Source) *MockProvider {
	if bounds == nil {
		bounds = DefaultBounds()
	}
	if fallback == (types.Bounds{}) {
		fallback = FallbackBounds
	}
	return &MockProvider{rng: rand.New(src), bounds: bounds, fallback: fallback}
}

func (m *MockProvider) Name() string { return "MOCK" }

func (m *MockProvider) BoundsFor(symbol string) types.Bounds {
	if b, ok := m.bounds[symbol]; ok {
		return b
	}
	return m.fallback
}

func (m *MockProvider) Next(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b := m.BoundsFor(symbol)

	m.mu.Lock()
	r := m.rng.Float64()
	m.mu.Unlock()

	v := b.Min + r*(b.Max-b.Min)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64(), nil
}
