package calc

import (
	"math"
	"testing"

	"portfolio-dashboard/internal/types"
)

func TestEvaluateProfit(t *testing.T) {
	r := Evaluate(types.PositionRow{Ticker: "AAPL", Shares: 10, PurchasePrice: 50, CurrentPrice: 60})

	if got := r.Profit.StringFixed(2); got != "100.00" {
		t.Errorf("Expected profit 100.00, got %s", got)
	}
	if got := r.ROI.StringFixed(2); got != "20.00" {
		t.Errorf("Expected ROI 20.00, got %s", got)
	}
	if r.ProfitClass() != ClassPositive {
		t.Errorf("Expected class %q, got %q", ClassPositive, r.ProfitClass())
	}
	if got := r.Value.StringFixed(2); got != "600.00" {
		t.Errorf("Expected value 600.00, got %s", got)
	}
}

func TestEvaluateLoss(t *testing.T) {
	r := Evaluate(types.PositionRow{Shares: 10, PurchasePrice: 60, CurrentPrice: 50})

	if got := r.Profit.StringFixed(2); got != "-100.00" {
		t.Errorf("Expected profit -100.00, got %s", got)
	}
	if got := r.ROI.StringFixed(2); got != "-16.67" {
		t.Errorf("Expected ROI -16.67, got %s", got)
	}
	if r.ProfitClass() != ClassNegative {
		t.Errorf("Expected class %q, got %q", ClassNegative, r.ProfitClass())
	}
}

func TestZeroCostYieldsZeroROI(t *testing.T) {
	r := Evaluate(types.PositionRow{Shares: 0, PurchasePrice: 50, CurrentPrice: 60})
	if !r.ROI.IsZero() {
		t.Errorf("Expected ROI 0, got %s", r.ROI)
	}
	if r.ROIClass() != ClassPositive {
		t.Errorf("Expected zero ROI to be tagged positive, got %q", r.ROIClass())
	}
}

func TestNaNInputsAreZero(t *testing.T) {
	r := Evaluate(types.PositionRow{Shares: math.NaN(), PurchasePrice: 10, CurrentPrice: math.Inf(1)})
	if !r.Cost.IsZero() || !r.Value.IsZero() || !r.ROI.IsZero() {
		t.Errorf("Expected all-zero result, got %+v", r)
	}
}

func TestTotals(t *testing.T) {
	var tot Totals
	tot.Add(Evaluate(types.PositionRow{Shares: 10, PurchasePrice: 50, CurrentPrice: 60}))
	tot.Add(Evaluate(types.PositionRow{Shares: 10, PurchasePrice: 60, CurrentPrice: 50}))

	if tot.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", tot.Rows)
	}
	if got := tot.Value.StringFixed(2); got != "1100.00" {
		t.Errorf("Expected value 1100.00, got %s", got)
	}
	if !tot.Profit().IsZero() {
		t.Errorf("Expected flat profit, got %s", tot.Profit())
	}
	if !tot.ROI().IsZero() {
		t.Errorf("Expected 0 ROI, got %s", tot.ROI())
	}
}

func TestSharesFor(t *testing.T) {
	cases := []struct {
		amount, price float64
		want          float64
	}{
		{1000, 150, 6},
		{1000, 0, 1000},
		{0, 10, 0},
		{99.99, 100, 0},
		{math.NaN(), 10, 0},
		{1e20, 1, 1e20},
		{-5, 2, -3},
	}
	for _, c := range cases {
		if got := SharesFor(c.amount, c.price); got != c.want {
			t.Errorf("SharesFor(%v, %v): expected %v, got %v", c.amount, c.price, c.want, got)
		}
	}
}
