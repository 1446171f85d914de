// Package calc holds the position arithmetic shared by the trading table
// and the standalone calculators.
package calc

import (
	"math"

	"github.com/shopspring/decimal"

	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/types"
)

const (
	ClassPositive = "positive"
	ClassNegative = "negative"
)

var hundred = decimal.NewFromInt(100)

// Result is the derived view of one position.
type Result struct {
	Cost   decimal.Decimal
	Value  decimal.Decimal
	Profit decimal.Decimal
	ROI    decimal.Decimal // percent
}

// Evaluate derives cost, value, profit and ROI for a position.
func Evaluate(p types.PositionRow) Result {
	shares := dec(p.Shares)
	cost := shares.Mul(dec(p.PurchasePrice))
	value := shares.Mul(dec(p.CurrentPrice))
	profit := value.Sub(cost)
	return Result{
		Cost:   cost,
		Value:  value,
		Profit: profit,
		ROI:    ROI(profit, cost),
	}
}

// ROI is profit/cost in percent, 0 unless cost is positive.
func ROI(profit, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(cost).Mul(hundred)
}

func (r Result) ProfitClass() string { return SignClass(r.Profit) }

func (r Result) ROIClass() string { return SignClass(r.ROI) }

// SignClass tags zero and above as positive.
func SignClass(d decimal.Decimal) string {
	if d.IsNegative() {
		return ClassNegative
	}
	return ClassPositive
}

// Totals accumulates a portfolio across rows.
type Totals struct {
	Value decimal.Decimal
	Cost  decimal.Decimal
	Rows  int
}

func (t *Totals) Add(r Result) {
	t.Value = t.Value.Add(r.Value)
	t.Cost = t.Cost.Add(r.Cost)
	t.Rows++
}

func (t Totals) Profit() decimal.Decimal { return t.Value.Sub(t.Cost) }

func (t Totals) ROI() decimal.Decimal { return ROI(t.Profit(), t.Cost) }

// SharesFor is how many whole shares amount buys at price. A zero price is
// treated as 1. The count stays a float so huge amounts do not wrap.
func SharesFor(amount, price float64) float64 {
	amount = format.Normalize(amount)
	price = format.Normalize(price)
	if price == 0 {
		price = 1
	}
	shares := math.Floor(amount / price)
	if shares == 0 || math.IsInf(shares, 0) {
		return 0
	}
	return shares
}

// Float converts back for display and logging.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(format.Normalize(v))
}
