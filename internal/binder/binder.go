// Package binder projects KPIs and position arithmetic onto a render target.
// Missing elements are skipped and unparseable numbers read as zero.
package binder

import (
	"strconv"

	"portfolio-dashboard/internal/calc"
	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/types"
)

// Element ids on the page.
const (
	IDBankTotalAssets = "bank-total-assets"
	IDBankDeposits    = "bank-deposits"
	IDBankLoans       = "bank-loans"
	IDBankEquity      = "bank-equity"
	IDBankROA         = "bank-roa"
	IDBankROE         = "bank-roe"
	IDBankTier1Ratio  = "bank-tier1-ratio"

	IDTotalPortfolioValue = "total-portfolio-value"
	IDTotalProfitLoss     = "total-profit-loss"
	IDPortfolioROI        = "portfolio-roi"
	IDPortfolioValue      = "portfolio-value"
	IDROI                 = "roi"

	IDInvestmentAmount = "investment-amount"
	IDSharePrice       = "share-price"
	IDSharesResult     = "shares-result"

	IDSharesOwned      = "shares-owned"
	IDPurchasePrice    = "purchase-price"
	IDCurrentPrice     = "current-price"
	IDProfitLossResult = "profit-loss-result"
	IDROIResult        = "roi-result"
)

// PriceID is the standalone price display of symbol.
func PriceID(symbol string) string { return "price-" + symbol }

// RowInputIDs are the editable inputs of a trading table row.
func RowInputIDs(ticker string) []string {
	return []string{"shares-" + ticker, "purchase-" + ticker}
}

type Binder struct {
	target interfaces.RenderTarget
	f      *format.Formatter
}

func New(target interfaces.RenderTarget, f *format.Formatter) *Binder {
	if f == nil {
		f = format.Default()
	}
	return &Binder{target: target, f: f}
}

func (b *Binder) Formatter() *format.Formatter { return b.f }

func (b *Binder) setText(id, text string) {
	if el := b.target.Element(id); el != nil {
		el.SetText(text)
	}
}

func (b *Binder) setTextClass(el interfaces.Element, text, class string) {
	if el == nil {
		return
	}
	el.SetText(text)
	el.SetClass(class)
}

func (b *Binder) value(id string) float64 {
	el := b.target.Element(id)
	if el == nil {
		return 0
	}
	return format.ParseFloat(el.Value())
}

// UpdateBankKPIs writes the compact currency amounts and one-decimal ratios.
func (b *Binder) UpdateBankKPIs(k types.BankKPIs) {
	b.setText(IDBankTotalAssets, b.f.Currency(k.Assets))
	b.setText(IDBankDeposits, b.f.Currency(k.Deposits))
	b.setText(IDBankLoans, b.f.Currency(k.Loans))
	b.setText(IDBankEquity, b.f.Currency(k.Equity))
	b.setText(IDBankROA, b.f.Percent(k.ROA, 1))
	b.setText(IDBankROE, b.f.Percent(k.ROE, 1))
	b.setText(IDBankTier1Ratio, b.f.Percent(k.Tier1Ratio, 1))
}

// ReadRow reads a row's inputs and its displayed current price.
func (b *Binder) ReadRow(r interfaces.PositionRowView) types.PositionRow {
	row := types.PositionRow{Ticker: r.Ticker()}
	if el := r.Cell(interfaces.CellShares); el != nil {
		row.Shares = format.ParseFloat(el.Value())
	}
	if el := r.Cell(interfaces.CellPurchase); el != nil {
		row.PurchasePrice = format.ParseFloat(el.Value())
	}
	if el := r.Cell(interfaces.CellCurrentPrice); el != nil {
		row.CurrentPrice = b.f.ParseDisplay(el.Text())
	}
	return row
}

// UpdateTradingAnalysis recomputes every row and the portfolio summary.
func (b *Binder) UpdateTradingAnalysis() calc.Totals {
	var totals calc.Totals
	for _, r := range b.target.PositionRows() {
		res := calc.Evaluate(b.ReadRow(r))

		if el := r.Cell(interfaces.CellTotalValue); el != nil {
			el.SetText(b.f.CurrencyFixed(calc.Float(res.Value)))
		}
		b.setTextClass(r.Cell(interfaces.CellProfitLoss),
			b.f.CurrencyFixed(calc.Float(res.Profit)), "profit-loss "+res.ProfitClass())
		b.setTextClass(r.Cell(interfaces.CellChangePercent),
			b.f.Percent(calc.Float(res.ROI), 2), "change-percent "+res.ROIClass())

		totals.Add(res)
	}

	value := calc.Float(totals.Value)
	profit := totals.Profit()
	roi := calc.Float(totals.ROI())

	b.setText(IDTotalPortfolioValue, b.f.CurrencyFixed(value))
	b.setTextClass(b.target.Element(IDTotalProfitLoss),
		b.f.CurrencyFixed(calc.Float(profit)), "summary-value profit-loss "+calc.SignClass(profit))
	b.setText(IDPortfolioROI, b.f.Percent(roi, 2))
	b.setText(IDPortfolioValue, b.f.CurrencyWhole(value))
	b.setText(IDROI, b.f.Percent(roi, 1))
	return totals
}

// ApplyPrice writes the formatted price to the standalone display and the
// matching table cell, and returns the text written.
func (b *Binder) ApplyPrice(symbol string, price float64) string {
	text := b.f.Price(price)
	b.setText(PriceID(symbol), text)
	if el := b.target.PriceCell(symbol); el != nil {
		el.SetText(text)
	}
	return text
}

// InvestmentCalc writes how many whole shares the amount buys.
func (b *Binder) InvestmentCalc() {
	if b.target.Element(IDInvestmentAmount) == nil || b.target.Element(IDSharePrice) == nil {
		return
	}
	shares := calc.SharesFor(b.value(IDInvestmentAmount), b.value(IDSharePrice))
	b.setText(IDSharesResult, strconv.FormatFloat(shares, 'f', -1, 64))
}

// ProfitLossCalc evaluates the standalone profit/loss inputs.
func (b *Binder) ProfitLossCalc() {
	res := calc.Evaluate(types.PositionRow{
		Shares:        b.value(IDSharesOwned),
		PurchasePrice: b.value(IDPurchasePrice),
		CurrentPrice:  b.value(IDCurrentPrice),
	})
	b.setTextClass(b.target.Element(IDProfitLossResult),
		b.f.CurrencyFixed(calc.Float(res.Profit)), "calc-value "+res.ProfitClass())
	b.setTextClass(b.target.Element(IDROIResult),
		b.f.Percent(calc.Float(res.ROI), 2), "calc-value "+res.ROIClass())
}

// SetupCalculators subscribes the calculators to their inputs. Listeners are
// attached only when every input of a calculator exists.
func (b *Binder) SetupCalculators(t interfaces.InputTarget) {
	wire(t, b.InvestmentCalc, IDInvestmentAmount, IDSharePrice)
	wire(t, b.ProfitLossCalc, IDSharesOwned, IDPurchasePrice, IDCurrentPrice)
}

func wire(t interfaces.InputTarget, fn func(), ids ...string) {
	for _, id := range ids {
		if t.Element(id) == nil {
			return
		}
	}
	for _, id := range ids {
		t.OnInput(id, fn)
	}
}
