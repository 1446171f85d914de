package binder

import (
	"testing"

	"portfolio-dashboard/internal/calc"
	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/types"
)

type fakeElement struct {
	text, value, class string
}

func (e *fakeElement) Text() string          { return e.text }
func (e *fakeElement) SetText(text string)   { e.text = text }
func (e *fakeElement) Value() string         { return e.value }
func (e *fakeElement) SetClass(class string) { e.class = class }

type fakeRow struct {
	ticker string
	cells  map[interfaces.CellRole]*fakeElement
}

func (r *fakeRow) Ticker() string { return r.ticker }

func (r *fakeRow) Cell(role interfaces.CellRole) interfaces.Element {
	if el, ok := r.cells[role]; ok {
		return el
	}
	return nil
}

// fakeTarget is an in-memory page.
type fakeTarget struct {
	elements  map[string]*fakeElement
	rows      []*fakeRow
	listeners map[string][]func()
}

func newFakeTarget(ids ...string) *fakeTarget {
	t := &fakeTarget{elements: map[string]*fakeElement{}, listeners: map[string][]func(){}}
	for _, id := range ids {
		t.elements[id] = &fakeElement{}
	}
	return t
}

func (t *fakeTarget) addRow(ticker, shares, purchase, current string) *fakeRow {
	r := &fakeRow{ticker: ticker, cells: map[interfaces.CellRole]*fakeElement{
		interfaces.CellShares:        {value: shares},
		interfaces.CellPurchase:      {value: purchase},
		interfaces.CellCurrentPrice:  {text: current},
		interfaces.CellTotalValue:    {},
		interfaces.CellProfitLoss:    {},
		interfaces.CellChangePercent: {},
	}}
	t.rows = append(t.rows, r)
	return r
}

func (t *fakeTarget) Element(id string) interfaces.Element {
	if el, ok := t.elements[id]; ok {
		return el
	}
	return nil
}

func (t *fakeTarget) PriceCell(symbol string) interfaces.Element {
	for _, r := range t.rows {
		if r.ticker == symbol {
			return r.Cell(interfaces.CellCurrentPrice)
		}
	}
	return nil
}

func (t *fakeTarget) PositionRows() []interfaces.PositionRowView {
	out := make([]interfaces.PositionRowView, len(t.rows))
	for i, r := range t.rows {
		out[i] = r
	}
	return out
}

func (t *fakeTarget) OnInput(id string, fn func()) { t.listeners[id] = append(t.listeners[id], fn) }

func (t *fakeTarget) SetValue(id, v string) bool {
	el, ok := t.elements[id]
	if !ok {
		return false
	}
	el.value = v
	for _, fn := range t.listeners[id] {
		fn()
	}
	return true
}

var summaryIDs = []string{IDTotalPortfolioValue, IDTotalProfitLoss, IDPortfolioROI, IDPortfolioValue, IDROI}

func TestUpdateBankKPIs(t *testing.T) {
	target := newFakeTarget(IDBankTotalAssets, IDBankDeposits, IDBankLoans, IDBankEquity, IDBankROA, IDBankROE, IDBankTier1Ratio)
	New(target, nil).UpdateBankKPIs(types.BankKPIs{
		Assets: 1_250_000_000, Deposits: 980_000_000, Loans: 850_000_000, Equity: 125_000_000,
		ROA: 1.2, ROE: 12.5, Tier1Ratio: 14.8,
	})

	want := map[string]string{
		IDBankTotalAssets: "€1.3B",
		IDBankDeposits:    "€980M",
		IDBankLoans:       "€850M",
		IDBankEquity:      "€125M",
		IDBankROA:         "1.2%",
		IDBankROE:         "12.5%",
		IDBankTier1Ratio:  "14.8%",
	}
	for id, w := range want {
		if got := target.elements[id].text; got != w {
			t.Errorf("%s: expected %q, got %q", id, w, got)
		}
	}
}

func TestUpdateBankKPIsSkipsMissingElements(t *testing.T) {
	target := newFakeTarget(IDBankROE)
	New(target, nil).UpdateBankKPIs(types.BankKPIs{ROE: 12.5})
	if got := target.elements[IDBankROE].text; got != "12.5%" {
		t.Errorf("Expected 12.5%%, got %q", got)
	}
}

func TestUpdateTradingAnalysis(t *testing.T) {
	target := newFakeTarget(summaryIDs...)
	gain := target.addRow("AAPL", "10", "50", "€60.00")
	loss := target.addRow("GOOGL", "1", "2600", "€2,500.00")

	totals := New(target, nil).UpdateTradingAnalysis()

	if got := gain.cells[interfaces.CellTotalValue].text; got != "€600.00" {
		t.Errorf("Expected €600.00, got %q", got)
	}
	pl := gain.cells[interfaces.CellProfitLoss]
	if pl.text != "€100.00" || pl.class != "profit-loss positive" {
		t.Errorf("Unexpected profit cell %+v", pl)
	}
	ch := gain.cells[interfaces.CellChangePercent]
	if ch.text != "20.00%" || ch.class != "change-percent positive" {
		t.Errorf("Unexpected change cell %+v", ch)
	}

	lpl := loss.cells[interfaces.CellProfitLoss]
	if lpl.text != "€-100.00" || lpl.class != "profit-loss negative" {
		t.Errorf("Unexpected loss cell %+v", lpl)
	}

	if totals.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", totals.Rows)
	}
	if calc.Float(totals.Value) != 3100 || calc.Float(totals.Cost) != 3100 {
		t.Errorf("Expected value and cost 3100, got %v/%v", totals.Value, totals.Cost)
	}

	want := map[string]string{
		IDTotalPortfolioValue: "€3100.00",
		IDTotalProfitLoss:     "€0.00",
		IDPortfolioROI:        "0.00%",
		IDPortfolioValue:      "€3100",
		IDROI:                 "0.0%",
	}
	for id, w := range want {
		if got := target.elements[id].text; got != w {
			t.Errorf("%s: expected %q, got %q", id, w, got)
		}
	}
	if got := target.elements[IDTotalProfitLoss].class; got != "summary-value profit-loss positive" {
		t.Errorf("Unexpected summary class %q", got)
	}
}

func TestUpdateTradingAnalysisZeroCost(t *testing.T) {
	target := newFakeTarget(summaryIDs...)
	r := target.addRow("AAPL", "0", "150", "€160.00")

	New(target, nil).UpdateTradingAnalysis()

	ch := r.cells[interfaces.CellChangePercent]
	if ch.text != "0.00%" || ch.class != "change-percent positive" {
		t.Errorf("Expected 0.00%% positive, got %+v", ch)
	}
	if got := target.elements[IDROI].text; got != "0.0%" {
		t.Errorf("Expected 0.0%%, got %q", got)
	}
}

func TestUpdateTradingAnalysisBadInput(t *testing.T) {
	target := newFakeTarget(summaryIDs...)
	r := target.addRow("AAPL", "abc", "", "n/a")
	delete(r.cells, interfaces.CellTotalValue)

	New(target, nil).UpdateTradingAnalysis()

	if got := r.cells[interfaces.CellProfitLoss].text; got != "€0.00" {
		t.Errorf("Expected €0.00, got %q", got)
	}
	if got := target.elements[IDPortfolioValue].text; got != "€0" {
		t.Errorf("Expected €0, got %q", got)
	}
}

func TestApplyPriceRoundTrips(t *testing.T) {
	target := newFakeTarget(append(summaryIDs, PriceID("GOOGL"))...)
	r := target.addRow("GOOGL", "2", "2500", "€0.00")
	b := New(target, nil)

	text := b.ApplyPrice("GOOGL", 2512.34)
	if text != "€2,512.34" {
		t.Errorf("Expected €2,512.34, got %q", text)
	}
	if target.elements[PriceID("GOOGL")].text != text || r.cells[interfaces.CellCurrentPrice].text != text {
		t.Error("Expected both targets to receive the same text")
	}

	b.UpdateTradingAnalysis()
	if got := r.cells[interfaces.CellTotalValue].text; got != "€5024.68" {
		t.Errorf("Expected €5024.68, got %q", got)
	}
}

func TestProfitLossCalculator(t *testing.T) {
	cases := []struct {
		shares, buy, sell string
		profit, roi       string
		class             string
	}{
		{"10", "50", "60", "€100.00", "20.00%", "calc-value positive"},
		{"10", "60", "50", "€-100.00", "-16.67%", "calc-value negative"},
		{"10", "0", "50", "€500.00", "0.00%", "calc-value positive"},
	}
	for _, c := range cases {
		target := newFakeTarget(IDSharesOwned, IDPurchasePrice, IDCurrentPrice, IDProfitLossResult, IDROIResult)
		b := New(target, nil)
		b.SetupCalculators(target)

		target.SetValue(IDSharesOwned, c.shares)
		target.SetValue(IDPurchasePrice, c.buy)
		target.SetValue(IDCurrentPrice, c.sell)

		pl, roi := target.elements[IDProfitLossResult], target.elements[IDROIResult]
		if pl.text != c.profit || pl.class != c.class {
			t.Errorf("Expected profit %q %q, got %q %q", c.profit, c.class, pl.text, pl.class)
		}
		if roi.text != c.roi {
			t.Errorf("Expected ROI %q, got %q", c.roi, roi.text)
		}
	}
}

func TestInvestmentCalculator(t *testing.T) {
	target := newFakeTarget(IDInvestmentAmount, IDSharePrice, IDSharesResult)
	b := New(target, nil)
	b.SetupCalculators(target)

	target.SetValue(IDInvestmentAmount, "1000")
	target.SetValue(IDSharePrice, "150")
	if got := target.elements[IDSharesResult].text; got != "6" {
		t.Errorf("Expected 6, got %q", got)
	}

	target.SetValue(IDSharePrice, "")
	if got := target.elements[IDSharesResult].text; got != "1000" {
		t.Errorf("Expected price to default to 1, got %q", got)
	}

	target.SetValue(IDInvestmentAmount, "100000000000000000000")
	target.SetValue(IDSharePrice, "1")
	if got := target.elements[IDSharesResult].text; got != "100000000000000000000" {
		t.Errorf("Expected 100000000000000000000, got %q", got)
	}
}

func TestSetupCalculatorsNeedsAllInputs(t *testing.T) {
	target := newFakeTarget(IDInvestmentAmount, IDSharesResult)
	New(target, nil).SetupCalculators(target)
	if len(target.listeners) != 0 {
		t.Errorf("Expected no listeners, got %d", len(target.listeners))
	}
}

func TestFormatterDefault(t *testing.T) {
	b := New(newFakeTarget(), format.Default())
	if b.Formatter().Unit() != "€" {
		t.Errorf("Expected €, got %q", b.Formatter().Unit())
	}
}
