// Package dashboard ties the page, the charts and the binder together behind
// the dashboard entry points. All page access goes through one mutex, so
// input events, price updates and refreshes never interleave.
package dashboard

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"sync"

	"portfolio-dashboard/internal/binder"
	"portfolio-dashboard/internal/calc"
	"portfolio-dashboard/internal/chart"
	"portfolio-dashboard/internal/chart/vgsurface"
	"portfolio-dashboard/internal/data"
	"portfolio-dashboard/internal/dom"
	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/pricelog"
	"portfolio-dashboard/internal/trace"
	"portfolio-dashboard/internal/types"
)

type Options struct {
	Formatter   *format.Formatter
	ChartFormat vgsurface.Format
	// Journal, when set, records every applied tick.
	Journal *pricelog.Journal
	// Live renders the page for the HTTP server.
	Live bool
	// Palette replaces the pie colours when non-empty.
	Palette []color.Color
}

type Dashboard struct {
	mu          sync.Mutex
	doc         *dom.Document
	binder      *binder.Binder
	charts      *chart.Registry
	set         data.Set
	f           *format.Formatter
	chartFormat vgsurface.Format
	journal     *pricelog.Journal
	palette     []color.Color
	latest      map[string]types.PriceTick
	totals      calc.Totals
	subscribers []func([]types.PriceTick)
}

var _ interfaces.Dashboard = (*Dashboard)(nil)

func New(set data.Set, opts Options) (*Dashboard, error) {
	f := opts.Formatter
	if f == nil {
		f = format.Default()
	}
	cf := opts.ChartFormat
	if cf == "" {
		cf = vgsurface.SVG
	}

	d := &Dashboard{
		charts:      chart.NewRegistry(),
		set:         set,
		f:           f,
		chartFormat: cf,
		journal:     opts.Journal,
		palette:     opts.Palette,
		latest:      make(map[string]types.PriceTick),
	}
	d.registerCharts()

	doc, err := dom.NewPage(dom.PageData{
		Unit:      f.Unit(),
		Positions: set.Positions,
		Charts:    d.chartSlots(),
		Live:      opts.Live,
	})
	if err != nil {
		return nil, err
	}
	d.doc = doc
	d.binder = binder.New(doc, f)
	return d, nil
}

func (d *Dashboard) registerCharts() {
	pie := chart.NewPie(d.set.Portfolio.Allocation)
	if len(d.palette) > 0 {
		pie.Palette = d.palette
	}
	d.charts.Register(pie)
	d.charts.Register(chart.NewLine(d.set.Portfolio.Performance))
	d.charts.Register(chart.NewBar(d.set.Bank.Financials, d.f.Unit()))
}

func (d *Dashboard) chartSlots() []dom.ChartSlot {
	var slots []dom.ChartSlot
	for _, id := range d.charts.IDs() {
		c, _ := d.charts.Get(id)
		w, h := c.Size()
		slots = append(slots, dom.ChartSlot{ID: id, Src: ChartPath(id, d.chartFormat), Width: w, Height: h})
	}
	return slots
}

// ChartPath is the page-relative location of a chart image.
func ChartPath(id string, f vgsurface.Format) string {
	return "charts/" + id + "." + string(f)
}

// Init draws the charts and fills in the bank KPIs.
func (d *Dashboard) Init(ctx context.Context) error {
	return d.Refresh(ctx)
}

// Refresh redraws the charts from the current datasets and rewrites the
// bank KPIs.
func (d *Dashboard) Refresh(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "dashboard.Refresh")
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.registerCharts()
	for _, slot := range d.chartSlots() {
		d.doc.SetAttr(slot.ID, "src", slot.Src)
	}
	d.binder.UpdateBankKPIs(d.set.Bank.KPIs)
	logger.Debug(ctx, "Dashboard refreshed", "charts", len(d.charts.IDs()))
	return nil
}

// SetData swaps the portfolio and bank datasets and refreshes. The trading
// table keeps its rows.
func (d *Dashboard) SetData(ctx context.Context, portfolio types.PortfolioData, bank types.BankData) error {
	d.mu.Lock()
	d.set.Portfolio = portfolio
	d.set.Bank = bank
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetupCalculators subscribes the calculators and the trading table inputs.
func (d *Dashboard) SetupCalculators(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.binder.SetupCalculators(d.doc)
	for _, r := range d.doc.PositionRows() {
		for _, id := range binder.RowInputIDs(r.Ticker()) {
			d.doc.OnInput(id, func() { d.recompute(context.WithoutCancel(ctx)) })
		}
	}
	logger.Debug(ctx, "Calculators wired", "rows", len(d.doc.PositionRows()))
}

func (d *Dashboard) UpdateTradingAnalysis(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recompute(ctx)
}

// recompute must run with d.mu held.
func (d *Dashboard) recompute(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "dashboard.UpdateTradingAnalysis")
	defer span.End()

	d.totals = d.binder.UpdateTradingAnalysis()
	logger.Recompute(ctx, d.totals.Rows,
		calc.Float(d.totals.Value), calc.Float(d.totals.Profit()), calc.Float(d.totals.ROI()))
}

// ApplyPrices writes each tick to its displays, recomputes the table, then
// journals the ticks and notifies subscribers.
func (d *Dashboard) ApplyPrices(ctx context.Context, ticks []types.PriceTick) {
	d.mu.Lock()
	applied := make([]types.PriceTick, 0, len(ticks))
	for _, t := range ticks {
		t.Text = d.binder.ApplyPrice(t.Symbol, t.Price)
		d.latest[t.Symbol] = t
		applied = append(applied, t)
		logger.Tick(ctx, t.Symbol, t.Price, t.Source, "text", t.Text)
	}
	d.recompute(ctx)
	subs := append([]func([]types.PriceTick){}, d.subscribers...)
	d.mu.Unlock()

	if d.journal != nil {
		if err := d.journal.Append(applied...); err != nil {
			logger.Warn(ctx, "Failed to journal prices", "error", err)
		}
	}
	for _, fn := range subs {
		fn(applied)
	}
}

// Subscribe registers fn to receive every applied batch.
func (d *Dashboard) Subscribe(fn func([]types.PriceTick)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, fn)
}

// Input sets an input's value and fires its listeners. It reports false for
// unknown ids.
func (d *Dashboard) Input(id, value string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.SetValue(id, value)
}

// Text returns an element's current text, and false when it is missing.
func (d *Dashboard) Text(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.doc.Element(id)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// Prices returns the latest applied tick per symbol, in table order.
func (d *Dashboard) Prices() []types.PriceTick {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]types.PriceTick, 0, len(d.latest))
	for _, sym := range d.set.Tickers() {
		if t, ok := d.latest[sym]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (d *Dashboard) Totals() calc.Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totals
}

func (d *Dashboard) Tickers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.set.Tickers()
}

func (d *Dashboard) Charts() *chart.Registry { return d.charts }

func (d *Dashboard) ChartFormat() vgsurface.Format { return d.chartFormat }

func (d *Dashboard) Formatter() *format.Formatter { return d.f }

// WriteHTML serializes the current page.
func (d *Dashboard) WriteHTML(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.doc.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// EncodeChart writes chart id as an image.
func (d *Dashboard) EncodeChart(w io.Writer, id string, f vgsurface.Format) error {
	c, ok := d.charts.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", chart.ErrUnknownChart, id)
	}
	return vgsurface.Encode(w, c, f)
}
