package chart

import (
	"errors"
	"image/color"
	"strconv"

	"portfolio-dashboard/internal/format"
	"portfolio-dashboard/internal/types"
)

// Canvas identifiers shared with the page.
const (
	AssetAllocationID = "assetAllocationChart"
	PerformanceID     = "performanceChart"
	BankFinancialsID  = "bankFinancialsChart"
)

var ErrUnknownChart = errors.New("unknown chart")

// Chart draws itself onto a surface of its own fixed size.
type Chart interface {
	ID() string
	Size() (w, h float64)
	Draw(s Surface)
}

const (
	labelSize = 12
	titleSize = 14
)

// PieChart is the asset allocation chart.
type PieChart struct {
	Width, Height float64
	Radius        float64
	LabelOffset   float64
	Allocation    types.Allocation
	Palette       []color.Color
}

func NewPie(a types.Allocation) *PieChart {
	return &PieChart{Width: 300, Height: 300, Radius: 100, LabelOffset: 20, Allocation: a, Palette: DefaultPalette}
}

func (p *PieChart) ID() string           { return AssetAllocationID }
func (p *PieChart) Size() (w, h float64) { return p.Width, p.Height }

func (p *PieChart) Slices() []Slice {
	cx, cy := p.Width/2, p.Height/2
	return PieSlices(p.Allocation.Values(), cx, cy, p.Radius+p.LabelOffset)
}

func (p *PieChart) Draw(s Surface) {
	cx, cy := p.Width/2, p.Height/2
	for _, sl := range p.Slices() {
		var path Path
		path.Arc(cx, cy, p.Radius, sl.Start, sl.Sweep)
		path.LineTo(cx, cy)
		path.Close()

		s.Fill(path, paletteAt(p.Palette, sl.Index))
		s.Stroke(path, White, 2, nil)

		label := p.Allocation[sl.Index].Name + ": " + strconv.FormatFloat(sl.Value, 'f', -1, 64) + "%"
		s.FillText(label, sl.LabelX, sl.LabelY, labelSize, AlignCenter, TextColor)
	}
}

// LineChart is the portfolio-versus-benchmark performance chart.
type LineChart struct {
	Width, Height float64
	Padding       float64
	ScalePad      float64
	GridRows      int
	Series        types.TimeSeriesPair
	SubjectName   string
	BenchmarkName string
}

func NewLine(series types.TimeSeriesPair) *LineChart {
	return &LineChart{
		Width: 600, Height: 300, Padding: 40, ScalePad: 5, GridRows: 5,
		Series:        series,
		SubjectName:   "Portfolio",
		BenchmarkName: "Benchmark",
	}
}

func (l *LineChart) ID() string           { return PerformanceID }
func (l *LineChart) Size() (w, h float64) { return l.Width, l.Height }

func (l *LineChart) plot() (left, top, w, h float64) {
	return l.Padding, l.Padding, l.Width - 2*l.Padding, l.Height - 2*l.Padding
}

// Categories is the number of x positions: the label count, or the longest
// series when labels are missing.
func (l *LineChart) Categories() int {
	n := len(l.Series.Labels)
	if n == 0 {
		n = max(len(l.Series.Subject), len(l.Series.Benchmark))
	}
	return n
}

func (l *LineChart) Scale() (Scale, bool) {
	return PaddedScale(l.ScalePad, l.Series.Subject, l.Series.Benchmark)
}

func (l *LineChart) Draw(s Surface) {
	left, top, w, h := l.plot()
	n := l.Categories()

	for i := 0; i < n; i++ {
		x := XAt(i, n, left, w)
		var p Path
		p.MoveTo(x, top)
		p.LineTo(x, top+h)
		s.Stroke(p, GridGray, 1, nil)
	}
	for i := 0; i <= l.GridRows; i++ {
		y := top + float64(i)/float64(l.GridRows)*h
		var p Path
		p.MoveTo(left, y)
		p.LineTo(left+w, y)
		s.Stroke(p, GridGray, 1, nil)
	}

	if scale, ok := l.Scale(); ok {
		l.drawSeries(s, scale, l.Series.Subject, Teal, 3, nil)
		l.drawSeries(s, scale, l.Series.Benchmark, Red, 2, []float64{5, 5})
	}

	for i, label := range l.Series.Labels {
		if i%2 != 0 {
			continue
		}
		s.FillText(label, XAt(i, n, left, w), l.Height-10, labelSize, AlignCenter, TextColor)
	}

	s.Fill(Rect(l.Padding, 10, 15, 3), Teal)
	s.FillText(l.SubjectName, l.Padding+20, 17, labelSize, AlignLeft, TextColor)
	s.Fill(Rect(l.Padding+100, 10, 15, 3), Red)
	s.FillText(l.BenchmarkName, l.Padding+120, 17, labelSize, AlignLeft, TextColor)
}

// drawSeries strokes values as a polyline. A single value has no segment and
// is drawn as a dot in the middle of the plot.
func (l *LineChart) drawSeries(s Surface, scale Scale, values []float64, c color.Color, width float64, dashes []float64) {
	left, top, w, h := l.plot()
	n := len(values)
	switch n {
	case 0:
		return
	case 1:
		s.Fill(Circle(XAt(0, 1, left, w), scale.Y(values[0], top, h), width+1), c)
		return
	}
	var p Path
	for i, v := range values {
		x := XAt(i, n, left, w)
		y := scale.Y(v, top, h)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	s.Stroke(p, c, width, dashes)
}

// BarChart is the quarterly net income chart.
type BarChart struct {
	Width, Height float64
	Padding       float64
	Divisor       float64
	Unit          string
	Financials    types.QuarterlyFinancials
}

func NewBar(f types.QuarterlyFinancials, unit string) *BarChart {
	return &BarChart{Width: 600, Height: 400, Padding: 60, Divisor: 1_000_000, Unit: unit, Financials: f}
}

func (b *BarChart) ID() string           { return BankFinancialsID }
func (b *BarChart) Size() (w, h float64) { return b.Width, b.Height }

// Scaled is net income in millions.
func (b *BarChart) Scaled() []float64 {
	out := make([]float64, len(b.Financials.NetIncome))
	for i, v := range b.Financials.NetIncome {
		out[i] = v / b.Divisor
	}
	return out
}

func (b *BarChart) Bars() []Bar {
	return BarLayout(b.Scaled(), b.Padding, b.Padding, b.Width-2*b.Padding, b.Height-2*b.Padding)
}

func (b *BarChart) Draw(s Surface) {
	bars := b.Bars()
	for _, bar := range bars {
		s.Fill(Rect(bar.X, bar.Y, bar.Width, bar.Height), Teal)
		s.FillText(b.Unit+format.Fixed(bar.Value, 1)+"M", bar.LabelX, bar.LabelY, labelSize, AlignCenter, TextColor)
	}
	for i, q := range b.Financials.Quarters {
		if i >= len(bars) {
			break
		}
		s.FillText(q, bars[i].CategoryX, b.Height-20, labelSize, AlignCenter, TextColor)
	}
	s.FillText("Net Income ("+b.Unit+"M)", b.Width/2, 30, titleSize, AlignCenter, TextColor)
}
