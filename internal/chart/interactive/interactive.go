// Package interactive renders the dashboard datasets as an echarts page.
package interactive

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/lucasb-eyer/go-colorful"

	"portfolio-dashboard/internal/chart"
	"portfolio-dashboard/internal/format"
)

const PageTitle = "Portfolio Dashboard"

func hexOf(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

func initOpts(c chart.Chart) charts.GlobalOpts {
	w, h := c.Size()
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: PageTitle,
		ChartID:   c.ID(),
		Width:     fmt.Sprintf("%.0fpx", w),
		Height:    fmt.Sprintf("%.0fpx", h),
	})
}

// Pie mirrors the allocation pie with the same palette and labels.
func Pie(p *chart.PieChart) *charts.Pie {
	pie := charts.NewPie()
	colors := make(opts.Colors, len(p.Palette))
	for i, c := range p.Palette {
		colors[i] = hexOf(c)
	}
	pie.SetGlobalOptions(
		initOpts(p),
		charts.WithTitleOpts(opts.Title{Title: "Asset Allocation"}),
		charts.WithColorsOpts(colors),
	)

	data := make([]opts.PieData, 0, len(p.Allocation))
	for _, s := range p.Allocation {
		data = append(data, opts.PieData{Name: s.Name, Value: s.Percent})
	}
	pie.AddSeries("allocation", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Formatter: "{b}: {c}%"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: p.Radius}),
			charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: hexOf(chart.White), BorderWidth: 2}),
		)
	return pie
}

// Line plots subject and benchmark on the same padded scale as the static
// chart.
func Line(l *chart.LineChart) *charts.Line {
	line := charts.NewLine()
	y := opts.YAxis{Type: "value"}
	if s, ok := l.Scale(); ok {
		y.Min, y.Max = s.Min, s.Max
	}
	line.SetGlobalOptions(
		initOpts(l),
		charts.WithTitleOpts(opts.Title{Title: "Performance"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(y),
	)

	line.SetXAxis(l.Series.Labels).
		AddSeries(l.SubjectName, lineData(l.Series.Subject),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexOf(chart.Teal), Width: 3})).
		AddSeries(l.BenchmarkName, lineData(l.Series.Benchmark),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexOf(chart.Red), Width: 2, Type: "dashed"}))
	return line
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

// Bar shows net income in millions, labelled like the static chart.
func Bar(b *chart.BarChart) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(b),
		charts.WithTitleOpts(opts.Title{Title: "Net Income (" + b.Unit + "M)"}),
	)

	scaled := b.Scaled()
	data := make([]opts.BarData, len(scaled))
	for i, v := range scaled {
		data[i] = opts.BarData{Name: b.Unit + format.Fixed(v, 1) + "M", Value: v}
	}
	bar.SetXAxis(b.Financials.Quarters).
		AddSeries("Net Income", data).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: hexOf(chart.Teal)}))
	return bar
}

// NewPage collects the charts of reg that have an interactive form, in
// registration order.
func NewPage(reg *chart.Registry) *components.Page {
	page := components.NewPage()
	page.PageTitle = PageTitle
	for _, id := range reg.IDs() {
		c, ok := reg.Get(id)
		if !ok {
			continue
		}
		switch c := c.(type) {
		case *chart.PieChart:
			page.AddCharts(Pie(c))
		case *chart.LineChart:
			page.AddCharts(Line(c))
		case *chart.BarChart:
			page.AddCharts(Bar(c))
		}
	}
	return page
}

// Render writes the interactive page for reg to w.
func Render(w io.Writer, reg *chart.Registry) error {
	if err := NewPage(reg).Render(w); err != nil {
		return fmt.Errorf("render interactive page: %w", err)
	}
	return nil
}
