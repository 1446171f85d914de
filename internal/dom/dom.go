// Package dom holds the dashboard page as a goquery document and exposes it
// as a render target.
package dom

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/types"
)

//go:embed dashboard.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("dashboard").Parse(pageSource))

// ChartSlot is an image placeholder on the page.
type ChartSlot struct {
	ID            string
	Src           string
	Width, Height float64
}

type PageData struct {
	Title     string
	Unit      string
	Positions []types.Position
	Charts    []ChartSlot
	// Live adds the script that posts input changes and reloads on pushed
	// prices.
	Live bool
}

// Render writes the initial page markup.
func Render(w io.Writer, pd PageData) error {
	if pd.Title == "" {
		pd.Title = "Portfolio Dashboard"
	}
	if err := pageTemplate.Execute(w, pd); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Document is a parsed page. It is not safe for concurrent use.
type Document struct {
	doc       *goquery.Document
	listeners map[string][]func()
}

var _ interfaces.InputTarget = (*Document)(nil)

// NewPage renders pd and parses the result.
func NewPage(pd PageData) (*Document, error) {
	var buf bytes.Buffer
	if err := Render(&buf, pd); err != nil {
		return nil, err
	}
	return Parse(&buf)
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{doc: doc, listeners: make(map[string][]func())}, nil
}

func byID(id string) string {
	return "[id=" + strconv.Quote(id) + "]"
}

func (d *Document) find(selector string) *goquery.Selection {
	return d.doc.Find(selector).First()
}

func (d *Document) Element(id string) interfaces.Element {
	return wrap(d.find(byID(id)))
}

func (d *Document) PriceCell(symbol string) interfaces.Element {
	return wrap(d.find(".current-price[data-ticker=" + strconv.Quote(symbol) + "]"))
}

func (d *Document) PositionRows() []interfaces.PositionRowView {
	var rows []interfaces.PositionRowView
	d.doc.Find("#trading-table-body tr").Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, row{sel: s})
	})
	return rows
}

func (d *Document) OnInput(id string, fn func()) {
	d.listeners[id] = append(d.listeners[id], fn)
}

func (d *Document) SetValue(id, v string) bool {
	sel := d.find(byID(id))
	if sel.Length() == 0 {
		return false
	}
	sel.SetAttr("value", v)
	for _, fn := range d.listeners[id] {
		fn()
	}
	return true
}

// SetAttr sets one attribute on the element with id. It reports false when
// the element is missing.
func (d *Document) SetAttr(id, name, value string) bool {
	sel := d.find(byID(id))
	if sel.Length() == 0 {
		return false
	}
	sel.SetAttr(name, value)
	return true
}

func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

func (d *Document) WriteTo(w io.Writer) (int64, error) {
	html, err := d.HTML()
	if err != nil {
		return 0, fmt.Errorf("serialize page: %w", err)
	}
	n, err := io.WriteString(w, html)
	return int64(n), err
}

type element struct {
	sel *goquery.Selection
}

// wrap keeps the nil-interface contract for missing elements.
func wrap(sel *goquery.Selection) interfaces.Element {
	if sel.Length() == 0 {
		return nil
	}
	return element{sel: sel}
}

func (e element) Text() string          { return e.sel.Text() }
func (e element) SetText(text string)   { e.sel.SetText(text) }
func (e element) Value() string         { return e.sel.AttrOr("value", "") }
func (e element) SetClass(class string) { e.sel.SetAttr("class", class) }

var cellSelectors = map[interfaces.CellRole]string{
	interfaces.CellShares:        ".shares-input input",
	interfaces.CellPurchase:      ".purchase-input input",
	interfaces.CellCurrentPrice:  ".current-price",
	interfaces.CellTotalValue:    ".total-value",
	interfaces.CellProfitLoss:    ".profit-loss",
	interfaces.CellChangePercent: ".change-percent",
}

type row struct {
	sel *goquery.Selection
}

// Ticker is the first cell's text, falling back to the row's data-ticker.
func (r row) Ticker() string {
	if t := strings.TrimSpace(r.sel.Find("td").First().Text()); t != "" {
		return t
	}
	return r.sel.AttrOr("data-ticker", "")
}

func (r row) Cell(role interfaces.CellRole) interfaces.Element {
	sel, ok := cellSelectors[role]
	if !ok {
		return nil
	}
	return wrap(r.sel.Find(sel).First())
}
