package dom

import (
	"bytes"
	"strings"
	"testing"

	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/types"
)

func newTestPage(t *testing.T) *Document {
	t.Helper()
	d, err := NewPage(PageData{
		Unit: "€",
		Positions: []types.Position{
			{Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
			{Ticker: "GOOGL", Shares: 2, PurchasePrice: 2500},
		},
		Charts: []ChartSlot{{ID: "assetAllocationChart", Src: "charts/assetAllocationChart.svg", Width: 300, Height: 300}},
	})
	if err != nil {
		t.Fatalf("NewPage failed: %v", err)
	}
	return d
}

func TestElementLookup(t *testing.T) {
	d := newTestPage(t)

	for _, id := range []string{"bank-total-assets", "bank-tier1-ratio", "price-AAPL", "portfolio-roi", "shares-result", "roi"} {
		if d.Element(id) == nil {
			t.Errorf("Expected element %q", id)
		}
	}
	if d.Element("missing") != nil {
		t.Error("Expected nil for a missing element")
	}

	el := d.Element("bank-roa")
	el.SetText("1.2%")
	if got := d.Element("bank-roa").Text(); got != "1.2%" {
		t.Errorf("Expected 1.2%%, got %q", got)
	}
}

func TestPositionRows(t *testing.T) {
	d := newTestPage(t)

	rows := d.PositionRows()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	r := rows[0]
	if r.Ticker() != "AAPL" {
		t.Errorf("Expected AAPL, got %q", r.Ticker())
	}
	if got := r.Cell(interfaces.CellShares).Value(); got != "10" {
		t.Errorf("Expected shares 10, got %q", got)
	}
	if got := r.Cell(interfaces.CellPurchase).Value(); got != "150" {
		t.Errorf("Expected purchase 150, got %q", got)
	}
	for _, role := range []interfaces.CellRole{interfaces.CellCurrentPrice, interfaces.CellTotalValue, interfaces.CellProfitLoss, interfaces.CellChangePercent} {
		if r.Cell(role) == nil {
			t.Errorf("Expected a %s cell", role)
		}
	}
	if r.Cell("bogus") != nil {
		t.Error("Expected nil for an unknown role")
	}
}

func TestPriceCellSharesRowCell(t *testing.T) {
	d := newTestPage(t)

	cell := d.PriceCell("GOOGL")
	if cell == nil {
		t.Fatal("Expected a price cell for GOOGL")
	}
	cell.SetText("€2,512.34")
	if got := d.PositionRows()[1].Cell(interfaces.CellCurrentPrice).Text(); got != "€2,512.34" {
		t.Errorf("Expected the row to see the new price, got %q", got)
	}
	if d.PriceCell("MSFT") != nil {
		t.Error("Expected nil for an unknown symbol")
	}
}

func TestSetValueFiresListeners(t *testing.T) {
	d := newTestPage(t)

	calls := 0
	d.OnInput("investment-amount", func() { calls++ })
	d.OnInput("investment-amount", func() { calls++ })

	if !d.SetValue("investment-amount", "1000") {
		t.Fatal("Expected the input to exist")
	}
	if calls != 2 {
		t.Errorf("Expected 2 listener calls, got %d", calls)
	}
	if got := d.Element("investment-amount").Value(); got != "1000" {
		t.Errorf("Expected value 1000, got %q", got)
	}
	if d.SetValue("nope", "1") {
		t.Error("Expected false for a missing input")
	}
}

func TestSetClassAndSerialize(t *testing.T) {
	d := newTestPage(t)

	d.Element("roi-result").SetClass("calc-value negative")
	if !d.SetAttr("assetAllocationChart", "src", "charts/assetAllocationChart.png") {
		t.Fatal("Expected the chart slot to exist")
	}

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `class="calc-value negative"`) {
		t.Error("Expected the new class in the output")
	}
	if !strings.Contains(out, "assetAllocationChart.png") {
		t.Error("Expected the new chart source in the output")
	}
	if strings.Contains(out, "<script>") {
		t.Error("Expected no live script on a static page")
	}
}

func TestLivePageHasScript(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, PageData{Unit: "€", Live: true}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "new WebSocket") {
		t.Error("Expected the live script")
	}
}
