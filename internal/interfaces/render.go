package interfaces

// Element is a single text node the dashboard can read from or project onto.
type Element interface {
	Text() string
	SetText(text string)
	Value() string
	SetClass(class string)
}

// CellRole names a cell inside a trading table row.
type CellRole string

const (
	CellShares        CellRole = "shares"
	CellPurchase      CellRole = "purchase"
	CellCurrentPrice  CellRole = "current-price"
	CellTotalValue    CellRole = "total-value"
	CellProfitLoss    CellRole = "profit-loss"
	CellChangePercent CellRole = "change-percent"
)

type PositionRowView interface {
	Ticker() string
	// Cell returns nil when the row has no cell for role.
	Cell(role CellRole) Element
}

// RenderTarget abstracts the page. Lookups return nil for missing elements;
// callers treat that as a no-op.
type RenderTarget interface {
	Element(id string) Element
	PriceCell(symbol string) Element
	PositionRows() []PositionRowView
}

// InputTarget is a RenderTarget whose editable fields notify listeners.
type InputTarget interface {
	RenderTarget
	OnInput(id string, fn func())
	// SetValue stores v and fires the listeners of id. It reports false
	// when no such input exists.
	SetValue(id, v string) bool
}
