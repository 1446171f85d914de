package types

// Share is one named slice of an allocation, in percent.
type Share struct {
	Name    string  `json:"name" yaml:"name"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Allocation is an ordered category → percentage mapping. Shares are
// expected to sum to 100 but nothing enforces it.
type Allocation []Share

func (a Allocation) Values() []float64 {
	out := make([]float64, len(a))
	for i, s := range a {
		out[i] = s.Percent
	}
	return out
}

func (a Allocation) Total() float64 {
	var t float64
	for _, s := range a {
		t += s.Percent
	}
	return t
}

// TimeSeriesPair is a subject series plotted against a benchmark over the
// same period labels.
type TimeSeriesPair struct {
	Subject   []float64 `json:"subject" yaml:"subject"`
	Benchmark []float64 `json:"benchmark" yaml:"benchmark"`
	Labels    []string  `json:"labels" yaml:"labels"`
}

type QuarterlyFinancials struct {
	Quarters    []string  `json:"quarters" yaml:"quarters"`
	NetIncome   []float64 `json:"net_income" yaml:"net_income"`
	TotalAssets []float64 `json:"total_assets" yaml:"total_assets"`
	Deposits    []float64 `json:"deposits" yaml:"deposits"`
}

// BankKPIs holds currency amounts in whole euros and ratios in percent.
type BankKPIs struct {
	Assets     float64 `json:"assets" yaml:"assets"`
	Deposits   float64 `json:"deposits" yaml:"deposits"`
	Loans      float64 `json:"loans" yaml:"loans"`
	Equity     float64 `json:"equity" yaml:"equity"`
	ROA        float64 `json:"roa" yaml:"roa"`
	ROE        float64 `json:"roe" yaml:"roe"`
	Tier1Ratio float64 `json:"tier1_ratio" yaml:"tier1_ratio"`
}

type PortfolioData struct {
	Allocation  Allocation     `json:"allocation" yaml:"allocation"`
	Performance TimeSeriesPair `json:"performance" yaml:"performance"`
}

type BankData struct {
	KPIs       BankKPIs            `json:"kpis" yaml:"kpis"`
	Financials QuarterlyFinancials `json:"financials" yaml:"financials"`
}

// PositionRow is one line of the trading table as read from the page.
type PositionRow struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	CurrentPrice  float64 `json:"current_price"`
}

// PriceTick is a single price observation produced by the poller.
type PriceTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Time   int64   `json:"time"`
}

// Bounds is an inclusive price range used by the mock provider.
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Position seeds one row of the trading table.
type Position struct {
	Ticker        string  `json:"ticker" yaml:"ticker"`
	Shares        float64 `json:"shares" yaml:"shares"`
	PurchasePrice float64 `json:"purchase_price" yaml:"purchase_price"`
}
