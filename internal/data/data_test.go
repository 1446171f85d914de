package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Default([]string{"AAPL", "GOOGL", "MSFT"})
	if got := s.Portfolio.Allocation.Total(); got != 100 {
		t.Errorf("Expected allocation to total 100, got %v", got)
	}
	perf := s.Portfolio.Performance
	if len(perf.Subject) != 12 || len(perf.Benchmark) != 12 || len(perf.Labels) != 12 {
		t.Errorf("Expected 12 months of data")
	}
	if s.Bank.KPIs.Assets != 1_250_000_000 {
		t.Errorf("Unexpected assets %v", s.Bank.KPIs.Assets)
	}
	if len(s.Bank.Financials.NetIncome) != 4 {
		t.Errorf("Expected 4 quarters")
	}
	if len(s.Positions) != 3 || s.Positions[2].Ticker != "MSFT" || s.Positions[2].Shares != 0 {
		t.Errorf("Unexpected positions %+v", s.Positions)
	}
}

func TestLoadFileOverlays(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.yaml")
	body := `
portfolio:
  allocation:
    - {name: Stocks, percent: 50}
    - {name: Cash, percent: 50}
bank:
  kpis:
    assets: 2000000000
    roe: 9.5
positions:
  - {ticker: MSFT, shares: 3, purchase_price: 400}
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(p, []string{"AAPL"})
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(s.Portfolio.Allocation) != 2 {
		t.Errorf("Expected the allocation to be replaced, got %+v", s.Portfolio.Allocation)
	}
	if len(s.Portfolio.Performance.Subject) != 12 {
		t.Error("Expected the default performance to be kept")
	}
	if s.Bank.KPIs.Assets != 2_000_000_000 || s.Bank.KPIs.ROE != 9.5 {
		t.Errorf("Unexpected KPIs %+v", s.Bank.KPIs)
	}
	if len(s.Bank.Financials.Quarters) != 4 {
		t.Error("Expected the default financials to be kept")
	}
	if got := s.Tickers(); len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("Unexpected tickers %v", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"), []string{"AAPL"})
	if err == nil {
		t.Error("Expected an error")
	}
	if len(s.Positions) != 1 {
		t.Error("Expected defaults alongside the error")
	}
}
