// Package data holds the demo datasets shown by the dashboard and loads
// replacements from yaml.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"portfolio-dashboard/internal/types"
)

// Set is everything the dashboard renders.
type Set struct {
	Portfolio types.PortfolioData `yaml:"portfolio"`
	Bank      types.BankData      `yaml:"bank"`
	Positions []types.Position    `yaml:"positions"`
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func Portfolio() types.PortfolioData {
	return types.PortfolioData{
		Allocation: types.Allocation{
			{Name: "Stocks", Percent: 65},
			{Name: "Bonds", Percent: 25},
			{Name: "Cash", Percent: 7},
			{Name: "Commodities", Percent: 3},
		},
		Performance: types.TimeSeriesPair{
			Subject:   []float64{100, 102, 105, 103, 108, 112, 115, 118, 120, 117, 122, 125},
			Benchmark: []float64{100, 101, 103, 102, 106, 109, 111, 114, 116, 114, 118, 121},
			Labels:    append([]string(nil), months...),
		},
	}
}

func Bank() types.BankData {
	return types.BankData{
		KPIs: types.BankKPIs{
			Assets:     1_250_000_000,
			Deposits:   980_000_000,
			Loans:      850_000_000,
			Equity:     125_000_000,
			ROA:        1.2,
			ROE:        12.5,
			Tier1Ratio: 14.8,
		},
		Financials: types.QuarterlyFinancials{
			Quarters:    []string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024"},
			NetIncome:   []float64{12_500_000, 13_200_000, 14_100_000, 15_800_000},
			TotalAssets: []float64{1_200_000_000, 1_220_000_000, 1_240_000_000, 1_250_000_000},
			Deposits:    []float64{950_000_000, 965_000_000, 975_000_000, 980_000_000},
		},
	}
}

// Positions seeds the trading table for tickers. Symbols without a demo
// position start empty.
func Positions(tickers []string) []types.Position {
	seed := map[string]types.Position{
		"AAPL":  {Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
		"GOOGL": {Ticker: "GOOGL", Shares: 2, PurchasePrice: 2500},
	}
	out := make([]types.Position, 0, len(tickers))
	for _, t := range tickers {
		p, ok := seed[t]
		if !ok {
			p = types.Position{Ticker: t}
		}
		out = append(out, p)
	}
	return out
}

func Default(tickers []string) Set {
	return Set{Portfolio: Portfolio(), Bank: Bank(), Positions: Positions(tickers)}
}

// LoadFile overlays the sections present in a yaml file on the defaults.
func LoadFile(path string, tickers []string) (Set, error) {
	s := Default(tickers)
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read data file: %w", err)
	}
	var over struct {
		Portfolio *struct {
			Allocation  types.Allocation      `yaml:"allocation"`
			Performance *types.TimeSeriesPair `yaml:"performance"`
		} `yaml:"portfolio"`
		Bank *struct {
			KPIs       *types.BankKPIs            `yaml:"kpis"`
			Financials *types.QuarterlyFinancials `yaml:"financials"`
		} `yaml:"bank"`
		Positions []types.Position `yaml:"positions"`
	}
	if err := yaml.Unmarshal(b, &over); err != nil {
		return s, fmt.Errorf("parse data file %s: %w", path, err)
	}

	if p := over.Portfolio; p != nil {
		if p.Allocation != nil {
			s.Portfolio.Allocation = p.Allocation
		}
		if p.Performance != nil {
			s.Portfolio.Performance = *p.Performance
		}
	}
	if bk := over.Bank; bk != nil {
		if bk.KPIs != nil {
			s.Bank.KPIs = *bk.KPIs
		}
		if bk.Financials != nil {
			s.Bank.Financials = *bk.Financials
		}
	}
	if over.Positions != nil {
		s.Positions = over.Positions
	}
	return s, nil
}

// Tickers lists the position symbols in table order.
func (s Set) Tickers() []string {
	out := make([]string, len(s.Positions))
	for i, p := range s.Positions {
		out[i] = p.Ticker
	}
	return out
}
