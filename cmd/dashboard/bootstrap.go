package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"portfolio-dashboard/internal/chart"
	"portfolio-dashboard/internal/chart/vgsurface"
	"portfolio-dashboard/internal/dashboard"
	"portfolio-dashboard/internal/data"
	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/pricelog"
	"portfolio-dashboard/internal/prices"
	"portfolio-dashboard/internal/prices/pricesobs"
	"portfolio-dashboard/internal/store"
	"portfolio-dashboard/internal/trace"
)

// initializeSystem loads .env and starts the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig reads path, falling back to defaults when the file is absent
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Config file not found, using defaults", "path", path)
		return store.Default(), nil
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

func loadData(ctx context.Context, cfg *store.Config) (data.Set, error) {
	if cfg.DataFile == "" {
		return data.Default(cfg.Tickers), nil
	}
	set, err := data.LoadFile(cfg.DataFile, cfg.Tickers)
	if err != nil {
		return data.Set{}, err
	}
	logger.Info(ctx, "Loaded dashboard data", "file", cfg.DataFile, "tickers", len(set.Tickers()))
	return set, nil
}

// initializeJournal opens the price journal and compresses old days
func initializeJournal(ctx context.Context, cfg *store.Config) *pricelog.Journal {
	j := pricelog.New(cfg.PriceLog.Dir)
	if cfg.PriceLog.RetentionDays > 0 {
		if err := j.CompressOlder(cfg.PriceLog.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old price logs", "error", err)
		}
	}
	return j
}

// initializeDashboard builds the dashboard and runs the initial render
func initializeDashboard(ctx context.Context, cfg *store.Config, set data.Set, journal *pricelog.Journal, live bool) (*dashboard.Dashboard, error) {
	chartFormat, err := vgsurface.ParseFormat(cfg.Charts.Format)
	if err != nil {
		return nil, err
	}
	d, err := dashboard.New(set, dashboard.Options{
		Formatter:   cfg.Formatter(),
		ChartFormat: chartFormat,
		Journal:     journal,
		Live:        live,
		Palette:     chart.ParsePalette(cfg.Charts.Palette),
	})
	if err != nil {
		return nil, err
	}
	if err := d.Init(ctx); err != nil {
		return nil, err
	}
	d.SetupCalculators(ctx)
	d.UpdateTradingAnalysis(ctx)
	return d, nil
}

// initializeProvider returns the configured price source with observability
func initializeProvider(ctx context.Context, cfg *store.Config, d *dashboard.Dashboard) (interfaces.PriceProvider, error) {
	p, err := prices.NewProvider(cfg, d.Formatter())
	if err != nil {
		return nil, err
	}
	if cfg.Prices.Source == store.SourceMock {
		logger.Info(ctx, "Using MOCK prices", "tickers", len(d.Tickers()))
	} else {
		logger.Info(ctx, "Using live prices", "source", p.Name())
	}
	return pricesobs.Wrap(p), nil
}
