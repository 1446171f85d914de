// Command dashboard renders the portfolio dashboard and keeps its prices
// live, either as a static export (-out) or behind an HTTP server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/prices"
	"portfolio-dashboard/internal/server"
	"portfolio-dashboard/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	render := flag.Bool("render", false, "render once into output.dir and exit")
	outDir := flag.String("out", "", "render once into this directory and exit")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	must(initializeSystem())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := trace.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "Failed to flush traces", "error", err)
		}
	}()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	set, err := loadData(ctx, cfg)
	must(err)
	journal := initializeJournal(ctx, cfg)

	live := !*render && *outDir == ""
	d, err := initializeDashboard(ctx, cfg, set, journal, live)
	must(err)

	provider, err := initializeProvider(ctx, cfg, d)
	must(err)
	poller := prices.NewPoller(provider, d.Tickers(), cfg.PollInterval(), d.ApplyPrices)

	if !live {
		poller.PollOnce(ctx)
		dir := cfg.Output.Dir
		if *outDir != "" {
			dir = *outDir
		}
		must(d.Export(ctx, dir))
		logger.Info(ctx, "Dashboard exported", "dir", dir)
		return
	}

	srv := server.New(cfg.Server.Addr, d, journal)
	must(poller.Start(ctx))
	defer poller.Stop()

	logger.Info(ctx, "Dashboard started", "poll_interval", poller.Interval().String(), "source", provider.Name())
	if err := srv.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Server failed", err)
	}
	logger.Info(ctx, "Shutting down...")
}
