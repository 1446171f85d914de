package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"portfolio-dashboard/internal/chart/interactive"
	"portfolio-dashboard/internal/logger"
)

// Export file names inside the output directory.
const (
	PageFile        = "dashboard.html"
	InteractiveFile = "interactive.html"
)

// Export writes the page, every chart image and the interactive page to dir.
func (d *Dashboard) Export(ctx context.Context, dir string) error {
	op := logger.StartOperation(ctx, "dashboard.Export", "dir", dir)

	if err := os.MkdirAll(filepath.Join(dir, "charts"), 0o755); err != nil {
		err = fmt.Errorf("create output dir: %w", err)
		op.EndWithError(err)
		return err
	}

	if err := writeFile(filepath.Join(dir, PageFile), d.WriteHTML); err != nil {
		op.EndWithError(err)
		return err
	}

	for _, id := range d.charts.IDs() {
		p := filepath.Join(dir, filepath.FromSlash(ChartPath(id, d.chartFormat)))
		err := writeFile(p, func(w io.Writer) error {
			return d.EncodeChart(w, id, d.chartFormat)
		})
		if err != nil {
			op.EndWithError(err)
			return err
		}
	}

	err := writeFile(filepath.Join(dir, InteractiveFile), func(w io.Writer) error {
		return interactive.Render(w, d.charts)
	})
	if err != nil {
		op.EndWithError(err)
		return err
	}

	op.End("charts", len(d.charts.IDs()))
	logger.Info(ctx, "Dashboard exported", "dir", dir)
	return nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
