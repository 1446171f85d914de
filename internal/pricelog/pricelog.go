// Package pricelog journals applied price ticks as one JSON line per tick in
// a file per day.
package pricelog

import (
	"bufio"
	"context"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/types"
)

const ext = ".jsonl"

// Journal appends ticks under dir. It is safe for concurrent use.
type Journal struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs/prices"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Dir() string { return j.dir }

func (j *Journal) path(t time.Time) string {
	return filepath.Join(j.dir, t.Format("2006-01-02")+ext)
}

// Append writes ticks to today's file. Ticks without a time are stamped.
func (j *Journal) Append(ticks ...types.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	p := j.path(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, t := range ticks {
		if t.Time == 0 {
			t.Time = now.Unix()
		}
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("write tick %s: %w", t.Symbol, err)
		}
	}
	return nil
}

// ReadDay returns the ticks journaled on day: the compressed part first,
// then anything appended since. A day with no journal yields no ticks.
func (j *Journal) ReadDay(day time.Time) ([]types.PriceTick, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	p := j.path(day)
	var out []types.PriceTick
	found := false

	gz, err := os.Open(p + ".gz")
	switch {
	case err == nil:
		found = true
		zr, err := gzip.NewReader(gz)
		if err != nil {
			gz.Close()
			return nil, fmt.Errorf("open compressed journal: %w", err)
		}
		out, err = decode(zr, out)
		zr.Close()
		gz.Close()
		if err != nil {
			return out, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("open journal: %w", err)
	}

	f, err := os.Open(p)
	switch {
	case err == nil:
		found = true
		defer f.Close()
		out, err = decode(f, out)
		if err != nil {
			return out, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if !found {
		return nil, nil
	}
	return out, nil
}

func decode(r io.Reader, out []types.PriceTick) ([]types.PriceTick, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var t types.PriceTick
		if err := json.Unmarshal(sc.Bytes(), &t); err != nil {
			return out, fmt.Errorf("decode tick: %w", err)
		}
		out = append(out, t)
	}
	return out, sc.Err()
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago and removes the originals. A day that already has a .gz gets the plain
// file appended as a further gzip member. Files that fail are kept and
// logged.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx := context.Background()
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ext {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		_, statErr := os.Stat(gz)
		merge := statErr == nil
		if err := compress(p, gz, merge); err != nil {
			logger.Warn(ctx, "Failed to compress price journal, keeping plain file",
				"file", p, "merge", merge, "error", err)
			if !merge {
				os.Remove(gz)
			}
			return nil
		}
		if err := os.Remove(p); err != nil {
			logger.Warn(ctx, "Failed to remove compressed price journal", "file", p, "error", err)
		}
		return nil
	})
}

// compress writes src to dst as a gzip member, appending when merge is set.
func compress(src, dst string, merge bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if merge {
		flags = os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
