package pricelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio-dashboard/internal/types"
)

func TestAppendAndReadDay(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	j := New(dir)
	j.now = func() time.Time { return day }

	err := j.Append(
		types.PriceTick{Symbol: "AAPL", Price: 150.5, Text: "€150.50", Source: "MOCK"},
		types.PriceTick{Symbol: "GOOGL", Price: 2512.34, Text: "€2,512.34", Source: "MOCK", Time: 42},
	)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-03-15.jsonl")); err != nil {
		t.Fatalf("Expected the daily file: %v", err)
	}

	ticks, err := j.ReadDay(day)
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("Expected 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Time != day.Unix() {
		t.Errorf("Expected stamped time %d, got %d", day.Unix(), ticks[0].Time)
	}
	if ticks[1].Time != 42 || ticks[1].Text != "€2,512.34" {
		t.Errorf("Unexpected tick %+v", ticks[1])
	}
}

func TestReadMissingDay(t *testing.T) {
	ticks, err := New(t.TempDir()).ReadDay(time.Now())
	if err != nil || ticks != nil {
		t.Errorf("Expected no ticks and no error, got %v %v", ticks, err)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := New(dir)
	j.now = func() time.Time { return old }
	if err := j.Append(types.PriceTick{Symbol: "AAPL", Price: 120}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	p := filepath.Join(dir, "2024-01-01.jsonl")
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	j.now = func() time.Time { return old.AddDate(0, 0, 10) }
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("Expected the plain file to be removed")
	}
	if _, err := os.Stat(p + ".gz"); err != nil {
		t.Errorf("Expected a compressed file: %v", err)
	}

	ticks, err := j.ReadDay(old)
	if err != nil || len(ticks) != 1 || ticks[0].Price != 120 {
		t.Errorf("Expected to read back the compressed tick, got %v %v", ticks, err)
	}
}

func TestCompressOlderKeepsRecent(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	if err := j.Append(types.PriceTick{Symbol: "AAPL", Price: 120}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.gz"))
	if len(matches) != 0 {
		t.Errorf("Expected no compressed files, got %v", matches)
	}
}

func TestCompressOlderMergesIntoExistingArchive(t *testing.T) {
	dir := t.TempDir()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := New(dir)
	j.now = func() time.Time { return old }
	p := filepath.Join(dir, "2024-01-01.jsonl")

	if err := j.Append(types.PriceTick{Symbol: "AAPL", Price: 120}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	later := func() time.Time { return old.AddDate(0, 0, 10) }
	j.now = later
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	// a late write for the same day lands in a new plain file
	j.now = func() time.Time { return old }
	if err := j.Append(types.PriceTick{Symbol: "GOOGL", Price: 2500}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	ticks, err := j.ReadDay(old)
	if err != nil || len(ticks) != 2 {
		t.Fatalf("Expected 2 ticks across archive and plain file, got %v %v", ticks, err)
	}

	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	j.now = later
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("Expected the plain file to be removed after merging")
	}

	ticks, err = j.ReadDay(old)
	if err != nil || len(ticks) != 2 {
		t.Fatalf("Expected 2 ticks after merging, got %v %v", ticks, err)
	}
	if ticks[0].Symbol != "AAPL" || ticks[1].Symbol != "GOOGL" {
		t.Errorf("Expected AAPL then GOOGL, got %s then %s", ticks[0].Symbol, ticks[1].Symbol)
	}
}
