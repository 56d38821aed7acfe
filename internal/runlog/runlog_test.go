package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/africagold/goldintel/internal/models"
)

func tempLogger(t *testing.T) *Logger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "run_log.jsonl"))
}

func TestAppendAndReadAll(t *testing.T) {
	logger := tempLogger(t)

	recs := []models.RunRecord{
		{Status: models.StatusSuccess, PostType: "trader_intelligence", GoldPrice: 2950, ElapsedS: 12.5},
		{Status: models.StatusFailed, Stage: "distribution", Error: "all channels exhausted"},
		{Status: models.StatusDryRun, PostType: "karat_pricing"},
	}
	for _, rec := range recs {
		if err := logger.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Status != models.StatusSuccess || got[0].GoldPrice != 2950 {
		t.Errorf("first record mismatch: %+v", got[0])
	}
	if got[1].Stage != "distribution" {
		t.Errorf("expected failure stage preserved, got %q", got[1].Stage)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("expected Append to stamp a timestamp")
	}
}

func TestReadAllSkipsCorruptLines(t *testing.T) {
	logger := tempLogger(t)

	if err := logger.Append(models.RunRecord{Status: models.StatusSuccess}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	f, err := os.OpenFile(logger.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("{not valid json\n\n"); err != nil {
		t.Fatalf("write corrupt line: %v", err)
	}
	f.Close()
	if err := logger.Append(models.RunRecord{Status: models.StatusHalted, Stage: "quality_gate"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected corrupt line skipped, got %d records", len(got))
	}
	if got[1].Status != models.StatusHalted {
		t.Errorf("expected HALTED after corrupt line, got %s", got[1].Status)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger := New(filepath.Join(t.TempDir(), "absent.jsonl"))
	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d records", len(got))
	}
}

func TestRecent(t *testing.T) {
	logger := tempLogger(t)
	for i := 0; i < 5; i++ {
		if err := logger.Append(models.RunRecord{Status: models.StatusSuccess, ElapsedS: float64(i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := logger.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ElapsedS != 3 || got[1].ElapsedS != 4 {
		t.Errorf("expected newest two in order, got %+v", got)
	}
}

func TestSuccessStreak(t *testing.T) {
	statuses := func(ss ...models.RunStatus) []models.RunRecord {
		recs := make([]models.RunRecord, len(ss))
		for i, s := range ss {
			recs[i] = models.RunRecord{Status: s}
		}
		return recs
	}

	cases := []struct {
		name    string
		records []models.RunRecord
		want    int
	}{
		{"empty", nil, 0},
		{"all success", statuses(models.StatusSuccess, models.StatusSuccess, models.StatusSuccess), 3},
		{"failure breaks trailing streak", statuses(
			models.StatusSuccess, models.StatusSuccess, models.StatusSuccess,
			models.StatusFailed, models.StatusSuccess), 1},
		{"newest failed", statuses(models.StatusSuccess, models.StatusFailed), 0},
		{"halt breaks streak", statuses(models.StatusSuccess, models.StatusHalted, models.StatusSuccess), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SuccessStreak(tc.records); got != tc.want {
				t.Errorf("SuccessStreak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDaysSinceStrategy(t *testing.T) {
	now := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	records := []models.RunRecord{
		{Status: models.StatusSuccess, Timestamp: now.AddDate(0, 0, -20), UpsellStrategy: "promo"},
		{Status: models.StatusFailed, Timestamp: now.AddDate(0, 0, -10), UpsellStrategy: "promo"},
		{Status: models.StatusSuccess, Timestamp: now.AddDate(0, 0, -5), UpsellStrategy: "soft_upsell"},
	}

	days, ok := DaysSinceStrategy(records, models.StrategyPromo, now)
	if !ok {
		t.Fatal("expected promo occurrence found")
	}
	if days != 20 {
		t.Errorf("expected 20 days since promo (failed run ignored), got %d", days)
	}

	if _, ok := DaysSinceStrategy(records, models.StrategyHardUpsell, now); ok {
		t.Error("expected no hard_upsell occurrence")
	}
}
