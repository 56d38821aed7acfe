package agents

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/runlog"
)

func testSnapshot() *models.MarketSnapshot {
	rsi := 72.0
	return &models.MarketSnapshot{
		Gold: models.Quote{Symbol: "GC=F", Price: 2950, DayChgPct: 2.1, RSI: &rsi},
		FXRates: map[string]float64{
			"ZAR": 18.50, "GHS": 15.80, "NGN": 1620.0, "KES": 129.0,
		},
		KaratPrices: map[string]map[string]decimal.Decimal{
			"ZAR": {"24K": decimal.NewFromFloat(1754.55)},
			"GHS": {"24K": decimal.NewFromFloat(1498.66)},
			"NGN": {"24K": decimal.NewFromFloat(153651.70)},
			"KES": {"24K": decimal.NewFromFloat(12235.64)},
		},
	}
}

func testRunContext(snap *models.MarketSnapshot, pt models.PostType) *models.RunContext {
	return models.NewRunContext(snap, pt, time.Date(2026, 3, 17, 8, 0, 0, 0, time.UTC))
}

func TestRegionalStage(t *testing.T) {
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostAfricaRegional)

	payload, err := NewRegionalStage().Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	highlights := payload.GetStrings("highlights")
	if len(highlights) != 4 {
		t.Fatalf("expected one highlight per available currency, got %d", len(highlights))
	}
	joined := strings.Join(highlights, "\n")
	if !strings.Contains(joined, "South Africa") || !strings.Contains(joined, "Ghana") {
		t.Errorf("producer countries missing from highlights: %s", joined)
	}
	// March 17 falls inside the Ramadan window.
	signals := payload.GetStrings("signals")
	if len(signals) == 0 {
		t.Error("expected at least one seasonal signal in mid-March")
	}
	if margins := payload.GetStrings("miner_margins"); len(margins) != 5 {
		t.Errorf("expected 5 tracked miners, got %d", len(margins))
	}
	// Every tracked AISC is below $2950 spot.
	if composite := payload.GetFloat("composite_margin_usd"); composite <= 0 {
		t.Errorf("composite margin = %.0f, want positive at $2950", composite)
	}
}

func TestRegionalStageNoFXRates(t *testing.T) {
	snap := testSnapshot()
	snap.FXRates = nil
	rc := testRunContext(snap, models.PostAfricaRegional)

	if _, err := NewRegionalStage().Run(snap, rc); err == nil {
		t.Fatal("expected error without FX rates")
	}
}

func TestContractsStage(t *testing.T) {
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostAggregator)

	payload, err := NewContractsStage().Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	notes := payload.GetStrings("notes")
	if len(notes) != 6 {
		t.Fatalf("expected 6 contract notes, got %d", len(notes))
	}
	// Kibali has the widest gap: largest output at the lowest royalty rate.
	if !strings.Contains(notes[0], "Kibali") {
		t.Errorf("expected Kibali first by gap, got %q", notes[0])
	}
	if payload.GetFloat("total_gap_usd") <= 0 {
		t.Error("expected positive total royalty gap")
	}
	if tonnes := payload.GetFloat("shadow_tonnes"); tonnes != 397.5 {
		t.Errorf("shadow tonnes = %.1f, want midpoint of 321-474", tonnes)
	}
	// Burkina Faso nationalised + Mali renegotiated.
	if active := int(payload.GetFloat("nationalism_active")); active != 2 {
		t.Errorf("active nationalism alerts = %d, want 2", active)
	}
}

func TestSEOStage(t *testing.T) {
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostTraderIntelligence)

	payload, err := NewSEOStage().Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := payload.GetString("slug"); got != "gold-briefing-trader-intelligence-2026-03-17" {
		t.Errorf("slug = %q", got)
	}

	meta := payload.GetString("meta_description")
	if len(meta) > 160 {
		t.Errorf("meta description is %d chars, limit 160", len(meta))
	}
	if !strings.Contains(meta, "$2950") {
		t.Errorf("meta description missing price: %q", meta)
	}

	jsonLD := payload.GetString("json_ld")
	if !strings.Contains(jsonLD, `application/ld+json`) ||
		!strings.Contains(jsonLD, "gold-briefing-trader-intelligence-2026-03-17") {
		t.Errorf("json-ld block malformed: %q", jsonLD)
	}

	tags, _ := payload["tags"].([]string)
	if len(tags) == 0 || len(tags) > 15 {
		t.Fatalf("tag count = %d, want 1..15", len(tags))
	}
	joined := strings.Join(tags, "|")
	if !strings.Contains(joined, "gold rally") {
		t.Error("expected 'gold rally' tag for +2.1% day")
	}
	if !strings.Contains(joined, "gold overbought") {
		t.Error("expected 'gold overbought' tag for RSI 72")
	}
	if !strings.Contains(joined, "gold price South Africa") {
		t.Error("expected ZAR country tag")
	}
}

func TestSEOStageDeduplicatesTags(t *testing.T) {
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostAggregator)

	payload, err := NewSEOStage().Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tags, _ := payload["tags"].([]string)
	seen := make(map[string]bool)
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if seen[key] {
			t.Errorf("duplicate tag %q", tag)
		}
		seen[key] = true
	}
}

func TestSocialStageUsesDeliveryLink(t *testing.T) {
	cfg := &config.Config{SiteBaseURL: "https://africagoldintel.com"}
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostTraderIntelligence)
	rc.SetPayload("delivery", models.Payload{"post_url": "https://posts.example.com/abc"})

	payload, err := NewSocialStage(cfg).Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(payload.GetString("twitter"), "https://posts.example.com/abc") {
		t.Error("twitter copy missing post link")
	}
}

func TestSocialStageFallsBackToHomepage(t *testing.T) {
	cfg := &config.Config{SiteBaseURL: "https://africagoldintel.com"}
	snap := testSnapshot()
	rc := testRunContext(snap, models.PostTraderIntelligence)

	payload, err := NewSocialStage(cfg).Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, key := range []string{"twitter", "linkedin", "whatsapp"} {
		if !strings.Contains(payload.GetString(key), "https://africagoldintel.com") {
			t.Errorf("%s copy missing homepage fallback link", key)
		}
	}
}

func TestPickContacts(t *testing.T) {
	today := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	partners := []Partner{
		{ID: "a", Name: "Ama", Organization: "Mining Weekly", Email: "ama@example.com"},
		{ID: "b", Name: "Brian", Organization: "Gold Hub", Email: "brian@example.com", LastContacted: "2026-03-10"},
		{ID: "c", Name: "Chidi", Organization: "Naija Finance", Email: "chidi@example.com", LastContacted: "2025-12-01"},
		{ID: "d", Name: "NoEmail", Organization: "Ghost Org"},
	}

	due := pickContacts(partners, today)
	if len(due) != 2 {
		t.Fatalf("expected 2 due partners, got %d", len(due))
	}
	if due[0].ID != "a" || due[1].ID != "c" {
		t.Errorf("due = %v, want never-contacted then cooled-down", []string{due[0].ID, due[1].ID})
	}
}

func TestOutreachStageMarksContacted(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}
	partners := []Partner{
		{ID: "a", Name: "Ama", Organization: "Mining Weekly", Email: "ama@example.com"},
		{ID: "b", Name: "Brian", Organization: "Gold Hub", Email: "brian@example.com"},
	}
	data, err := json.Marshal(partners)
	if err != nil {
		t.Fatalf("marshal partners: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DataDir, "partners.json"), data, 0o644); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	snap := testSnapshot()
	rc := testRunContext(snap, models.PostAggregator)
	stage := NewOutreachStage(cfg)

	payload, err := stage.Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(payload.GetStrings("drafts")); got != 2 {
		t.Fatalf("expected 2 drafts on first run, got %d", got)
	}

	saved, err := stage.loadPartners()
	if err != nil {
		t.Fatalf("reload registry: %v", err)
	}
	for _, p := range saved {
		if p.LastContacted != "2026-03-17" {
			t.Errorf("partner %s last_contacted = %q, want 2026-03-17", p.ID, p.LastContacted)
		}
	}

	// The stamped registry blocks re-drafting on the next run.
	payload, err = stage.Run(snap, rc)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := len(payload.GetStrings("drafts")); got != 0 {
		t.Errorf("expected no drafts while cooldown active, got %d", got)
	}
}

func TestAnalyticsStageSparklines(t *testing.T) {
	log := runlog.New(filepath.Join(t.TempDir(), "run_log.jsonl"))
	for i, rec := range []models.RunRecord{
		{Status: models.StatusSuccess, GoldPrice: 2900, UpsellScore: 40},
		{Status: models.StatusSuccess, GoldPrice: 2950, UpsellScore: 55},
		{Status: models.StatusSuccess, GoldPrice: 3000, UpsellScore: 70},
	} {
		rec.Timestamp = time.Now().AddDate(0, 0, i-3)
		if err := log.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	snap := testSnapshot()
	rc := testRunContext(snap, models.PostAggregator)
	payload, err := NewAnalyticsStage(log).Run(snap, rc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := payload.GetString("sparkline"); len([]rune(got)) != 3 {
		t.Errorf("price sparkline = %q, want 3 bars", got)
	}
	if got := payload.GetString("score_sparkline"); len([]rune(got)) != 3 {
		t.Errorf("score sparkline = %q, want 3 bars", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Errorf("sparkline(nil) = %q", got)
	}
	got := sparkline([]float64{2900, 2950, 3000})
	if len([]rune(got)) != 3 {
		t.Fatalf("expected 3 bars, got %q", got)
	}
	runes := []rune(got)
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("expected min and max bars at extremes, got %q", got)
	}
}
