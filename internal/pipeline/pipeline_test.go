package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/notify"
	"github.com/africagold/goldintel/internal/runlog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:         dir,
		CacheDir:        filepath.Join(dir, "cache"),
		LogPath:         filepath.Join(dir, "run_log.jsonl"),
		PriceFloor:      800,
		PriceCeiling:    15000,
		DayMovePctLimit: 10,
	}
}

func healthySnapshot() *models.MarketSnapshot {
	rsi := 55.0
	return &models.MarketSnapshot{
		Gold: models.Quote{Symbol: "GC=F", Price: 2950, DayChg: 60, DayChgPct: 2.1, RSI: &rsi},
		FXRates: map[string]float64{
			"ZAR": 18.50, "GHS": 15.80, "NGN": 1620.0, "KES": 129.0,
		},
		News: []models.Headline{{Title: "Gold extends rally", Source: "Kitco"}},
	}
}

func TestQualityGateHealthySnapshot(t *testing.T) {
	gate := NewQualityGate(testConfig(t))
	anomalies := gate.Evaluate(healthySnapshot())
	if len(anomalies) != 0 {
		t.Fatalf("expected clean gate, got %v", anomalies)
	}
}

func TestQualityGatePriceBand(t *testing.T) {
	gate := NewQualityGate(testConfig(t))

	for _, price := range []float64{500, 20000} {
		snap := healthySnapshot()
		snap.Gold.Price = price
		anomalies := gate.Evaluate(snap)
		if len(models.Criticals(anomalies)) != 1 {
			t.Errorf("price %.0f: expected one critical, got %v", price, anomalies)
		}
	}

	// Boundary values are inside the band.
	for _, price := range []float64{800, 15000} {
		snap := healthySnapshot()
		snap.Gold.Price = price
		if crits := models.Criticals(gate.Evaluate(snap)); len(crits) != 0 {
			t.Errorf("price %.0f: expected no criticals, got %v", price, crits)
		}
	}
}

func TestQualityGateEvaluatesEveryCheck(t *testing.T) {
	gate := NewQualityGate(testConfig(t))

	snap := healthySnapshot()
	snap.Gold.Price = 300
	snap.Gold.DayChgPct = -12.5
	snap.FXRates = map[string]float64{"ZAR": 18.50}
	snap.News = nil

	anomalies := gate.Evaluate(snap)
	// 1 critical + day move + 3 missing currencies + empty news.
	if len(anomalies) != 6 {
		t.Fatalf("expected 6 anomalies, got %d: %v", len(anomalies), anomalies)
	}
	if len(models.Criticals(anomalies)) != 1 {
		t.Errorf("expected exactly one critical")
	}
	warnings := strings.Join(models.WarningStrings(anomalies), "\n")
	for _, want := range []string{"day move", "GHS", "NGN", "KES", "headlines"} {
		if !strings.Contains(warnings, want) {
			t.Errorf("warnings missing %q:\n%s", want, warnings)
		}
	}
}

type stubStage struct {
	name    string
	payload models.Payload
	err     error
	panics  bool
	ran     bool
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Run(_ *models.MarketSnapshot, _ *models.RunContext) (models.Payload, error) {
	s.ran = true
	if s.panics {
		panic("stage blew up")
	}
	return s.payload, s.err
}

func TestRunStagesIsolatesFailures(t *testing.T) {
	rc := models.NewRunContext(healthySnapshot(), models.PostTraderIntelligence, time.Now())

	failing := &stubStage{name: "failing", err: errors.New("boom")}
	panicking := &stubStage{name: "panicking", panics: true}
	healthy := &stubStage{name: "healthy", payload: models.Payload{"ok": "yes"}}

	runStages([]Stage{failing, panicking, healthy}, rc, zap.NewNop())

	if !healthy.ran {
		t.Fatal("stage after failures never ran")
	}
	for _, name := range []string{"failing", "panicking"} {
		if p := rc.Payload(name); len(p) != 0 {
			t.Errorf("%s payload = %v, want empty", name, p)
		}
		if rc.HasPayload(name) {
			t.Errorf("%s should not report a non-empty payload", name)
		}
	}
	if got := rc.Payload("healthy").GetString("ok"); got != "yes" {
		t.Errorf("healthy payload lost: %q", got)
	}
}

type stubFetcher struct {
	snapshot *models.MarketSnapshot
	err      error
}

func (f *stubFetcher) Fetch() (*models.MarketSnapshot, error) { return f.snapshot, f.err }

type stubPublisher struct {
	result *models.DeliveryResult
	err    error
	called bool
}

func (p *stubPublisher) Publish(_ *models.Issue, _ bool) (*models.DeliveryResult, []models.DistributionAttempt, error) {
	p.called = true
	if p.err != nil {
		return nil, []models.DistributionAttempt{{Channel: "api", Err: p.err.Error()}}, p.err
	}
	return p.result, []models.DistributionAttempt{{Channel: p.result.Channel}}, nil
}

type stubBuilder struct {
	issue *models.Issue
	err   error
}

func (b *stubBuilder) Build(_ *models.RunContext) (*models.Issue, error) { return b.issue, b.err }

type stubOversight struct {
	outcomes []notify.Outcome
}

func (o *stubOversight) Notify(outcome notify.Outcome) { o.outcomes = append(o.outcomes, outcome) }

func testOrchestrator(t *testing.T, cfg *config.Config, fetcher Fetcher, publisher Publisher) (*Orchestrator, *stubOversight) {
	t.Helper()
	oversight := &stubOversight{}
	o := &Orchestrator{
		cfg:     cfg,
		logger:  zap.NewNop(),
		fetcher: fetcher,
		gate:    NewQualityGate(cfg),
		builder: &stubBuilder{issue: &models.Issue{
			Title:       "Gold Market Briefing",
			FreeHTML:    "<p>free</p>",
			PremiumHTML: "<p>premium</p>",
		}},
		dispatcher: publisher,
		runLog:     runlog.New(cfg.LogPath),
		oversight:  oversight,
		preStages:  nil,
		seoStages:  nil,
		finalStages: []Stage{
			&stubStage{name: "monetization", payload: models.Payload{"score": 66, "strategy": "hard_upsell"}},
		},
		now: time.Now,
	}
	return o, oversight
}

func lastRecord(t *testing.T, cfg *config.Config) models.RunRecord {
	t.Helper()
	records, err := runlog.New(cfg.LogPath).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("no run records written")
	}
	return records[len(records)-1]
}

func TestRunSuccess(t *testing.T) {
	cfg := testConfig(t)
	publisher := &stubPublisher{result: &models.DeliveryResult{
		Channel: "api", PostID: "post_123", PostURL: "https://example.com/p/abc",
	}}
	o, oversight := testOrchestrator(t, cfg, &stubFetcher{snapshot: healthySnapshot()}, publisher)

	if err := o.Run(Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := lastRecord(t, cfg)
	if rec.Status != models.StatusSuccess {
		t.Fatalf("status = %s, want SUCCESS", rec.Status)
	}
	if rec.PostID != "post_123" || rec.Channel != "api" {
		t.Errorf("delivery fields = %q/%q", rec.PostID, rec.Channel)
	}
	if rec.UpsellScore != 66 || rec.UpsellStrategy != "hard_upsell" {
		t.Errorf("upsell fields = %d/%q", rec.UpsellScore, rec.UpsellStrategy)
	}
	if len(oversight.outcomes) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(oversight.outcomes))
	}
	if oversight.outcomes[0].Err != nil {
		t.Errorf("success notification carried an error: %v", oversight.outcomes[0].Err)
	}
}

func TestRunHaltsOnCriticalAnomaly(t *testing.T) {
	cfg := testConfig(t)
	snap := healthySnapshot()
	snap.Gold.Price = 42
	publisher := &stubPublisher{}
	o, oversight := testOrchestrator(t, cfg, &stubFetcher{snapshot: snap}, publisher)

	err := o.Run(Options{})
	if err == nil {
		t.Fatal("expected halt error")
	}
	if publisher.called {
		t.Error("distribution must not run after a halt")
	}

	rec := lastRecord(t, cfg)
	if rec.Status != models.StatusHalted || rec.Stage != "quality_gate" {
		t.Errorf("record = %s/%s, want HALTED/quality_gate", rec.Status, rec.Stage)
	}
	if len(oversight.outcomes) != 1 || oversight.outcomes[0].Err == nil {
		t.Error("expected a single failure notification")
	}
}

func TestRunFailsWhenFetchFails(t *testing.T) {
	cfg := testConfig(t)
	o, _ := testOrchestrator(t, cfg, &stubFetcher{err: errors.New("yahoo down")}, &stubPublisher{})

	if err := o.Run(Options{}); err == nil {
		t.Fatal("expected fetch error")
	}
	rec := lastRecord(t, cfg)
	if rec.Status != models.StatusFailed || rec.Stage != "market_fetch" {
		t.Errorf("record = %s/%s, want FAILED/market_fetch", rec.Status, rec.Stage)
	}
}

func TestRunSucceedsDespiteFailingEnrichment(t *testing.T) {
	cfg := testConfig(t)
	publisher := &stubPublisher{result: &models.DeliveryResult{Channel: "api", PostID: "p1"}}
	o, _ := testOrchestrator(t, cfg, &stubFetcher{snapshot: healthySnapshot()}, publisher)
	o.preStages = []Stage{&stubStage{name: "regional", err: errors.New("registry offline")}}

	if err := o.Run(Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec := lastRecord(t, cfg); rec.Status != models.StatusSuccess {
		t.Errorf("status = %s, want SUCCESS", rec.Status)
	}
}

func TestRunRecordsDistributionFailure(t *testing.T) {
	cfg := testConfig(t)
	publisher := &stubPublisher{err: errors.New("channels exhausted")}
	o, oversight := testOrchestrator(t, cfg, &stubFetcher{snapshot: healthySnapshot()}, publisher)

	if err := o.Run(Options{}); err == nil {
		t.Fatal("expected distribution error")
	}
	rec := lastRecord(t, cfg)
	if rec.Status != models.StatusFailed || rec.Stage != "distribution" {
		t.Errorf("record = %s/%s, want FAILED/distribution", rec.Status, rec.Stage)
	}
	if len(oversight.outcomes) != 1 || len(oversight.outcomes[0].Attempts) == 0 {
		t.Error("failure notification should carry the attempt trail")
	}
}

func TestRunDryRunSkipsDistribution(t *testing.T) {
	cfg := testConfig(t)
	publisher := &stubPublisher{result: &models.DeliveryResult{Channel: "api"}}
	o, _ := testOrchestrator(t, cfg, &stubFetcher{snapshot: healthySnapshot()}, publisher)

	if err := o.Run(Options{DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if publisher.called {
		t.Error("dry run must not touch distribution channels")
	}
	if rec := lastRecord(t, cfg); rec.Status != models.StatusDryRun {
		t.Errorf("status = %s, want DRY_RUN", rec.Status)
	}

	stamp := time.Now().Format("2006-01-02")
	for _, name := range []string{stamp + "-free.html", stamp + "-premium.html"} {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, "previews", name)); err != nil {
			t.Errorf("preview %s not written: %v", name, err)
		}
	}
}

func TestResolvePostType(t *testing.T) {
	o := &Orchestrator{logger: zap.NewNop()}
	monday := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

	if got := o.resolvePostType("macro_outlook", monday); got != models.PostMacroOutlook {
		t.Errorf("override = %s", got)
	}
	if got := o.resolvePostType("", monday); got != models.ScheduledPostType(monday) {
		t.Errorf("schedule fallback = %s", got)
	}
	if got := o.resolvePostType("definitely-not-a-type", monday); got != models.ScheduledPostType(monday) {
		t.Errorf("unknown name should fall back to schedule, got %s", got)
	}
}
