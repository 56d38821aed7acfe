// Package pipeline drives one end-to-end newsletter run: fetch, gate,
// enrich, synthesize, distribute, record. Execution is strictly sequential;
// stage isolation, not concurrency, is what keeps a bad day publishable.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/agents"
	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/content"
	"github.com/africagold/goldintel/internal/dataflows"
	"github.com/africagold/goldintel/internal/distribution"
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/monetize"
	"github.com/africagold/goldintel/internal/notify"
	"github.com/africagold/goldintel/internal/runlog"
)

// Fetcher supplies the market snapshot that seeds a run.
type Fetcher interface {
	Fetch() (*models.MarketSnapshot, error)
}

// Publisher delivers a finished issue through the channel chain.
type Publisher interface {
	Publish(issue *models.Issue, live bool) (*models.DeliveryResult, []models.DistributionAttempt, error)
}

// Builder synthesizes the issue from the run context.
type Builder interface {
	Build(rc *models.RunContext) (*models.Issue, error)
}

// Oversight closes the run with the single operator notification.
type Oversight interface {
	Notify(outcome notify.Outcome)
}

// Options select the behavior of one run.
type Options struct {
	// DryRun stops before distribution and writes previews to disk.
	DryRun bool
	// Live publishes immediately instead of leaving a draft.
	Live bool
	// PostType overrides the weekday schedule when it names a valid type.
	PostType string
}

// Orchestrator owns the run sequence. Exactly one of SUCCESS, FAILED,
// HALTED, or DRY_RUN is appended to the run log per invocation.
type Orchestrator struct {
	cfg    *config.Config
	logger *zap.Logger

	fetcher    Fetcher
	gate       *QualityGate
	builder    Builder
	dispatcher Publisher
	runLog     *runlog.Logger
	oversight  Oversight

	preStages   []Stage
	seoStages   []Stage
	finalStages []Stage

	now func() time.Time
}

func New(cfg *config.Config, logger *zap.Logger) *Orchestrator {
	runLog := runlog.New(cfg.LogPath)
	scorer := monetize.NewScorer(cfg)

	channels := []distribution.Channel{
		distribution.NewAPIChannel(cfg),
		distribution.NewBrowserChannel(cfg, logger),
		distribution.NewEmailChannel(cfg),
	}

	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		fetcher:    dataflows.NewMarketFetcher(cfg, logger),
		gate:       NewQualityGate(cfg),
		builder:    content.NewSynthesizer(cfg),
		dispatcher: distribution.NewDispatcher(channels, logger),
		runLog:     runLog,
		oversight:  notify.New(cfg, logger),
		preStages: []Stage{
			agents.NewRegionalStage(),
			agents.NewContractsStage(),
		},
		seoStages: []Stage{
			agents.NewSEOStage(),
		},
		finalStages: []Stage{
			agents.NewSocialStage(cfg),
			agents.NewOutreachStage(cfg),
			agents.NewMonetizationStage(scorer, runLog),
			agents.NewAnalyticsStage(runLog),
		},
		now: time.Now,
	}
}

// Run executes the full pipeline once.
func (o *Orchestrator) Run(opts Options) error {
	start := o.now()
	today := start

	postType := o.resolvePostType(opts.PostType, today)
	o.logger.Info("pipeline run starting",
		zap.String("post_type", string(postType)),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("live", opts.Live),
	)

	snapshot, err := o.fetcher.Fetch()
	if err != nil {
		return o.fail(start, postType, "market_fetch", nil, nil, err)
	}

	rc := models.NewRunContext(snapshot, postType, today)

	anomalies := o.gate.Evaluate(snapshot)
	warnings := models.WarningStrings(anomalies)
	if criticals := models.Criticals(anomalies); len(criticals) > 0 {
		reasons := make([]string, len(criticals))
		for i, a := range criticals {
			reasons[i] = a.Message
		}
		err := fmt.Errorf("quality gate: %s", strings.Join(reasons, "; "))
		o.append(models.RunRecord{
			Status:    models.StatusHalted,
			Stage:     "quality_gate",
			Error:     err.Error(),
			PostType:  string(postType),
			GoldPrice: snapshot.Gold.Price,
			DayPct:    snapshot.Gold.DayChgPct,
			Warnings:  warnings,
			ElapsedS:  o.elapsed(start),
		})
		o.oversight.Notify(notify.Outcome{FailedStage: "quality_gate", Err: err, Warnings: warnings})
		return err
	}
	for _, w := range warnings {
		o.logger.Warn("quality gate warning", zap.String("warning", w))
	}

	runStages(o.preStages, rc, o.logger)

	issue, err := o.builder.Build(rc)
	if err != nil {
		return o.fail(start, postType, "content_synthesis", snapshot, warnings, err)
	}
	rc.SetPayload("content", models.Payload{"title": issue.Title})

	runStages(o.seoStages, rc, o.logger)
	applySEO(issue, rc.Payload("seo"))

	if opts.DryRun {
		return o.dryRun(start, rc, issue, warnings)
	}

	result, attempts, err := o.dispatcher.Publish(issue, opts.Live)
	if err != nil {
		rec := models.RunRecord{
			Status:    models.StatusFailed,
			Stage:     "distribution",
			Error:     err.Error(),
			PostType:  string(postType),
			GoldPrice: snapshot.Gold.Price,
			DayPct:    snapshot.Gold.DayChgPct,
			Warnings:  warnings,
			ElapsedS:  o.elapsed(start),
		}
		o.append(rec)
		o.oversight.Notify(notify.Outcome{
			Issue:       issue,
			Attempts:    attempts,
			Warnings:    warnings,
			FailedStage: "distribution",
			Err:         err,
		})
		return fmt.Errorf("distribution: %w", err)
	}

	rc.SetPayload("delivery", models.Payload{
		"post_url": result.PostURL,
		"post_id":  result.PostID,
		"channel":  result.Channel,
	})

	runStages(o.finalStages, rc, o.logger)

	monetization := rc.Payload("monetization")
	record := models.RunRecord{
		Status:         models.StatusSuccess,
		PostType:       string(postType),
		PostID:         result.PostID,
		PostURL:        result.PostURL,
		Channel:        result.Channel,
		GoldPrice:      snapshot.Gold.Price,
		DayPct:         snapshot.Gold.DayChgPct,
		Warnings:       warnings,
		ElapsedS:       o.elapsed(start),
		UpsellScore:    int(monetization.GetFloat("score")),
		UpsellStrategy: monetization.GetString("strategy"),
	}
	o.append(record)

	o.oversight.Notify(notify.Outcome{
		Issue:          issue,
		Delivery:       result,
		Attempts:       attempts,
		Warnings:       warnings,
		Summary:        rc.Payload("analytics").GetString("summary"),
		Decision:       decisionFromPayload(monetization),
		SocialDrafts:   agents.Drafts(rc.Payload("social")),
		OutreachDrafts: rc.Payload("outreach").GetStrings("drafts"),
	})

	o.logger.Info("pipeline run complete",
		zap.String("channel", result.Channel),
		zap.String("post_id", result.PostID),
		zap.Float64("elapsed_s", record.ElapsedS),
	)
	return nil
}

// resolvePostType honors an explicit override, falling back to the weekday
// schedule when the name is unknown rather than refusing to run.
func (o *Orchestrator) resolvePostType(name string, today time.Time) models.PostType {
	if name == "" {
		return models.ScheduledPostType(today)
	}
	if pt, ok := models.ParsePostType(name); ok {
		return pt
	}
	scheduled := models.ScheduledPostType(today)
	o.logger.Warn("unknown post type, using weekday schedule",
		zap.String("requested", name),
		zap.String("scheduled", string(scheduled)),
	)
	return scheduled
}

// dryRun writes both content variants to disk and records the run without
// touching any distribution channel.
func (o *Orchestrator) dryRun(start time.Time, rc *models.RunContext, issue *models.Issue, warnings []string) error {
	dir := filepath.Join(o.cfg.DataDir, "previews")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}

	stamp := rc.Today.Format("2006-01-02")
	freePath := filepath.Join(dir, stamp+"-free.html")
	premiumPath := filepath.Join(dir, stamp+"-premium.html")
	if err := os.WriteFile(freePath, []byte(issue.FreeHTML), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	if err := os.WriteFile(premiumPath, []byte(issue.PremiumHTML), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	o.append(models.RunRecord{
		Status:    models.StatusDryRun,
		PostType:  string(rc.PostType),
		GoldPrice: rc.Snapshot.Gold.Price,
		DayPct:    rc.Snapshot.Gold.DayChgPct,
		Warnings:  warnings,
		ElapsedS:  o.elapsed(start),
	})

	o.logger.Info("dry run complete, previews written",
		zap.String("free", freePath),
		zap.String("premium", premiumPath),
	)
	return nil
}

func (o *Orchestrator) fail(start time.Time, postType models.PostType, stage string, snapshot *models.MarketSnapshot, warnings []string, err error) error {
	rec := models.RunRecord{
		Status:   models.StatusFailed,
		Stage:    stage,
		Error:    err.Error(),
		PostType: string(postType),
		Warnings: warnings,
		ElapsedS: o.elapsed(start),
	}
	if snapshot != nil {
		rec.GoldPrice = snapshot.Gold.Price
		rec.DayPct = snapshot.Gold.DayChgPct
	}
	o.append(rec)
	o.oversight.Notify(notify.Outcome{FailedStage: stage, Err: err, Warnings: warnings})
	return fmt.Errorf("%s: %w", stage, err)
}

// append writes the run record; a log write failure must not change the
// run's outcome, so it is only logged.
func (o *Orchestrator) append(rec models.RunRecord) {
	if err := o.runLog.Append(rec); err != nil {
		o.logger.Error("run log append failed", zap.Error(err))
	}
}

func (o *Orchestrator) elapsed(start time.Time) float64 {
	return o.now().Sub(start).Seconds()
}

// applySEO copies the finalized slug, tags, and meta description onto the
// issue. An empty payload leaves the issue publishable without them.
func applySEO(issue *models.Issue, p models.Payload) {
	if slug := p.GetString("slug"); slug != "" {
		issue.Slug = slug
	}
	if meta := p.GetString("meta_description"); meta != "" {
		issue.MetaDesc = meta
	}
	if tags, ok := p["tags"].([]string); ok && len(tags) > 0 {
		issue.Tags = tags
	}
	if jsonLD := p.GetString("json_ld"); jsonLD != "" {
		issue.FreeHTML += jsonLD
	}
}

func decisionFromPayload(p models.Payload) *models.MonetizationDecision {
	if len(p) == 0 {
		return nil
	}
	return &models.MonetizationDecision{
		Score:    int(p.GetFloat("score")),
		Strategy: models.Strategy(p.GetString("strategy")),
		Window:   models.PricingWindow(p.GetString("window")),
		Reason:   p.GetString("reason"),
	}
}
