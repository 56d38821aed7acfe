package agents

import (
	"fmt"
	"strings"

	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/runlog"
)

const (
	analyticsWindowDays = 7
	sparklineWindowDays = 14
)

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// AnalyticsStage aggregates the trailing week of run records into the
// snapshot that rides along on the oversight notification.
type AnalyticsStage struct {
	log *runlog.Logger
}

func NewAnalyticsStage(log *runlog.Logger) *AnalyticsStage {
	return &AnalyticsStage{log: log}
}

func (s *AnalyticsStage) Name() string { return "analytics" }

func (s *AnalyticsStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	records, err := s.log.ReadWindow(analyticsWindowDays)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return models.Payload{"summary": "no runs in the trailing week"}, nil
	}

	var successes int
	var elapsedTotal float64
	var prices, scores []float64
	typeCounts := make(map[string]int)

	for _, rec := range records {
		if rec.Succeeded() {
			successes++
		}
		elapsedTotal += rec.ElapsedS
		if rec.GoldPrice > 0 {
			prices = append(prices, rec.GoldPrice)
		}
		if rec.UpsellScore > 0 {
			scores = append(scores, float64(rec.UpsellScore))
		}
		if rec.PostType != "" {
			typeCounts[rec.PostType]++
		}
	}

	successRate := float64(successes) / float64(len(records)) * 100
	avgElapsed := elapsedTotal / float64(len(records))

	summary := fmt.Sprintf("%d runs in %d days, %.0f%% success, avg %.1fs per run",
		len(records), analyticsWindowDays, successRate, avgElapsed)
	if lo, hi, ok := priceRange(prices); ok {
		summary += fmt.Sprintf(", gold ranged $%.0f-$%.0f", lo, hi)
	}

	// The sparklines use a wider window than the headline stats.
	sparkPrices, sparkScores := prices, scores
	if wide, err := s.log.ReadWindow(sparklineWindowDays); err == nil {
		sparkPrices, sparkScores = nil, nil
		for _, rec := range wide {
			if rec.GoldPrice > 0 {
				sparkPrices = append(sparkPrices, rec.GoldPrice)
			}
			if rec.UpsellScore > 0 {
				sparkScores = append(sparkScores, float64(rec.UpsellScore))
			}
		}
	}

	return models.Payload{
		"summary":         summary,
		"runs":            len(records),
		"success_rate":    successRate,
		"avg_elapsed":     avgElapsed,
		"streak":          runlog.SuccessStreak(records),
		"type_counts":     typeCounts,
		"sparkline":       sparkline(sparkPrices),
		"score_sparkline": sparkline(sparkScores),
	}, nil
}

func priceRange(prices []float64) (lo, hi float64, ok bool) {
	if len(prices) == 0 {
		return 0, 0, false
	}
	lo, hi = prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi, true
}

// sparkline renders a price series as unicode bars, flat series as midbars.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi, _ := priceRange(values)
	var b strings.Builder
	for _, v := range values {
		idx := len(sparkBars) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBars)-1))
		}
		b.WriteRune(sparkBars[idx])
	}
	return b.String()
}
