// Package monetize scores each issue's upsell opportunity and picks the
// monetization strategy and pricing window. The output is advisory only; it
// annotates the run record and the synthesized content but never gates
// publication.
package monetize

import (
	"fmt"
	"math"
	"time"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/runlog"
)

// postTypeScores rates each edition's conversion potential before the 0.25
// weighting is applied.
var postTypeScores = map[models.PostType]int{
	models.PostTraderIntelligence: 95,
	models.PostMacroOutlook:       90,
	models.PostWeekReview:         85,
	models.PostAfricaRegional:     80,
	models.PostKaratPricing:       70,
	models.PostAggregator:         65,
	models.PostEducational:        60,
}

const defaultPostTypeScore = 60

// Pricing window thresholds. The window is a separate decision tree from
// the strategy ladder; it shares the score but not the cooldowns.
const (
	windowNowScore     = 80
	windowWeekdayScore = 70
	windowSoonScore    = 60
	windowNowMovePct   = 2.0
)

// Scorer computes upsell scores and resolves strategy cooldowns against the
// run history.
type Scorer struct {
	cfg *config.Config
}

func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score sums five capped components and clamps the total to [0, 100].
func (s *Scorer) Score(snapshot *models.MarketSnapshot, postType models.PostType, history []models.RunRecord) (int, map[string]int) {
	components := map[string]int{
		"volatility":  volatilityComponent(snapshot.Gold.DayChgPct),
		"rsi_extreme": rsiComponent(snapshot.Gold.RSI),
		"post_type":   postTypeComponent(postType),
		"price_level": priceLevelComponent(snapshot.Gold.Price),
		"streak":      streakComponent(runlog.SuccessStreak(history)),
	}

	total := 0
	for _, v := range components {
		total += v
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return total, components
}

// Decide maps the score onto the strategy ladder. A tier blocked by its
// cooldown falls through to the next lower tier rather than to none.
func (s *Scorer) Decide(snapshot *models.MarketSnapshot, postType models.PostType, history []models.RunRecord, now time.Time) models.MonetizationDecision {
	score, components := s.Score(snapshot, postType, history)

	strategy := models.StrategyNone
	reason := "score below value-reminder threshold"
	switch {
	case score >= s.cfg.PromoScoreMin && s.cooldownClear(history, models.StrategyPromo, s.cfg.PromoCooldownDays, now):
		strategy = models.StrategyPromo
		reason = "high score with promo cooldown clear"
	case score >= s.cfg.HardScoreMin && s.cooldownClear(history, models.StrategyHardUpsell, s.cfg.HardCooldownDays, now):
		strategy = models.StrategyHardUpsell
		reason = "strong score with hard-upsell cooldown clear"
	case score >= s.cfg.SoftScoreMin:
		strategy = models.StrategySoftUpsell
		reason = "moderate score"
	case score >= s.cfg.ReminderScoreMin:
		strategy = models.StrategyValueReminder
		reason = "low score"
	}

	return models.MonetizationDecision{
		Score:      score,
		Components: components,
		Strategy:   strategy,
		Window:     pricingWindow(score, snapshot.Gold.DayChgPct, now),
		Reason:     reason,
	}
}

// cooldownClear reports whether the strategy last ran at least cooldownDays
// ago, judged from successful runs in the history.
func (s *Scorer) cooldownClear(history []models.RunRecord, strategy models.Strategy, cooldownDays int, now time.Time) bool {
	days, found := runlog.DaysSinceStrategy(history, strategy, now)
	if !found {
		return true
	}
	return days >= cooldownDays
}

// pricingWindow judges the move by magnitude; a crash day draws as much
// attention as a rally.
func pricingWindow(score int, dayChgPct float64, now time.Time) models.PricingWindow {
	weekday := now.Weekday()
	switch {
	case score >= windowNowScore && math.Abs(dayChgPct) >= windowNowMovePct:
		return models.WindowNow
	case score >= windowWeekdayScore && (weekday == time.Monday || weekday == time.Friday):
		return models.WindowNow
	case score >= windowSoonScore:
		return models.WindowSoon
	default:
		return models.WindowWait
	}
}

func volatilityComponent(dayChgPct float64) int {
	a := math.Abs(dayChgPct)
	switch {
	case a >= 3:
		return 30
	case a >= 2:
		return 22
	case a >= 1:
		return 14
	default:
		return 5
	}
}

func rsiComponent(rsi *float64) int {
	if rsi == nil {
		return 0
	}
	switch {
	case *rsi >= 75 || *rsi <= 25:
		return 20
	case *rsi >= 65 || *rsi <= 35:
		return 12
	default:
		return 4
	}
}

func postTypeComponent(postType models.PostType) int {
	base, ok := postTypeScores[postType]
	if !ok {
		base = defaultPostTypeScore
	}
	return int(math.Round(float64(base) * 0.25))
}

func priceLevelComponent(price float64) int {
	switch {
	case price >= 5000:
		return 20
	case price >= 3500:
		return 14
	case price >= 2500:
		return 8
	default:
		return 3
	}
}

func streakComponent(streak int) int {
	switch {
	case streak >= 7:
		return 5
	case streak >= 3:
		return 3
	default:
		return 0
	}
}

// PricingLine renders the subscription offer used in premium footers.
func (s *Scorer) PricingLine(strategy models.Strategy) string {
	switch strategy {
	case models.StrategyPromo:
		return fmt.Sprintf("Limited offer: annual access for $%.0f (normally $%.0f)", s.cfg.PromoPrice, s.cfg.AnnualPrice)
	case models.StrategyHardUpsell, models.StrategySoftUpsell:
		return fmt.Sprintf("Go premium: $%.0f/month or $%.0f/year", s.cfg.MonthlyPrice, s.cfg.AnnualPrice)
	case models.StrategyValueReminder:
		return fmt.Sprintf("Full access from $%.0f/month", s.cfg.MonthlyPrice)
	default:
		return ""
	}
}
