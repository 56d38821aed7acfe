package models

// Strategy is the monetization angle recommended for one issue.
type Strategy string

const (
	StrategyNone          Strategy = "none"
	StrategyValueReminder Strategy = "value_reminder"
	StrategySoftUpsell    Strategy = "soft_upsell"
	StrategyHardUpsell    Strategy = "hard_upsell"
	StrategyPromo         Strategy = "promo"
)

// PricingWindow classifies how aggressively pricing content should run today.
type PricingWindow string

const (
	WindowNow  PricingWindow = "NOW"
	WindowSoon PricingWindow = "SOON"
	WindowWait PricingWindow = "WAIT"
)

// MonetizationDecision is the scorer's advisory output. It rides along on
// the run record; it never gates publication.
type MonetizationDecision struct {
	Score      int            `json:"score"`
	Components map[string]int `json:"components"`
	Strategy   Strategy       `json:"strategy"`
	Window     PricingWindow  `json:"window"`
	Reason     string         `json:"reason"`
}
