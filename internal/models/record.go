package models

import "time"

// RunStatus is the terminal state of one pipeline run.
type RunStatus string

const (
	StatusSuccess RunStatus = "SUCCESS"
	StatusFailed  RunStatus = "FAILED"
	StatusHalted  RunStatus = "HALTED"
	StatusDryRun  RunStatus = "DRY_RUN"
)

// RunRecord is one line of the append-only run log. The log is the only
// durable state the system keeps: success streaks and promotional cooldowns
// are both reconstructed by scanning records backward.
type RunRecord struct {
	Timestamp time.Time `json:"ts"`
	Status    RunStatus `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Error     string    `json:"error,omitempty"`

	PostType string `json:"post_type,omitempty"`
	PostID   string `json:"post_id,omitempty"`
	PostURL  string `json:"post_url,omitempty"`
	Channel  string `json:"channel,omitempty"`

	GoldPrice float64 `json:"gold_price,omitempty"`
	DayPct    float64 `json:"day_pct,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	ElapsedS float64  `json:"elapsed_s"`

	UpsellScore    int    `json:"upsell_score,omitempty"`
	UpsellStrategy string `json:"upsell_strategy,omitempty"`
}

// Succeeded reports whether the run published (or dry-ran) cleanly.
func (r RunRecord) Succeeded() bool {
	return r.Status == StatusSuccess
}
