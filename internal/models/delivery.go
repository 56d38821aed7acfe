package models

// DeliveryResult is the outcome of the first channel that accepted the
// issue. PostURL may be empty when the channel published but could not
// report a public locator; that still counts as delivered.
type DeliveryResult struct {
	Channel  string `json:"channel"`
	PostID   string `json:"post_id,omitempty"`
	PostURL  string `json:"post_url,omitempty"`
	Audience string `json:"audience,omitempty"`
}

// DistributionAttempt records one channel try for the oversight report.
type DistributionAttempt struct {
	Channel string `json:"channel"`
	Err     string `json:"error,omitempty"`
}

// Issue is the fully synthesized newsletter, ready for distribution.
type Issue struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	PreviewText string   `json:"preview_text"`
	FreeHTML    string   `json:"free_html"`
	PremiumHTML string   `json:"premium_html"`
	Slug        string   `json:"slug"`
	MetaDesc    string   `json:"meta_description"`
	Tags        []string `json:"tags"`
}
