package models

import "time"

// PostType identifies one edition of the 7-day editorial calendar.
type PostType string

const (
	PostTraderIntelligence PostType = "trader_intelligence"
	PostAfricaRegional     PostType = "africa_regional"
	PostAggregator         PostType = "aggregator"
	PostKaratPricing       PostType = "karat_pricing"
	PostMacroOutlook       PostType = "macro_outlook"
	PostEducational        PostType = "educational"
	PostWeekReview         PostType = "week_review"
)

// dayTypes maps time.Weekday to the scheduled edition.
var dayTypes = map[time.Weekday]PostType{
	time.Monday:    PostTraderIntelligence,
	time.Tuesday:   PostAfricaRegional,
	time.Wednesday: PostAggregator,
	time.Thursday:  PostKaratPricing,
	time.Friday:    PostMacroOutlook,
	time.Saturday:  PostEducational,
	time.Sunday:    PostWeekReview,
}

// PostTypeLabels maps each edition to its human-readable name.
var PostTypeLabels = map[PostType]string{
	PostTraderIntelligence: "Trader Intelligence Briefing",
	PostAfricaRegional:     "Africa Regional Report",
	PostAggregator:         "Midweek Gold Digest",
	PostKaratPricing:       "Karat Pricing Update",
	PostMacroOutlook:       "Friday Macro Outlook",
	PostEducational:        "Weekend Gold Education",
	PostWeekReview:         "Weekly Market Review",
}

// ScheduledPostType returns the edition for a given day.
func ScheduledPostType(day time.Time) PostType {
	if pt, ok := dayTypes[day.Weekday()]; ok {
		return pt
	}
	return PostAggregator
}

// ParsePostType validates a forced --post-type value. The second return is
// false for unknown names; callers fall back to the scheduled edition.
func ParsePostType(name string) (PostType, bool) {
	pt := PostType(name)
	_, ok := PostTypeLabels[pt]
	return pt, ok
}

// Label returns the display label for the edition.
func (pt PostType) Label() string {
	if l, ok := PostTypeLabels[pt]; ok {
		return l
	}
	return "Daily Briefing"
}

// ValidPostTypeNames lists every accepted --post-type value.
func ValidPostTypeNames() []string {
	return []string{
		string(PostTraderIntelligence), string(PostAfricaRegional),
		string(PostAggregator), string(PostKaratPricing),
		string(PostMacroOutlook), string(PostEducational),
		string(PostWeekReview),
	}
}
