package agents

import (
	"fmt"
	"strings"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// SocialStage drafts cross-posting copy for the day's issue. It runs after
// distribution so it can link the published post; when the locator is
// absent it substitutes the site homepage so no broken link ever ships.
type SocialStage struct {
	cfg *config.Config
}

func NewSocialStage(cfg *config.Config) *SocialStage {
	return &SocialStage{cfg: cfg}
}

func (s *SocialStage) Name() string { return "social" }

func (s *SocialStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	link := rc.Payload("delivery").GetString("post_url")
	if link == "" {
		link = s.cfg.SiteBaseURL
	}

	hook := s.hook(snapshot, rc.PostType)
	gold := snapshot.Gold

	twitter := fmt.Sprintf("%s\n\nGold %s $%.2f (%+.2f%% today).\n\nFull briefing: %s\n\n#gold #XAUUSD #Africa",
		hook, direction(gold.DayChgPct), gold.Price, gold.DayChgPct, link)

	linkedin := fmt.Sprintf("%s\n\nToday's %s covers gold at $%.2f (%+.2f%%), African karat pricing, and the regional demand picture.\n\nRead it here: %s",
		hook, rc.PostType.Label(), gold.Price, gold.DayChgPct, link)

	whatsapp := fmt.Sprintf("*%s*\nGold: $%.2f (%+.2f%%)\n%s", rc.PostType.Label(), gold.Price, gold.DayChgPct, link)

	return models.Payload{
		"twitter":  twitter,
		"linkedin": linkedin,
		"whatsapp": whatsapp,
		"link":     link,
	}, nil
}

func (s *SocialStage) hook(snapshot *models.MarketSnapshot, pt models.PostType) string {
	pct := snapshot.Gold.DayChgPct
	switch {
	case pct >= 2:
		return fmt.Sprintf("Gold is ripping: %+.1f%% in a single session.", pct)
	case pct <= -2:
		return fmt.Sprintf("Gold just dropped %.1f%%. Here's what African traders should watch.", -pct)
	case pt == models.PostKaratPricing:
		return "What is a gram of gold worth in your currency today?"
	case pt == models.PostWeekReview:
		return "The week in gold, in five minutes."
	default:
		return "Your daily gold market read is out."
	}
}

func direction(v float64) string {
	if v >= 0 {
		return "up at"
	}
	return "down at"
}

// Drafts renders the social payload for previews and notifications.
func Drafts(p models.Payload) string {
	var b strings.Builder
	for _, key := range []string{"twitter", "linkedin", "whatsapp"} {
		if text := p.GetString(key); text != "" {
			fmt.Fprintf(&b, "--- %s ---\n%s\n\n", key, text)
		}
	}
	return b.String()
}
