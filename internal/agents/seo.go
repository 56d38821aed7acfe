package agents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/africagold/goldintel/internal/models"
)

const (
	siteURL   = "https://www.africagoldintelligence.com"
	publisher = "Africa Gold Intelligence"
)

var slugSegments = map[models.PostType]string{
	models.PostTraderIntelligence: "trader-intelligence",
	models.PostAfricaRegional:     "africa-regional-report",
	models.PostAggregator:         "market-aggregator",
	models.PostKaratPricing:       "karat-pricing",
	models.PostMacroOutlook:       "macro-outlook",
	models.PostEducational:        "gold-education",
	models.PostWeekReview:         "weekly-review",
}

var baseTags = map[models.PostType][]string{
	models.PostTraderIntelligence: {"gold trading", "XAU/USD", "gold futures", "gold technical analysis", "gold price today"},
	models.PostAfricaRegional:     {"gold price Africa", "African gold market", "gold mining Africa", "Africa precious metals"},
	models.PostAggregator:         {"gold news today", "gold market update", "precious metals news", "gold market briefing"},
	models.PostKaratPricing:       {"gold price per gram", "24k gold price", "22k gold price", "gold karat prices Africa"},
	models.PostMacroOutlook:       {"gold inflation hedge", "DXY gold", "gold Federal Reserve", "gold macro outlook"},
	models.PostEducational:        {"how to invest in gold Africa", "gold investing beginner", "gold bullion Africa"},
	models.PostWeekReview:         {"gold weekly review", "gold price this week", "gold market summary"},
}

var countryTags = map[string]string{
	"ZAR": "gold price South Africa",
	"GHS": "gold price Ghana",
	"NGN": "gold price Nigeria",
	"KES": "gold price Kenya",
	"EGP": "gold price Egypt",
	"MAD": "gold price Morocco",
}

const maxTags = 15

// SEOStage builds the slug, tag list, and meta description. It runs after
// content synthesis because the meta description references the issue title
// finalized there.
type SEOStage struct{}

func NewSEOStage() *SEOStage { return &SEOStage{} }

func (s *SEOStage) Name() string { return "seo" }

func (s *SEOStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	slug := fmt.Sprintf("gold-briefing-%s-%s", segmentFor(rc.PostType), rc.Today.Format("2006-01-02"))
	meta := buildMetaDescription(snapshot, rc.PostType)
	title := rc.Payload("content").GetString("title")

	return models.Payload{
		"slug":             slug,
		"tags":             buildTags(snapshot, rc.PostType),
		"meta_description": meta,
		"json_ld":          buildJSONLD(title, meta, slug, rc.Today),
	}, nil
}

// buildJSONLD renders the Article structured-data script tag appended to
// the web variant.
func buildJSONLD(title, meta, slug string, today time.Time) string {
	article := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      title,
		"description":   meta,
		"datePublished": today.Format("2006-01-02T15:04:05+00:00"),
		"url":           fmt.Sprintf("%s/p/%s", siteURL, slug),
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  publisher,
			"url":   siteURL,
		},
		"author": map[string]any{
			"@type": "Organization",
			"name":  publisher,
		},
	}

	data, err := json.Marshal(article)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(`<script type="application/ld+json">%s</script>`, data)
}

func segmentFor(pt models.PostType) string {
	if seg, ok := slugSegments[pt]; ok {
		return seg
	}
	return "briefing"
}

// buildTags mixes static per-type keywords with live market conditions,
// deduplicated case-insensitively and capped at 15.
func buildTags(snapshot *models.MarketSnapshot, pt models.PostType) []string {
	tags := append([]string{}, baseTags[pt]...)
	tags = append(tags, "Africa Gold Intelligence", "gold", "XAU/USD", "Africa")

	pct := snapshot.Gold.DayChgPct
	if pct >= 2 {
		tags = append(tags, "gold rally")
	} else if pct <= -2 {
		tags = append(tags, "gold dip")
	}
	if rsi := snapshot.Gold.RSI; rsi != nil {
		if *rsi >= 70 {
			tags = append(tags, "gold overbought")
		} else if *rsi <= 30 {
			tags = append(tags, "gold oversold")
		}
	}
	if snapshot.Gold.Price >= 3000 {
		tags = append(tags, "gold all-time high")
	}
	for _, currency := range models.TrackedCurrencies {
		if rate, ok := snapshot.FXRates[currency]; ok && rate > 0 {
			tags = append(tags, countryTags[currency])
		}
	}

	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, maxTags)
	for _, t := range tags {
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, t)
		if len(unique) >= maxTags {
			break
		}
	}
	return unique
}

// buildMetaDescription stays under 160 characters, truncating at a word
// boundary when a template overflows.
func buildMetaDescription(snapshot *models.MarketSnapshot, pt models.PostType) string {
	price := fmt.Sprintf("%.0f", snapshot.Gold.Price)
	pct := snapshot.Gold.DayChgPct
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	move := fmt.Sprintf("%s%.1f%%", sign, pct)

	var desc string
	switch pt {
	case models.PostTraderIntelligence:
		rsi := "N/A"
		if snapshot.Gold.RSI != nil {
			rsi = fmt.Sprintf("%.0f", *snapshot.Gold.RSI)
		}
		desc = fmt.Sprintf("Gold at $%s (%s) today. RSI-%s signals for XAU/USD traders in Africa. Full technical briefing inside.", price, move, rsi)
	case models.PostAfricaRegional:
		desc = fmt.Sprintf("Gold trading at $%s across Africa. Local prices in ZAR, GHS, NGN, KES, EGP and MAD. Africa Gold Intelligence daily report.", price)
	case models.PostKaratPricing:
		desc = fmt.Sprintf("Live gold prices per gram in 24K, 22K, 18K, 14K and 9K across 6 African currencies. XAU/USD at $%s, updated daily.", price)
	case models.PostMacroOutlook:
		desc = fmt.Sprintf("Gold at $%s as macro forces shape precious metals. DXY, rates, and global drivers for African gold investors.", price)
	case models.PostEducational:
		desc = fmt.Sprintf("How to invest in gold in Africa, a practical guide for beginners. Gold at $%s today. Africa Gold Intelligence.", price)
	case models.PostWeekReview:
		desc = fmt.Sprintf("Weekly gold market review: XAU/USD closed at $%s (%s on the week). Africa Gold Intelligence round-up.", price, move)
	default:
		desc = fmt.Sprintf("Today's top gold market news and analysis. XAU/USD at $%s (%s). Curated for African investors and traders.", price, move)
	}

	if len(desc) > 160 {
		cut := desc[:157]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		desc = cut + "..."
	}
	return desc
}
