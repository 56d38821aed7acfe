// Package content turns the run context into the two newsletter variants:
// a free preview and the gated premium body. Section emphasis follows the
// day's editorial type; every enrichment payload it consumes may be empty.
package content

import (
	"fmt"
	"strings"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/dataflows"
	"github.com/africagold/goldintel/internal/models"
)

// Synthesizer builds the issue from the snapshot and enrichment payloads.
type Synthesizer struct {
	cfg *config.Config
}

func NewSynthesizer(cfg *config.Config) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// Build assembles title, subtitle, preview text, and both content variants.
// A synthesis error is fatal to the run; missing enrichment payloads are not.
func (s *Synthesizer) Build(rc *models.RunContext) (*models.Issue, error) {
	if rc.Snapshot == nil {
		return nil, fmt.Errorf("no market snapshot in run context")
	}
	gold := rc.Snapshot.Gold

	issue := &models.Issue{
		Title:       fmt.Sprintf("Gold Market Briefing | %s", rc.Today.Format("Mon Jan 02, 2006")),
		Subtitle:    s.subtitle(rc),
		PreviewText: s.previewText(rc),
		FreeHTML:    s.freeHTML(rc),
		PremiumHTML: s.premiumHTML(rc),
	}

	if issue.FreeHTML == "" || issue.PremiumHTML == "" {
		return nil, fmt.Errorf("content synthesis produced an empty variant for %s at $%.2f", rc.PostType, gold.Price)
	}
	return issue, nil
}

func (s *Synthesizer) subtitle(rc *models.RunContext) string {
	gold := rc.Snapshot.Gold
	parts := []string{fmt.Sprintf("XAU/USD at %s", fmtPrice(gold.Price))}
	if dxy := rc.Snapshot.DXY; dxy != nil {
		parts = append(parts, fmt.Sprintf("DXY %.2f", dxy.Price))
	}
	if gold.RSI != nil {
		parts = append(parts, fmt.Sprintf("RSI %.0f", *gold.RSI))
	}
	parts = append(parts, "full "+rc.PostType.Label()+" inside")
	return strings.Join(parts, " · ")
}

func (s *Synthesizer) previewText(rc *models.RunContext) string {
	gold := rc.Snapshot.Gold
	return fmt.Sprintf("Gold %s %s (%s today) · %s",
		arrow(gold.DayChgPct), fmtPrice(gold.Price), signStr(gold.DayChgPct, "%"), rc.PostType.Label())
}

// freeHTML is the public preview: headline numbers, RSI read, a trimmed
// news list, and the paywall pitch.
func (s *Synthesizer) freeHTML(rc *models.RunContext) string {
	snap := rc.Snapshot
	gold := snap.Gold

	var b strings.Builder
	b.WriteString(`<div class="agi-issue">`)
	fmt.Fprintf(&b, `<p><span class="agi-tier-free">Free Preview</span></p>`)
	fmt.Fprintf(&b, "<h2>%s</h2>", rc.PostType.Label())

	fmt.Fprintf(&b,
		`<p style="font-size:22px;"><strong>%s</strong> <span style="color:%s;">%s %s (%s)</span></p>`,
		fmtPrice(gold.Price), greenRed(gold.DayChgPct), arrow(gold.DayChgPct),
		signStr(gold.DayChg, ""), signStr(gold.DayChgPct, "%"))
	fmt.Fprintf(&b, "<p>Week change: %s</p>", signStr(gold.WeekChgPct, "%"))

	writeAuxRow(&b, "Silver", snap.Silver)
	writeAuxRow(&b, "DXY (Dollar Index)", snap.DXY)
	writeAuxRow(&b, "S&amp;P 500", snap.SP500)
	writeAuxRow(&b, "Bitcoin", snap.BTC)

	fmt.Fprintf(&b, "<p><strong>RSI-14:</strong> %s</p>", rsiLabel(gold.RSI))

	if len(snap.News) > 0 {
		b.WriteString("<h3>Today's headlines</h3><ul>")
		for _, h := range snap.News {
			fmt.Fprintf(&b, `<li><a href="%s">%s</a> <em>(%s)</em></li>`, h.Link, h.Title, h.Source)
		}
		b.WriteString("</ul>")
	}

	b.WriteString(`<p>Premium subscribers get the full technical setup with support and resistance levels, ` +
		`karat pricing in ZAR, GHS, NGN and KES, the Africa regional spotlight, and mining contract intelligence.</p>`)
	b.WriteString("</div>")
	return b.String()
}

// premiumHTML is the gated body: technical levels, the karat price table,
// and whatever the regional and contracts stages contributed.
func (s *Synthesizer) premiumHTML(rc *models.RunContext) string {
	snap := rc.Snapshot
	gold := snap.Gold
	levels := dataflows.SupportResistance(gold.Price)

	var b strings.Builder
	b.WriteString(`<div class="agi-premium">`)
	fmt.Fprintf(&b, `<p><span class="agi-tier-premium">Premium Edition</span></p>`)

	b.WriteString("<h3>Technical setup</h3><table>")
	fmt.Fprintf(&b, "<tr><td><strong>Bias</strong></td><td>%s</td></tr>", dataflows.Bias(gold.RSI, gold.DayChgPct))
	fmt.Fprintf(&b, "<tr><td><strong>RSI-14</strong></td><td>%s</td></tr>", rsiLabel(gold.RSI))
	fmt.Fprintf(&b, "<tr><td>Resistance 2</td><td>%s</td></tr>", fmtPrice(levels.R2))
	fmt.Fprintf(&b, "<tr><td>Resistance 1</td><td>%s</td></tr>", fmtPrice(levels.R1))
	fmt.Fprintf(&b, "<tr><td><strong>Spot</strong></td><td>%s</td></tr>", fmtPrice(gold.Price))
	fmt.Fprintf(&b, "<tr><td>Support 1</td><td>%s</td></tr>", fmtPrice(levels.S1))
	fmt.Fprintf(&b, "<tr><td>Support 2</td><td>%s</td></tr>", fmtPrice(levels.S2))
	b.WriteString("</table>")

	s.writeKaratTable(&b, snap)
	s.writeRegionalSection(&b, rc)
	s.writeContractsSection(&b, rc)

	switch rc.PostType {
	case models.PostWeekReview:
		fmt.Fprintf(&b, "<h3>The week in one line</h3><p>Gold moved %s over five sessions, closing the week at %s.</p>",
			signStr(gold.WeekChgPct, "%"), fmtPrice(gold.Price))
	case models.PostEducational:
		b.WriteString("<h3>Concept of the week</h3><p>Gold holds a strong inverse correlation with the dollar: " +
			"priced in USD, it becomes cheaper for foreign buyers whenever the dollar weakens.</p>")
	}

	b.WriteString("</div>")
	return b.String()
}

func (s *Synthesizer) writeKaratTable(b *strings.Builder, snap *models.MarketSnapshot) {
	if len(snap.KaratPrices) == 0 {
		return
	}
	b.WriteString("<h3>Karat pricing per gram</h3><table><tr><th>Currency</th>")
	karats := []string{"24K", "22K", "18K", "14K", "9K"}
	for _, k := range karats {
		fmt.Fprintf(b, "<th>%s</th>", k)
	}
	b.WriteString("</tr>")
	for _, currency := range models.TrackedCurrencies {
		row, ok := snap.KaratPrices[currency]
		if !ok {
			continue
		}
		symbol := models.CurrencySymbols[currency]
		fmt.Fprintf(b, "<tr><td><strong>%s</strong></td>", currency)
		for _, k := range karats {
			fmt.Fprintf(b, "<td>%s%s</td>", symbol, usd.Sprintf("%.2f", row[k].InexactFloat64()))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
}

func (s *Synthesizer) writeRegionalSection(b *strings.Builder, rc *models.RunContext) {
	regional := rc.Payload("regional")
	if len(regional) == 0 {
		return
	}
	b.WriteString("<h3>Africa regional spotlight</h3>")
	if summary := regional.GetString("summary"); summary != "" {
		fmt.Fprintf(b, "<p>%s</p>", summary)
	}
	if highlights := regional.GetStrings("highlights"); len(highlights) > 0 {
		b.WriteString("<ul>")
		for _, h := range highlights {
			fmt.Fprintf(b, "<li>%s</li>", h)
		}
		b.WriteString("</ul>")
	}
}

func (s *Synthesizer) writeContractsSection(b *strings.Builder, rc *models.RunContext) {
	contracts := rc.Payload("contracts")
	if len(contracts) == 0 {
		return
	}
	b.WriteString("<h3>Mining contract intelligence</h3>")
	if summary := contracts.GetString("summary"); summary != "" {
		fmt.Fprintf(b, "<p>%s</p>", summary)
	}
	if notes := contracts.GetStrings("notes"); len(notes) > 0 {
		b.WriteString("<ul>")
		for _, n := range notes {
			fmt.Fprintf(b, "<li>%s</li>", n)
		}
		b.WriteString("</ul>")
	}
}

func writeAuxRow(b *strings.Builder, label string, q *models.Quote) {
	if q == nil {
		return
	}
	fmt.Fprintf(b, `<p>%s: %.2f <span style="color:%s;">(%s)</span></p>`,
		label, q.Price, greenRed(q.DayChgPct), signStr(q.DayChgPct, "%"))
}
