// Package agents holds the enrichment stages. Each stage is a best-effort
// step run inside the orchestrator's failure boundary; a stage that errors
// contributes an empty payload and the run continues.
package agents

import (
	"fmt"
	"time"

	"github.com/africagold/goldintel/internal/models"
)

// countryRole describes how a currency's economy relates to gold flows.
type countryRole struct {
	Country string
	Role    string
	Miners  []string
}

var countryRoles = map[string]countryRole{
	"ZAR": {"South Africa", "major_producer", []string{"Gold Fields", "Harmony Gold", "Sibanye-Stillwater"}},
	"GHS": {"Ghana", "major_producer", []string{"Gold Fields (Tarkwa)", "AngloGold (Obuasi)"}},
	"NGN": {"Nigeria", "consumer", nil},
	"KES": {"Kenya", "consumer", nil},
	"EGP": {"Egypt", "mixed", []string{"Centamin (Sukari)"}},
	"MAD": {"Morocco", "consumer", nil},
}

// minerAISC holds all-in sustaining cost per oz from the latest annual
// reports of the tracked African majors.
var minerAISC = []struct {
	Name string
	AISC float64
}{
	{"Gold Fields", 1340},
	{"AngloGold Ashanti", 1450},
	{"Harmony Gold", 1520},
	{"Sibanye-Stillwater", 1480},
	{"Endeavour Mining", 1340},
}

// countryAISC approximates per-country sustaining cost; productionWeights
// holds each country's share of continental output. Together they produce
// the production-weighted pan-African margin.
var countryAISC = map[string]float64{
	"South Africa": 1520, "Ghana": 1280, "Mali": 1150, "Burkina Faso": 1300,
	"Tanzania": 1200, "DRC": 950, "Guinea": 1250, "Sudan": 900,
	"Zimbabwe": 1100, "Egypt": 1050, "Côte d'Ivoire": 1200, "Senegal": 1150,
	"Others": 1200,
}

var productionWeights = map[string]float64{
	"South Africa": 0.130, "Ghana": 0.125, "Mali": 0.100, "Burkina Faso": 0.085,
	"Tanzania": 0.080, "DRC": 0.070, "Guinea": 0.065, "Sudan": 0.060,
	"Zimbabwe": 0.055, "Egypt": 0.050, "Côte d'Ivoire": 0.040, "Senegal": 0.035,
	"Others": 0.105,
}

const defaultCountryAISC = 1200

// RegionalStage contributes the Africa regional spotlight: currency
// leverage per tracked country plus active seasonal demand signals.
type RegionalStage struct{}

func NewRegionalStage() *RegionalStage { return &RegionalStage{} }

func (s *RegionalStage) Name() string { return "regional" }

func (s *RegionalStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	if len(snapshot.FXRates) == 0 {
		return nil, fmt.Errorf("no FX rates available for regional analysis")
	}

	var highlights []string
	for _, currency := range models.TrackedCurrencies {
		rate, ok := snapshot.FXRates[currency]
		if !ok || rate <= 0 {
			continue
		}
		meta := countryRoles[currency]
		k24 := snapshot.KaratPrice(currency, "24K")

		switch meta.Role {
		case "major_producer":
			highlights = append(highlights, fmt.Sprintf(
				"%s: 24K at %s%s/g; currency weakness widens miner margins (%s earn USD, pay costs locally)",
				meta.Country, models.CurrencySymbols[currency], k24.StringFixed(2), meta.Miners[0]))
		case "consumer":
			highlights = append(highlights, fmt.Sprintf(
				"%s: 24K at %s%s/g; every 1%% currency slide lifts local gold cost by roughly the same",
				meta.Country, models.CurrencySymbols[currency], k24.StringFixed(2)))
		default:
			highlights = append(highlights, fmt.Sprintf(
				"%s: 24K at %s%s/g; mining supply and jewelry demand pull in opposite directions",
				meta.Country, models.CurrencySymbols[currency], k24.StringFixed(2)))
		}
	}

	signals := seasonalSignals(rc.Today)
	margins := minerMargins(snapshot.Gold.Price)
	composite := compositeMargin(snapshot.Gold.Price)

	return models.Payload{
		"summary": fmt.Sprintf("Local gold pricing tracked across %d African currencies; pan-African composite margin $%.0f/oz; %d seasonal demand signals active.",
			len(snapshot.FXRates), composite, len(signals)),
		"highlights":           highlights,
		"signals":              signals,
		"miner_margins":        margins,
		"composite_margin_usd": composite,
	}, nil
}

// minerMargins lists spot-minus-AISC for each tracked major.
func minerMargins(price float64) []string {
	margins := make([]string, 0, len(minerAISC))
	for _, m := range minerAISC {
		margin := price - m.AISC
		verdict := "profitable"
		if margin <= 0 {
			verdict = "underwater"
		}
		margins = append(margins, fmt.Sprintf("%s: AISC $%.0f/oz, margin $%.0f/oz (%s)",
			m.Name, m.AISC, margin, verdict))
	}
	return margins
}

// compositeMargin weights each producing country's spot-minus-AISC margin by
// its share of continental output.
func compositeMargin(price float64) float64 {
	var weighted float64
	for country, weight := range productionWeights {
		aisc, ok := countryAISC[country]
		if !ok {
			aisc = defaultCountryAISC
		}
		weighted += (price - aisc) * weight
	}
	return weighted
}

// seasonalSignals lists calendar-driven demand effects on African gold
// markets: Chinese New Year restocking, South Asian wedding peaks, Ramadan
// and Eid gifting, harvest wealth conversion, and SA bonus season.
func seasonalSignals(today time.Time) []string {
	var signals []string
	m, d := int(today.Month()), today.Day()

	if m == 1 || (m == 2 && d <= 15) {
		signals = append(signals, "Chinese New Year buying season: pre-CNY restocking lifts African mine-gate prices above spot")
	}
	if (m == 11 && d >= 15) || m == 12 || (m == 1 && d <= 15) {
		signals = append(signals, "South Asian winter wedding season: Indian jewelry demand adds to physical premiums")
	}
	if (m == 4 && d >= 15) || m == 5 {
		signals = append(signals, "South Asian spring wedding season: second Indian peak demand period")
	}
	if (m == 2 && d >= 18) || (m == 3 && d <= 19) {
		signals = append(signals, "Ramadan: lighter trading volumes across North and West Africa")
	}
	if m == 3 && d >= 19 && d <= 30 {
		signals = append(signals, "Eid al-Fitr gifting: jewelry volume spikes in Egypt, Morocco and Nigeria")
	}
	if m == 11 || m == 12 {
		signals = append(signals, "West African harvest season: cocoa and cashew payments drive rural gold buying")
	}
	if m == 12 {
		signals = append(signals, "South African year-end bonus season: retail coin demand strongest in Q4")
	}

	return signals
}
