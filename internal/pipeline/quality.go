package pipeline

import (
	"fmt"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

// QualityGate validates a fetched snapshot before any content is created.
// Evaluate is a pure classification function; the orchestrator decides to
// halt only on CRITICAL findings.
type QualityGate struct {
	cfg *config.Config
}

func NewQualityGate(cfg *config.Config) *QualityGate {
	return &QualityGate{cfg: cfg}
}

// Evaluate runs every check independently; no check short-circuits another.
func (qg *QualityGate) Evaluate(snapshot *models.MarketSnapshot) []models.Anomaly {
	var anomalies []models.Anomaly

	price := snapshot.Gold.Price
	if price < qg.cfg.PriceFloor || price > qg.cfg.PriceCeiling {
		anomalies = append(anomalies, models.Anomaly{
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("gold price $%.2f outside plausible band [$%.0f, $%.0f], data presumed stale or corrupt",
				price, qg.cfg.PriceFloor, qg.cfg.PriceCeiling),
		})
	}

	if pct := snapshot.Gold.DayChgPct; pct > qg.cfg.DayMovePctLimit || pct < -qg.cfg.DayMovePctLimit {
		anomalies = append(anomalies, models.Anomaly{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("day move %+.2f%% exceeds %.0f%% sanity threshold", pct, qg.cfg.DayMovePctLimit),
		})
	}

	for _, currency := range models.RequiredCurrencies {
		if rate, ok := snapshot.FXRates[currency]; !ok || rate <= 0 {
			anomalies = append(anomalies, models.Anomaly{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("FX rate for %s missing, karat table will use approximate rates", currency),
			})
		}
	}

	if len(snapshot.News) == 0 {
		anomalies = append(anomalies, models.Anomaly{
			Severity: models.SeverityWarning,
			Message:  "no relevant headlines fetched, news section will be empty",
		})
	}

	return anomalies
}
