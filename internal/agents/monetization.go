package agents

import (
	"github.com/africagold/goldintel/internal/models"
	"github.com/africagold/goldintel/internal/monetize"
	"github.com/africagold/goldintel/internal/runlog"
)

// MonetizationStage runs the scorer as terminal bookkeeping. The decision
// annotates the run record and the oversight notification; it never gates
// publication.
type MonetizationStage struct {
	scorer *monetize.Scorer
	log    *runlog.Logger
}

func NewMonetizationStage(scorer *monetize.Scorer, log *runlog.Logger) *MonetizationStage {
	return &MonetizationStage{scorer: scorer, log: log}
}

func (s *MonetizationStage) Name() string { return "monetization" }

func (s *MonetizationStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	history, err := s.log.ReadAll()
	if err != nil {
		return nil, err
	}

	decision := s.scorer.Decide(snapshot, rc.PostType, history, rc.Today)

	return models.Payload{
		"score":        decision.Score,
		"strategy":     string(decision.Strategy),
		"window":       string(decision.Window),
		"reason":       decision.Reason,
		"pricing_line": s.scorer.PricingLine(decision.Strategy),
	}, nil
}
