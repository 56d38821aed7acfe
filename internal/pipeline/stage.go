package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/models"
)

// Stage is one best-effort enrichment step. Stages read the immutable
// snapshot plus payloads finalized by strictly earlier stages; stage order
// is part of the contract and must not be shuffled.
type Stage interface {
	Name() string
	Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error)
}

// runStage executes one stage inside its own failure boundary. A returned
// error or a panic both degrade to an empty payload; neither aborts the run.
func runStage(stage Stage, rc *models.RunContext, logger *zap.Logger) {
	payload, err := safeRun(stage, rc)
	if err != nil {
		logger.Warn("enrichment stage failed, continuing with empty payload",
			zap.String("stage", stage.Name()),
			zap.Error(err),
		)
		payload = models.Payload{}
	}
	rc.SetPayload(stage.Name(), payload)
}

func safeRun(stage Stage, rc *models.RunContext) (payload models.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()
	return stage.Run(rc.Snapshot, rc)
}

// runStages executes stages in their configured order, isolating each.
func runStages(stages []Stage, rc *models.RunContext, logger *zap.Logger) {
	for _, stage := range stages {
		runStage(stage, rc, logger)
	}
}
