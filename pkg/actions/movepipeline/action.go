// Package movepipeline implements the pipeline stage move action.
package movepipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type Action struct {
	pipeline protocol.PipelineUpdater
	stageID  string
}

func NewAction(config map[string]any, pipeline protocol.PipelineUpdater) *Action {
	stageID, _ := config["stage_id"].(string)

	return &Action{pipeline: pipeline, stageID: stageID}
}

// Execute moves the run's opportunity to the configured stage. Runs without
// an opportunity, or nodes without a stage_id, are a no-op rather than a
// failure.
func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "move_pipeline", "contact_id", execution.Contact.ID)

	if execution.Opportunity == nil || a.stageID == "" {
		logger.InfoContext(ctx, "No opportunity or stage configured, skipping stage move")

		return map[string]any{
			"success":     true,
			"action_type": "move_pipeline",
		}, nil
	}

	logger.InfoContext(ctx, "Moving opportunity stage",
		"opportunity_id", execution.Opportunity.ID,
		"stage_id", a.stageID)

	err := a.pipeline.SetOpportunityStage(ctx, execution.Opportunity, a.stageID)
	if err != nil {
		return nil, fmt.Errorf("stage move failed: %w", err)
	}

	return map[string]any{
		"success":        true,
		"action_type":    "move_pipeline",
		"moved_to_stage": a.stageID,
	}, nil
}
