package movepipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	movedTo string
	err     error
}

func (f *fakePipeline) SetOpportunityStage(_ context.Context, _ *models.Opportunity, stageID string) error {
	f.movedTo = stageID

	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestAction_Execute_MovesStage(t *testing.T) {
	pipeline := &fakePipeline{}
	action := NewAction(map[string]any{"stage_id": "won"}, pipeline)

	execution := models.Execution{
		Contact:     &models.Contact{ID: "c-1"},
		Opportunity: &models.Opportunity{ID: "o-1", StageID: "negotiation"},
	}

	payload, err := action.Execute(context.Background(), execution, testLogger())
	require.NoError(t, err)

	assert.Equal(t, "won", pipeline.movedTo)
	assert.Equal(t, map[string]any{
		"success":        true,
		"action_type":    "move_pipeline",
		"moved_to_stage": "won",
	}, payload)
}

// A run without an opportunity skips the move instead of failing.
func TestAction_Execute_NoOpportunityIsNoOp(t *testing.T) {
	pipeline := &fakePipeline{}
	action := NewAction(map[string]any{"stage_id": "won"}, pipeline)

	execution := models.Execution{Contact: &models.Contact{ID: "c-1"}}

	payload, err := action.Execute(context.Background(), execution, testLogger())
	require.NoError(t, err)

	assert.Empty(t, pipeline.movedTo)
	assert.Equal(t, map[string]any{
		"success":     true,
		"action_type": "move_pipeline",
	}, payload)
}

func TestAction_Execute_NoStageConfiguredIsNoOp(t *testing.T) {
	pipeline := &fakePipeline{}
	action := NewAction(map[string]any{}, pipeline)

	execution := models.Execution{
		Contact:     &models.Contact{ID: "c-1"},
		Opportunity: &models.Opportunity{ID: "o-1"},
	}

	payload, err := action.Execute(context.Background(), execution, testLogger())
	require.NoError(t, err)
	assert.Equal(t, true, payload["success"])
	assert.NotContains(t, payload, "moved_to_stage")
}

func TestAction_Execute_PropagatesPipelineError(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("stage not found")}
	action := NewAction(map[string]any{"stage_id": "ghost"}, pipeline)

	execution := models.Execution{
		Contact:     &models.Contact{ID: "c-1"},
		Opportunity: &models.Opportunity{ID: "o-1"},
	}

	payload, err := action.Execute(context.Background(), execution, testLogger())
	assert.Error(t, err)
	assert.Nil(t, payload)
}
