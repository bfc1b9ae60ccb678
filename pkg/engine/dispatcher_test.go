package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/joelmartins/onsell-engine/pkg/mocks"
	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dispatchAutomation(id string, triggerConfig map[string]any) *models.Automation {
	return &models.Automation{
		ID:            id,
		TenantID:      "t-1",
		Name:          "Boas-vindas",
		TriggerType:   models.TriggerFormSubmitted,
		TriggerConfig: triggerConfig,
		Active:        true,
		Nodes: []*models.AutomationNode{
			{NodeID: "trigger-1", Type: models.NodeTypeTrigger},
			{NodeID: "action-1", Type: models.NodeTypeAction, Config: map[string]any{
				"action_type": "add_tag", "tag": "lead",
			}},
		},
		Edges: []*models.AutomationEdge{
			{SourceNodeID: "trigger-1", TargetNodeID: "action-1"},
		},
	}
}

func TestDispatcher_Dispatch_StartsMatchingRuns(t *testing.T) {
	ctx := context.Background()
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)

	require.NoError(t, persistence.Automations().Save(ctx, dispatchAutomation("a-1", map[string]any{"form_id": "f-1"})))
	require.NoError(t, persistence.Automations().Save(ctx, dispatchAutomation("a-2", map[string]any{"form_id": "f-other"})))

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.MatchedBy(func(job any) bool {
		activation, ok := job.(jobs.NodeActivation)

		return ok && activation.AutomationID == "a-1" && activation.NodeID == "trigger-1"
	})).Return(nil).Once()

	dispatcher := NewDispatcher(persistence, queue, testLogger())

	contact := &models.Contact{ID: "c-1", TenantID: "t-1", Name: "Maria", Email: "maria@example.com"}
	dispatcher.Dispatch(ctx, models.TriggerFormSubmitted, contact, map[string]any{"form_id": "f-1"}, nil)

	runs, err := persistence.Runs().ByContact(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "a-1", run.AutomationID)
	assert.Equal(t, "trigger-1", run.NodeID)
	assert.Equal(t, models.RunStatusPending, run.Status)
	assert.Nil(t, run.OpportunityID)

	snapshot, ok := run.Context["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c-1", snapshot["id"])
	assert.Equal(t, "f-1", run.Context["form_id"])

	queue.AssertExpectations(t)
}

func TestDispatcher_Dispatch_SeedsOpportunitySnapshot(t *testing.T) {
	ctx := context.Background()
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)

	require.NoError(t, persistence.Automations().Save(ctx, dispatchAutomation("a-1", nil)))

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	dispatcher := NewDispatcher(persistence, queue, testLogger())

	contact := &models.Contact{ID: "c-1", TenantID: "t-1"}
	opportunity := &models.Opportunity{ID: "o-1", TenantID: "t-1", Title: "Plano anual", Value: 990, StageID: "new"}

	dispatcher.Dispatch(ctx, models.TriggerFormSubmitted, contact, nil, opportunity)

	runs, err := persistence.Runs().ByContact(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, runs, 1)

	require.NotNil(t, runs[0].OpportunityID)
	assert.Equal(t, "o-1", *runs[0].OpportunityID)

	snapshot, ok := runs[0].Context["opportunity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Plano anual", snapshot["title"])
}

func TestDispatcher_Dispatch_InactiveAndOtherTenantAutomationsAreIgnored(t *testing.T) {
	ctx := context.Background()
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)

	inactive := dispatchAutomation("a-1", nil)
	inactive.Active = false
	require.NoError(t, persistence.Automations().Save(ctx, inactive))

	otherTenant := dispatchAutomation("a-2", nil)
	otherTenant.TenantID = "t-2"
	require.NoError(t, persistence.Automations().Save(ctx, otherTenant))

	dispatcher := NewDispatcher(persistence, queue, testLogger())

	contact := &models.Contact{ID: "c-1", TenantID: "t-1"}
	dispatcher.Dispatch(ctx, models.TriggerFormSubmitted, contact, nil, nil)

	runs, err := persistence.Runs().ByContact(ctx, "c-1")
	require.NoError(t, err)
	assert.Empty(t, runs)

	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

// One automation failing to start must not block the others.
func TestDispatcher_Dispatch_IsolatesPerAutomationFailures(t *testing.T) {
	ctx := context.Background()
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)

	broken := dispatchAutomation("a-broken", nil)
	broken.Nodes = []*models.AutomationNode{
		{NodeID: "action-1", Type: models.NodeTypeAction},
	}
	require.NoError(t, persistence.Automations().Save(ctx, broken))
	require.NoError(t, persistence.Automations().Save(ctx, dispatchAutomation("a-ok", nil)))

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.MatchedBy(func(job any) bool {
		activation, ok := job.(jobs.NodeActivation)

		return ok && activation.AutomationID == "a-ok"
	})).Return(nil).Once()

	dispatcher := NewDispatcher(persistence, queue, testLogger())

	contact := &models.Contact{ID: "c-1", TenantID: "t-1"}
	dispatcher.Dispatch(ctx, models.TriggerFormSubmitted, contact, nil, nil)

	runs, err := persistence.Runs().ByContact(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a-ok", runs[0].AutomationID)

	queue.AssertExpectations(t)
}

func TestDispatcher_Dispatch_EnqueueFailureIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)

	require.NoError(t, persistence.Automations().Save(ctx, dispatchAutomation("a-1", nil)))

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	dispatcher := NewDispatcher(persistence, queue, testLogger())

	contact := &models.Contact{ID: "c-1", TenantID: "t-1"}

	// must not panic or surface the error
	dispatcher.Dispatch(ctx, models.TriggerFormSubmitted, contact, nil, nil)
}
