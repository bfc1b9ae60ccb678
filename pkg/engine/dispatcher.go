package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Dispatcher is the engine's entry point for CRM events. Dispatch is
// fire-and-forget: it never surfaces errors to the caller's transaction, and
// one automation's failure to start does not block the others.
type Dispatcher struct {
	persistence persistence.Persistence
	queue       queue.Queue
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewDispatcher(p persistence.Persistence, q queue.Queue, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		persistence: p,
		queue:       q,
		logger:      logger.With("module", "dispatcher"),
		tracer:      noop.NewTracerProvider().Tracer("dispatcher"),
	}
}

// WithTracer replaces the no-op tracer, used by the binaries.
func (d *Dispatcher) WithTracer(tracer trace.Tracer) *Dispatcher {
	d.tracer = tracer

	return d
}

// Dispatch matches the event against the tenant's active automations and
// starts a run for each match.
func (d *Dispatcher) Dispatch(ctx context.Context, triggerType models.TriggerType, contact *models.Contact, contextData map[string]any, opportunity *models.Opportunity) {
	ctx, span := d.tracer.Start(ctx, "Dispatch", trace.WithAttributes(
		attribute.String("onsell.trigger.type", string(triggerType)),
		attribute.String("onsell.contact.id", contact.ID),
	))
	defer span.End()

	logger := d.logger.With(
		"trigger_type", triggerType,
		"tenant_id", contact.TenantID,
		"contact_id", contact.ID,
	)

	automations, err := d.persistence.Automations().ActiveByTrigger(ctx, contact.TenantID, triggerType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load automations for trigger", "error", err)

		return
	}

	logger.DebugContext(ctx, "Matching trigger event against automations", "automations_count", len(automations))

	started := 0

	for _, automation := range automations {
		if !MatchesTrigger(automation.TriggerConfig, triggerType, contextData) {
			continue
		}

		err := d.StartRun(ctx, automation, contact, contextData, opportunity)
		if err != nil {
			// best effort per automation; siblings still start
			logger.ErrorContext(ctx, "Failed to start run",
				"automation_id", automation.ID,
				"error", err)

			continue
		}

		started++
	}

	logger.InfoContext(ctx, "Completed trigger dispatch",
		"matches_started", started,
		"automations_count", len(automations))
}

// StartRun creates the run log row anchored at the trigger node and enqueues
// the first continuation.
func (d *Dispatcher) StartRun(ctx context.Context, automation *models.Automation, contact *models.Contact, contextData map[string]any, opportunity *models.Opportunity) error {
	graph := models.NewGraph(automation)

	triggerNode, ok := graph.TriggerNode()
	if !ok {
		return fmt.Errorf("automation %s has no trigger node", automation.ID)
	}

	runContext := make(map[string]any, len(contextData)+2)
	for k, v := range contextData {
		runContext[k] = v
	}

	runContext["contact"] = contact.Snapshot()

	var opportunityID *string

	if opportunity != nil {
		runContext["opportunity"] = opportunity.Snapshot()
		opportunityID = &opportunity.ID
	}

	run := &models.AutomationRun{
		ID:            uuid.New().String(),
		AutomationID:  automation.ID,
		ContactID:     contact.ID,
		OpportunityID: opportunityID,
		NodeID:        triggerNode.NodeID,
		Status:        models.RunStatusPending,
		Context:       runContext,
		StartedAt:     time.Now().UTC(),
	}

	err := d.persistence.Runs().Create(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	activation := jobs.NodeActivation{
		BaseJob:       jobs.NewBaseJob(jobs.NodeActivationJob, automation.ID),
		RunID:         run.ID,
		NodeID:        triggerNode.NodeID,
		ContactID:     contact.ID,
		OpportunityID: opportunityID,
	}

	err = d.queue.Enqueue(ctx, run.ID, activation)
	if err != nil {
		return fmt.Errorf("failed to enqueue trigger node: %w", err)
	}

	d.logger.InfoContext(ctx, "Run started",
		"automation_id", automation.ID,
		"run_id", run.ID,
		"trigger_node_id", triggerNode.NodeID)

	return nil
}
