package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"github.com/joelmartins/onsell-engine/pkg/registry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrNodeNotFound marks a continuation pointing at a node the graph no
// longer has. Terminal for the run; queue-level retries would fail the same
// way deterministically.
var ErrNodeNotFound = errors.New("node not found")

// Runner executes one node per dequeued activation: the core state machine
// of the graph walk. All execution failures are absorbed into the run log;
// nothing propagates back to the queue as a retryable failure except run
// load errors, where there is no row to record the failure on.
type Runner struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	queue       queue.Queue
	workerID    string
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewRunner(p persistence.Persistence, reg *registry.Registry, q queue.Queue, workerID string, logger *slog.Logger) *Runner {
	return &Runner{
		persistence: p,
		registry:    reg,
		queue:       q,
		workerID:    workerID,
		logger:      logger.With("module", "runner", "worker_id", workerID),
		tracer:      noop.NewTracerProvider().Tracer("runner"),
	}
}

// WithTracer replaces the no-op tracer, used by the binaries.
func (r *Runner) WithTracer(tracer trace.Tracer) *Runner {
	r.tracer = tracer

	return r
}

// ProcessNode advances one run by one node. Tolerates at-least-once
// redelivery: re-running a node re-executes its side effect, which is the
// accepted trade-off instead of distributed locking.
func (r *Runner) ProcessNode(ctx context.Context, activation *jobs.NodeActivation) error {
	ctx, span := r.tracer.Start(ctx, "ProcessNode", trace.WithAttributes(
		attribute.String("onsell.automation.id", activation.AutomationID),
		attribute.String("onsell.run.id", activation.RunID),
		attribute.String("onsell.node.id", activation.NodeID),
	))
	defer span.End()

	logger := r.logger.With(
		"automation_id", activation.AutomationID,
		"run_id", activation.RunID,
		"node_id", activation.NodeID,
	)

	run, err := r.persistence.Runs().GetByID(ctx, activation.RunID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load run", "error", err)

		return err
	}

	// advance the progress pointer in place; the row is overwritten, not
	// appended
	run.NodeID = activation.NodeID
	run.Status = models.RunStatusRunning
	run.StartedAt = time.Now().UTC()
	run.CompletedAt = nil
	run.Message = ""

	err = r.persistence.Runs().Update(ctx, run)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to mark run running", "error", err)

		return err
	}

	automation, err := r.persistence.Automations().GetByID(ctx, activation.AutomationID)
	if err != nil {
		r.fail(ctx, logger, run, err)

		return nil
	}

	graph := models.NewGraph(automation)

	node, ok := graph.Node(activation.NodeID)
	if !ok {
		r.fail(ctx, logger, run, ErrNodeNotFound)

		return nil
	}

	execution := models.Execution{
		RunID:       run.ID,
		Contact:     r.contactFromRun(run),
		Opportunity: r.opportunityFromRun(run),
		Context:     run.Context,
	}

	var result map[string]any

	switch node.Type {
	case models.NodeTypeTrigger:
		result = map[string]any{"success": true}
	case models.NodeTypeAction:
		result, err = r.executeAction(ctx, node, execution, logger)
		if err != nil {
			r.fail(ctx, logger, run, err)

			return nil
		}
		// action output accumulates in context for downstream nodes
		run.MergeContext(map[string]any{"node_" + node.NodeID: result})
	case models.NodeTypeCondition:
		result = EvaluateCondition(node.Config, execution)
	case models.NodeTypeDelay:
		return r.delay(ctx, logger, activation, node)
	default:
		r.fail(ctx, logger, run, errors.New("unknown node type: "+string(node.Type)))

		return nil
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusCompleted
	run.CompletedAt = &now
	run.Result = result

	err = r.persistence.Runs().Update(ctx, run)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to mark run completed", "error", err)

		return err
	}

	logger.InfoContext(ctx, "Node completed", "node_type", node.Type)

	for _, targetID := range NextNodes(graph, node, result) {
		next := jobs.NodeActivation{
			BaseJob:       jobs.NewBaseJob(jobs.NodeActivationJob, activation.AutomationID),
			RunID:         activation.RunID,
			NodeID:        targetID,
			ContactID:     activation.ContactID,
			OpportunityID: activation.OpportunityID,
		}
		next.WorkerID = r.workerID

		err := r.queue.Enqueue(ctx, activation.RunID, next)
		if err != nil {
			r.fail(ctx, logger, run, err)

			return nil
		}
	}

	return nil
}

// delay re-enqueues the same node after the configured wait. The run is not
// completed and no next nodes are walked; the re-scheduled activation is
// the only continuation. Every dequeue re-schedules the full delay; there
// is no elapsed-time bookkeeping.
func (r *Runner) delay(ctx context.Context, logger *slog.Logger, activation *jobs.NodeActivation, node *models.AutomationNode) error {
	minutes := node.DelayMinutes()

	rescheduled := jobs.NodeActivation{
		BaseJob:       jobs.NewBaseJob(jobs.NodeActivationJob, activation.AutomationID),
		RunID:         activation.RunID,
		NodeID:        activation.NodeID,
		ContactID:     activation.ContactID,
		OpportunityID: activation.OpportunityID,
	}
	rescheduled.WorkerID = r.workerID

	err := r.queue.EnqueueIn(ctx, activation.RunID, rescheduled, time.Duration(minutes)*time.Minute)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to re-schedule delay node", "error", err)

		return err
	}

	logger.InfoContext(ctx, "Delay node re-scheduled", "delay_minutes", minutes)

	return nil
}

// executeAction dispatches to the registered action. Unknown action types
// return a structured failure payload instead of an error so the run still
// completes; only capability errors fail the run.
func (r *Runner) executeAction(ctx context.Context, node *models.AutomationNode, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	actionType := node.ActionType()

	action, err := r.registry.CreateAction(actionType, node.Config)
	if err != nil {
		if errors.Is(err, registry.ErrActionNotRegistered) {
			logger.WarnContext(ctx, "Unknown action type", "action_type", actionType)

			return map[string]any{
				"success": false,
				"error":   "Tipo de ação desconhecido: " + actionType,
			}, nil
		}

		return nil, err
	}

	return action.Execute(ctx, execution, logger)
}

// fail absorbs the error into the run log; the walk stops on this branch
// and nothing propagates to sibling runs or branches.
func (r *Runner) fail(ctx context.Context, logger *slog.Logger, run *models.AutomationRun, failure error) {
	now := time.Now().UTC()
	run.Status = models.RunStatusFailed
	run.Message = failure.Error()
	run.CompletedAt = &now

	err := r.persistence.Runs().Update(ctx, run)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to mark run failed", "error", err, "failure", failure)

		return
	}

	logger.ErrorContext(ctx, "Run failed", "error", failure)
}

func (r *Runner) contactFromRun(run *models.AutomationRun) *models.Contact {
	snapshot, _ := run.Context["contact"].(map[string]any)

	return models.ContactFromSnapshot(snapshot)
}

func (r *Runner) opportunityFromRun(run *models.AutomationRun) *models.Opportunity {
	snapshot, _ := run.Context["opportunity"].(map[string]any)

	return models.OpportunityFromSnapshot(snapshot)
}
