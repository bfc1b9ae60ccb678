// Package createtask implements the follow-up task action.
package createtask

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type Action struct {
	tasks  protocol.TaskCreator
	config map[string]any
}

func NewAction(config map[string]any, tasks protocol.TaskCreator) *Action {
	return &Action{tasks: tasks, config: config}
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "create_task", "contact_id", execution.Contact.ID)

	logger.InfoContext(ctx, "Creating task")

	err := a.tasks.CreateTask(ctx, execution.Contact, a.config)
	if err != nil {
		return nil, fmt.Errorf("task creation failed: %w", err)
	}

	return map[string]any{
		"success":      true,
		"action_type":  "create_task",
		"task_created": true,
	}, nil
}
