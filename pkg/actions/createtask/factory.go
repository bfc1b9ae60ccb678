package createtask

import (
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type ActionFactory struct {
	tasks protocol.TaskCreator
}

func NewActionFactory(tasks protocol.TaskCreator) *ActionFactory {
	return &ActionFactory{tasks: tasks}
}

func (*ActionFactory) ID() string {
	return "create_task"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.tasks), nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Task title",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task body",
			},
			"due_in_days": map[string]any{
				"type":        "number",
				"description": "Days from now until the task is due",
			},
		},
	}
}
