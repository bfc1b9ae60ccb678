package movepipeline

import (
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type ActionFactory struct {
	pipeline protocol.PipelineUpdater
}

func NewActionFactory(pipeline protocol.PipelineUpdater) *ActionFactory {
	return &ActionFactory{pipeline: pipeline}
}

func (*ActionFactory) ID() string {
	return "move_pipeline"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.pipeline), nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stage_id": map[string]any{
				"type":        "string",
				"description": "Target pipeline stage for the run's opportunity",
			},
		},
	}
}
