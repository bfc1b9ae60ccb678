package addtag

import (
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type ActionFactory struct {
	tags protocol.TagStore
}

func NewActionFactory(tags protocol.TagStore) *ActionFactory {
	return &ActionFactory{tags: tags}
}

func (*ActionFactory) ID() string {
	return "add_tag"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.tags), nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tag": map[string]any{
				"type":        "string",
				"description": "Tag applied to the contact",
			},
		},
		"required": []any{"tag"},
	}
}
