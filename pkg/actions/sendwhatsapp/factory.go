package sendwhatsapp

import (
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type ActionFactory struct {
	messenger protocol.Messenger
}

func NewActionFactory(messenger protocol.Messenger) *ActionFactory {
	return &ActionFactory{messenger: messenger}
}

func (*ActionFactory) ID() string {
	return "send_whatsapp"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return NewAction(config, f.messenger), nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message content or template sent to the contact",
			},
			"media_url": map[string]any{
				"type":        "string",
				"description": "Optional media attachment URL",
			},
		},
		"required": []any{"message"},
	}
}
