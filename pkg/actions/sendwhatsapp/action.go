// Package sendwhatsapp implements the WhatsApp message action.
package sendwhatsapp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type Action struct {
	messenger protocol.Messenger
	message   string
	mediaURL  string
}

func NewAction(config map[string]any, messenger protocol.Messenger) *Action {
	message, _ := config["message"].(string)
	mediaURL, _ := config["media_url"].(string)

	return &Action{
		messenger: messenger,
		message:   message,
		mediaURL:  mediaURL,
	}
}

// Execute delegates to the messaging capability and returns its payload
// verbatim. A duplicate queue delivery re-sends; deduplication is the
// provider's concern, not the engine's.
func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "send_whatsapp", "contact_id", execution.Contact.ID)

	logger.InfoContext(ctx, "Sending WhatsApp message")

	payload, err := a.messenger.SendMessage(ctx, execution.Contact, a.message, a.mediaURL)
	if err != nil {
		return nil, fmt.Errorf("message delivery failed: %w", err)
	}

	return payload, nil
}
