package protocol

import (
	"context"

	"github.com/joelmartins/onsell-engine/pkg/models"
)

// Messenger is the message-delivery capability. The provider may queue the
// actual network send on its own side; the returned payload is recorded on
// the run verbatim.
type Messenger interface {
	SendMessage(ctx context.Context, contact *models.Contact, content string, mediaURL string) (map[string]any, error)
}

// TagStore persists tag applications. Tag bookkeeping lives with the CRM
// side; the engine only invokes it.
type TagStore interface {
	ApplyTag(ctx context.Context, contact *models.Contact, tag string) error
}

// PipelineUpdater moves an opportunity to another stage.
type PipelineUpdater interface {
	SetOpportunityStage(ctx context.Context, opportunity *models.Opportunity, stageID string) error
}

// TaskCreator creates a follow-up task for a contact.
type TaskCreator interface {
	CreateTask(ctx context.Context, contact *models.Contact, config map[string]any) error
}
