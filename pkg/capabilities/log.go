// Package capabilities provides the default provider implementations for
// the action capability interfaces. These log-backed providers record the
// side effect instead of performing it; deployments wire real CRM-backed
// providers in their place.
package capabilities

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joelmartins/onsell-engine/pkg/models"
)

// LogMessenger fulfils message sends by logging them. The returned payload
// mimics what a delivery gateway would report.
type LogMessenger struct {
	logger *slog.Logger
}

func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger.With("capability", "messenger")}
}

func (m *LogMessenger) SendMessage(ctx context.Context, contact *models.Contact, content string, mediaURL string) (map[string]any, error) {
	m.logger.InfoContext(ctx, "Message send",
		"contact_id", contact.ID,
		"phone", contact.Phone,
		"media_url", mediaURL,
	)

	return map[string]any{
		"success":    true,
		"message_id": uuid.New().String(),
		"sent_at":    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// LogTagStore fulfils tag applications by logging them.
type LogTagStore struct {
	logger *slog.Logger
}

func NewLogTagStore(logger *slog.Logger) *LogTagStore {
	return &LogTagStore{logger: logger.With("capability", "tag_store")}
}

func (s *LogTagStore) ApplyTag(ctx context.Context, contact *models.Contact, tag string) error {
	s.logger.InfoContext(ctx, "Tag applied", "contact_id", contact.ID, "tag", tag)

	return nil
}

// LogPipelineUpdater fulfils stage moves by logging them.
type LogPipelineUpdater struct {
	logger *slog.Logger
}

func NewLogPipelineUpdater(logger *slog.Logger) *LogPipelineUpdater {
	return &LogPipelineUpdater{logger: logger.With("capability", "pipeline")}
}

func (u *LogPipelineUpdater) SetOpportunityStage(ctx context.Context, opportunity *models.Opportunity, stageID string) error {
	u.logger.InfoContext(ctx, "Opportunity stage set",
		"opportunity_id", opportunity.ID,
		"stage_id", stageID,
	)

	return nil
}

// LogTaskCreator fulfils task creation by logging it.
type LogTaskCreator struct {
	logger *slog.Logger
}

func NewLogTaskCreator(logger *slog.Logger) *LogTaskCreator {
	return &LogTaskCreator{logger: logger.With("capability", "tasks")}
}

func (c *LogTaskCreator) CreateTask(ctx context.Context, contact *models.Contact, config map[string]any) error {
	c.logger.InfoContext(ctx, "Task created", "contact_id", contact.ID, "config", config)

	return nil
}
