// Package addtag implements the tag application action.
package addtag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/protocol"
)

type Action struct {
	tags protocol.TagStore
	tag  string
}

func NewAction(config map[string]any, tags protocol.TagStore) *Action {
	tag, _ := config["tag"].(string)

	return &Action{tags: tags, tag: tag}
}

func (a *Action) Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "add_tag", "contact_id", execution.Contact.ID, "tag", a.tag)

	logger.InfoContext(ctx, "Applying tag")

	err := a.tags.ApplyTag(ctx, execution.Contact, a.tag)
	if err != nil {
		return nil, fmt.Errorf("tag application failed: %w", err)
	}

	return map[string]any{
		"success":     true,
		"action_type": "add_tag",
		"tag":         a.tag,
	}, nil
}
