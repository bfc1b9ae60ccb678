// Package protocol defines the contracts between the engine and its
// pluggable collaborators.
package protocol

import (
	"context"
	"log/slog"

	"github.com/joelmartins/onsell-engine/pkg/models"
)

// Action is one executable node behavior. Execute returns the result payload
// recorded on the run; it must be deterministic with respect to its declared
// output even when the underlying side effect is not.
type Action interface {
	Execute(ctx context.Context, execution models.Execution, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds actions from a node's opaque config map.
type ActionFactory interface {
	ID() string
	Create(config map[string]any) (Action, error)
	// Schema returns the JSON schema the config is validated against at
	// authoring time. Execution stays permissive.
	Schema() map[string]any
}
