// Package persistence provides the storage abstraction for automations and
// run logs.
package persistence

import (
	"context"

	"github.com/joelmartins/onsell-engine/pkg/models"
)

// AutomationRepository reads the tenant-authored graph store. The engine
// never writes automations; Save and Delete exist for the management
// surface and for tests.
type AutomationRepository interface {
	All(ctx context.Context) ([]*models.Automation, error)
	GetByID(ctx context.Context, id string) (*models.Automation, error)
	ActiveByTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.Automation, error)
	Save(ctx context.Context, automation *models.Automation) error
	Delete(ctx context.Context, id string) error
}

// RunRepository owns the run log rows. Rows are engine-owned and updated in
// place as the walk advances.
type RunRepository interface {
	Create(ctx context.Context, run *models.AutomationRun) error
	GetByID(ctx context.Context, id string) (*models.AutomationRun, error)
	Update(ctx context.Context, run *models.AutomationRun) error
	ByContact(ctx context.Context, contactID string) ([]*models.AutomationRun, error)
}

type Persistence interface {
	Automations() AutomationRepository
	Runs() RunRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
