// Package memory provides an in-process persistence backend for development
// and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
)

type Persistence struct {
	automations *AutomationRepository
	runs        *RunRepository
}

func NewPersistence() *Persistence {
	return &Persistence{
		automations: &AutomationRepository{items: make(map[string]*models.Automation)},
		runs:        &RunRepository{items: make(map[string]*models.AutomationRun)},
	}
}

func (p *Persistence) Automations() persistence.AutomationRepository {
	return p.automations
}

func (p *Persistence) Runs() persistence.RunRepository {
	return p.runs
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return nil
}

func (p *Persistence) Close(ctx context.Context) error {
	return nil
}

// clone deep-copies a value through JSON so callers never share the stored
// maps. Keeps the in-memory backend honest about the write-back contract.
func clone[T any](in *T) *T {
	raw, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}

	out := new(T)

	err = json.Unmarshal(raw, out)
	if err != nil {
		panic(err)
	}

	return out
}

type AutomationRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Automation
}

func (r *AutomationRepository) All(ctx context.Context) ([]*models.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	automations := make([]*models.Automation, 0, len(r.items))
	for _, automation := range r.items {
		automations = append(automations, clone(automation))
	}

	return automations, nil
}

func (r *AutomationRepository) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	automation, exists := r.items[id]
	if !exists {
		return nil, persistence.NewAutomationError("GetByID", id, persistence.ErrAutomationNotFound)
	}

	return clone(automation), nil
}

func (r *AutomationRepository) ActiveByTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.Automation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*models.Automation, 0)

	for _, automation := range r.items {
		if !automation.Active {
			continue
		}

		if automation.TenantID != tenantID || automation.TriggerType != triggerType {
			continue
		}

		matches = append(matches, clone(automation))
	}

	return matches, nil
}

func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[automation.ID] = clone(automation)

	return nil
}

func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[id]
	if !exists {
		return persistence.NewAutomationError("Delete", id, persistence.ErrAutomationNotFound)
	}

	delete(r.items, id)

	return nil
}

type RunRepository struct {
	mu    sync.RWMutex
	items map[string]*models.AutomationRun
}

func (r *RunRepository) Create(ctx context.Context, run *models.AutomationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[run.ID]
	if exists {
		return persistence.NewRunError("Create", run.ID, persistence.ErrRunAlreadyExists)
	}

	r.items[run.ID] = clone(run)

	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.AutomationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.items[id]
	if !exists {
		return nil, persistence.NewRunError("GetByID", id, persistence.ErrRunNotFound)
	}

	return clone(run), nil
}

func (r *RunRepository) Update(ctx context.Context, run *models.AutomationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[run.ID]
	if !exists {
		return persistence.NewRunError("Update", run.ID, persistence.ErrRunNotFound)
	}

	r.items[run.ID] = clone(run)

	return nil
}

func (r *RunRepository) ByContact(ctx context.Context, contactID string) ([]*models.AutomationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*models.AutomationRun, 0)

	for _, run := range r.items {
		if run.ContactID == contactID {
			runs = append(runs, clone(run))
		}
	}

	return runs, nil
}
