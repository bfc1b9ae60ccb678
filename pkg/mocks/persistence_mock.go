package mocks

import (
	"context"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockPersistence is a mock implementation of the persistence.Persistence
// interface.
type MockPersistence struct {
	mock.Mock

	AutomationRepo *MockAutomationRepository
	RunRepo        *MockRunRepository
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		AutomationRepo: new(MockAutomationRepository),
		RunRepo:        new(MockRunRepository),
	}
}

func (m *MockPersistence) Automations() persistence.AutomationRepository {
	return m.AutomationRepo
}

func (m *MockPersistence) Runs() persistence.RunRepository {
	return m.RunRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockAutomationRepository is a mock implementation of the
// persistence.AutomationRepository interface.
type MockAutomationRepository struct {
	mock.Mock
}

func (m *MockAutomationRepository) All(ctx context.Context) ([]*models.Automation, error) {
	args := m.Called(ctx)

	automations, _ := args.Get(0).([]*models.Automation)

	return automations, args.Error(1)
}

func (m *MockAutomationRepository) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	args := m.Called(ctx, id)

	automation, _ := args.Get(0).(*models.Automation)

	return automation, args.Error(1)
}

func (m *MockAutomationRepository) ActiveByTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.Automation, error) {
	args := m.Called(ctx, tenantID, triggerType)

	automations, _ := args.Get(0).([]*models.Automation)

	return automations, args.Error(1)
}

func (m *MockAutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	args := m.Called(ctx, automation)

	return args.Error(0)
}

func (m *MockAutomationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockRunRepository is a mock implementation of the persistence.RunRepository
// interface.
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, run *models.AutomationRun) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}

func (m *MockRunRepository) GetByID(ctx context.Context, id string) (*models.AutomationRun, error) {
	args := m.Called(ctx, id)

	run, _ := args.Get(0).(*models.AutomationRun)

	return run, args.Error(1)
}

func (m *MockRunRepository) Update(ctx context.Context, run *models.AutomationRun) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}

func (m *MockRunRepository) ByContact(ctx context.Context, contactID string) ([]*models.AutomationRun, error) {
	args := m.Called(ctx, contactID)

	runs, _ := args.Get(0).([]*models.AutomationRun)

	return runs, args.Error(1)
}
