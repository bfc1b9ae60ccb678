package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/joelmartins/onsell-engine/pkg/engine"
	"github.com/joelmartins/onsell-engine/pkg/mocks"
	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence/memory"
	"github.com/joelmartins/onsell-engine/pkg/registry"
	"github.com/joelmartins/onsell-engine/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *memory.Persistence, *mocks.MockQueue) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	persistence := memory.NewPersistence()
	queue := new(mocks.MockQueue)
	dispatcher := engine.NewDispatcher(persistence, queue, logger)
	reg := registry.NewRegistry(logger)
	validate := validator.New(validator.WithRequiredStructEnabled())

	handlers := web.NewAPIHandlers(persistence, dispatcher, reg, validate)

	app := fiber.New()
	v1 := app.Group("/v1")
	v1.Post("/triggers/:type", handlers.DispatchTrigger)
	v1.Get("/automations", handlers.GetAutomations)
	v1.Get("/automations/:id", handlers.GetAutomation)
	v1.Get("/runs/:id", handlers.GetRun)
	v1.Get("/contacts/:id/runs", handlers.GetContactRuns)
	app.Get("/health", handlers.HealthCheck)

	return app, persistence, queue
}

func seedAutomation(t *testing.T, persistence *memory.Persistence) *models.Automation {
	t.Helper()

	automation := &models.Automation{
		ID:          "a-1",
		TenantID:    "t-1",
		Name:        "Boas-vindas",
		TriggerType: models.TriggerFormSubmitted,
		Active:      true,
		Nodes: []*models.AutomationNode{
			{NodeID: "trigger-1", Type: models.NodeTypeTrigger},
		},
	}
	require.NoError(t, persistence.Automations().Save(context.Background(), automation))

	return automation
}

func TestDispatchTrigger_Accepted(t *testing.T) {
	app, persistence, queue := setupTestApp(t)
	seedAutomation(t, persistence)

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	body, err := json.Marshal(web.TriggerEventRequest{
		Contact: web.ContactPayload{ID: "c-1", TenantID: "t-1", Name: "Maria"},
		Context: map[string]any{"form_id": "f-1"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/triggers/form_submitted", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	runs, err := persistence.Runs().ByContact(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	queue.AssertExpectations(t)
}

func TestDispatchTrigger_InvalidPayload(t *testing.T) {
	app, _, _ := setupTestApp(t)

	// contact without required fields
	req := httptest.NewRequest(http.MethodPost, "/v1/triggers/form_submitted",
		bytes.NewReader([]byte(`{"contact":{"name":"Maria"}}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatchTrigger_MalformedJSON(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/triggers/form_submitted",
		bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAutomations(t *testing.T) {
	app, persistence, _ := setupTestApp(t)
	seedAutomation(t, persistence)

	req := httptest.NewRequest(http.MethodGet, "/v1/automations", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var automations []*models.Automation
	require.NoError(t, json.Unmarshal(raw, &automations))
	assert.Len(t, automations, 1)
}

func TestGetAutomation_NotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/automations/ghost", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRun(t *testing.T) {
	app, persistence, _ := setupTestApp(t)

	run := &models.AutomationRun{
		ID:           "r-1",
		AutomationID: "a-1",
		ContactID:    "c-1",
		NodeID:       "trigger-1",
		Status:       models.RunStatusCompleted,
		Context:      map[string]any{},
		StartedAt:    time.Now().UTC(),
	}
	require.NoError(t, persistence.Runs().Create(context.Background(), run))

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/r-1", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var stored models.AutomationRun
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, models.RunStatusCompleted, stored.Status)
}

func TestGetRun_NotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/ghost", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetContactRuns(t *testing.T) {
	app, persistence, _ := setupTestApp(t)

	for _, id := range []string{"r-1", "r-2"} {
		run := &models.AutomationRun{
			ID:           id,
			AutomationID: "a-1",
			ContactID:    "c-1",
			NodeID:       "trigger-1",
			Status:       models.RunStatusPending,
			Context:      map[string]any{},
			StartedAt:    time.Now().UTC(),
		}
		require.NoError(t, persistence.Runs().Create(context.Background(), run))
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts/c-1/runs", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var runs []*models.AutomationRun
	require.NoError(t, json.Unmarshal(raw, &runs))
	assert.Len(t, runs, 2)
}

func TestHealthCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
