package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/joelmartins/onsell-engine/pkg/engine"
	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/registry"
)

type APIHandlers struct {
	persistence persistence.Persistence
	dispatcher  *engine.Dispatcher
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewAPIHandlers(
	persistence persistence.Persistence,
	dispatcher *engine.Dispatcher,
	registry *registry.Registry,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		persistence: persistence,
		dispatcher:  dispatcher,
		registry:    registry,
		validator:   validator,
	}
}

// DispatchTrigger accepts a CRM event and hands it to the dispatcher.
// Always 202 on a valid payload: dispatch is fire-and-forget and its
// failures surface on run logs, not on this response.
func (h *APIHandlers) DispatchTrigger(c fiber.Ctx) error {
	triggerType := c.Params("type")
	if triggerType == "" {
		return badRequest(c, "Trigger type is required")
	}

	var req TriggerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.dispatcher.Dispatch(c.Context(), models.TriggerType(triggerType), req.contact(), req.Context, req.opportunity())

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"accepted":     true,
		"trigger_type": triggerType,
	})
}

func (h *APIHandlers) GetAutomations(c fiber.Ctx) error {
	automations, err := h.persistence.Automations().All(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(automations)
}

func (h *APIHandlers) GetAutomation(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Automation ID is required")
	}

	automation, err := h.persistence.Automations().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Automation not found")
		}

		return internalError(c, err)
	}

	return c.JSON(automation)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.persistence.Runs().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsRunNotFound(err) {
			return notFound(c, "Run not found")
		}

		return internalError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetContactRuns(c fiber.Ctx) error {
	contactID := c.Params("id")
	if contactID == "" {
		return badRequest(c, "Contact ID is required")
	}

	runs, err := h.persistence.Runs().ByContact(c.Context(), contactID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(runs)
}

// GetActionTypes lists the registered actions and their config schemas, for
// automation builders.
func (h *APIHandlers) GetActionTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"action_types": h.registry.ActionTypes(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "OnSell engine API is healthy"
	httpStatus := http.StatusOK

	err := h.persistence.HealthCheck(c.Context())
	if err != nil {
		status = "unhealthy"
		message = "OnSell engine API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
