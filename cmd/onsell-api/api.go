// Package main provides the OnSell engine API server.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/joelmartins/onsell-engine/pkg/engine"
	"github.com/joelmartins/onsell-engine/pkg/otelhelper"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"github.com/joelmartins/onsell-engine/pkg/registry"
	"github.com/joelmartins/onsell-engine/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	dispatcher  *engine.Dispatcher
	validate    *validator.Validate
}

func NewAPI(
	ctx context.Context,
	logger *slog.Logger,
	persistence persistence.Persistence,
	q queue.Queue,
	registry *registry.Registry,
) *API {
	dispatcher := engine.NewDispatcher(persistence, q, logger)

	tracer, err := otelhelper.NewTracer(ctx, "onsell-api")
	if err != nil {
		logger.WarnContext(ctx, "Tracing disabled", "error", err)
	} else {
		dispatcher = dispatcher.WithTracer(tracer)
	}

	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		dispatcher:  dispatcher,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.persistence, a.dispatcher, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("OnSell Engine API")
	})

	v1 := app.Group("/v1")
	v1.Post("/triggers/:type", handlers.DispatchTrigger)
	v1.Get("/automations", handlers.GetAutomations)
	v1.Get("/automations/:id", handlers.GetAutomation)
	v1.Get("/runs/:id", handlers.GetRun)
	v1.Get("/contacts/:id/runs", handlers.GetContactRuns)
	v1.Get("/action-types", handlers.GetActionTypes)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
