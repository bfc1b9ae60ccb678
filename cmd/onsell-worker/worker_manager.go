package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joelmartins/onsell-engine/pkg/engine"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/joelmartins/onsell-engine/pkg/otelhelper"
	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"github.com/joelmartins/onsell-engine/pkg/queue/redisdelay"
	"github.com/joelmartins/onsell-engine/pkg/registry"
)

type WorkerManager struct {
	id             string
	logger         *slog.Logger
	persistence    persistence.Persistence
	registry       *registry.Registry
	queue          queue.Queue
	delayScheduler *redisdelay.Delayer
}

func NewWorkerManager(
	id string,
	persistence persistence.Persistence,
	q queue.Queue,
	delayScheduler *redisdelay.Delayer,
	logger *slog.Logger,
	registry *registry.Registry,
) *WorkerManager {
	return &WorkerManager{
		id:             id,
		logger:         logger.With("module", "worker_manager", "worker_id", id),
		persistence:    persistence,
		registry:       registry,
		queue:          q,
		delayScheduler: delayScheduler,
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager")

	runner := engine.NewRunner(w.persistence, w.registry, w.queue, w.id, w.logger)

	tracer, err := otelhelper.NewTracer(ctx, "onsell-worker")
	if err != nil {
		w.logger.WarnContext(ctx, "Tracing disabled", "error", err)
	} else {
		runner = runner.WithTracer(tracer)
	}

	err = w.queue.Handle(jobs.NodeActivationJob, w.handleNodeActivation(runner))
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = w.queue.Subscribe(runCtx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to queue", "error", err)

		return err
	}

	if w.delayScheduler != nil {
		go func() {
			err := w.delayScheduler.Run(runCtx)
			if err != nil && runCtx.Err() == nil {
				w.logger.ErrorContext(runCtx, "Delay scheduler stopped", "error", err)
			}
		}()
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *WorkerManager) handleNodeActivation(runner *engine.Runner) queue.Handler {
	return func(ctx context.Context, job any) error {
		activation, ok := job.(*jobs.NodeActivation)
		if !ok {
			w.logger.ErrorContext(ctx, "Invalid job type for node activation")

			return nil
		}

		return runner.ProcessNode(ctx, activation)
	}
}
