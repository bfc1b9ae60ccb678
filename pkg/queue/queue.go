// Package queue provides the work-queue abstraction that decouples the graph
// walk into independent, at-least-once units of work.
package queue

import (
	"context"
	"time"

	"github.com/joelmartins/onsell-engine/pkg/jobs"
)

type Job interface {
	GetType() jobs.JobType
}

type Handler func(ctx context.Context, job any) error

// Queue is the engine's view of the external work queue: at-least-once
// delivery, no FIFO guarantee, scheduled (delayed) execution supported.
type Queue interface {
	// Enqueue publishes a job for immediate pickup.
	Enqueue(ctx context.Context, key string, job Job) error
	// EnqueueIn publishes a job that becomes visible after the given delay.
	EnqueueIn(ctx context.Context, key string, job Job, delay time.Duration) error
	Handle(jobType jobs.JobType, handler Handler) error
	Subscribe(ctx context.Context) error
	Close() error
	GenerateID() string
}
