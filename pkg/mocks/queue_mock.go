// Package mocks provides testify mocks for the queue and persistence
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"github.com/stretchr/testify/mock"
)

// MockQueue is a mock implementation of the queue.Queue interface.
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, key string, job queue.Job) error {
	args := m.Called(ctx, key, job)

	return args.Error(0)
}

func (m *MockQueue) EnqueueIn(ctx context.Context, key string, job queue.Job, delay time.Duration) error {
	args := m.Called(ctx, key, job, delay)

	return args.Error(0)
}

func (m *MockQueue) Handle(jobType jobs.JobType, handler queue.Handler) error {
	args := m.Called(jobType, handler)

	return args.Error(0)
}

func (m *MockQueue) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockQueue) Close() error {
	args := m.Called()

	return args.Error(0)
}

func (m *MockQueue) GenerateID() string {
	args := m.Called()

	return args.String(0)
}
