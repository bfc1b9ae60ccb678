package queue

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/joelmartins/onsell-engine/pkg/channels/gochannel"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *WatermillQueue {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return NewWatermillQueue(pub, sub, NewTimerDelayer(pub))
}

func testActivation() jobs.NodeActivation {
	return jobs.NodeActivation{
		BaseJob:   jobs.NewBaseJob(jobs.NodeActivationJob, "a-1"),
		RunID:     "run-1",
		NodeID:    "trigger-1",
		ContactID: "c-1",
	}
}

func TestWatermillQueue_EnqueueRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := newTestQueue(t)

	received := make(chan *jobs.NodeActivation, 1)

	err := q.Handle(jobs.NodeActivationJob, func(ctx context.Context, job any) error {
		activation, ok := job.(*jobs.NodeActivation)
		if !ok {
			t.Error("unexpected job type")

			return nil
		}

		received <- activation

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Subscribe(ctx))

	sent := testActivation()
	require.NoError(t, q.Enqueue(ctx, sent.RunID, sent))

	select {
	case activation := <-received:
		assert.Equal(t, sent.RunID, activation.RunID)
		assert.Equal(t, sent.NodeID, activation.NodeID)
		assert.Equal(t, sent.AutomationID, activation.AutomationID)
		assert.Equal(t, jobs.NodeActivationJob, activation.GetType())
	case <-ctx.Done():
		t.Fatal("timed out waiting for job")
	}
}

func TestWatermillQueue_EnqueueInDeliversAfterDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := newTestQueue(t)

	received := make(chan struct{}, 1)

	err := q.Handle(jobs.NodeActivationJob, func(ctx context.Context, job any) error {
		received <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Subscribe(ctx))

	start := time.Now()
	require.NoError(t, q.EnqueueIn(ctx, "run-1", testActivation(), 100*time.Millisecond))

	select {
	case <-received:
		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	case <-ctx.Done():
		t.Fatal("timed out waiting for delayed job")
	}
}

func TestWatermillQueue_EnqueueInZeroDelayIsImmediate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := newTestQueue(t)

	received := make(chan struct{}, 1)

	err := q.Handle(jobs.NodeActivationJob, func(ctx context.Context, job any) error {
		received <- struct{}{}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, q.Subscribe(ctx))

	require.NoError(t, q.EnqueueIn(ctx, "run-1", testActivation(), 0))

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("timed out waiting for job")
	}
}

func TestWatermillQueue_GenerateID(t *testing.T) {
	q := newTestQueue(t)

	first := q.GenerateID()
	second := q.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
