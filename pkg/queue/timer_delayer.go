package queue

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
)

// TimerDelayer holds delayed messages in process memory and republishes them
// when due. Pending delays die with the process, so this is only suitable
// for development and tests; production uses the redisdelay scheduler.
type TimerDelayer struct {
	publisher message.Publisher
}

func NewTimerDelayer(publisher message.Publisher) *TimerDelayer {
	return &TimerDelayer{publisher: publisher}
}

// Delay schedules an in-process republish. The enqueue context governs only
// the enqueue call, not the pending timer, so the timer outlives it.
func (d *TimerDelayer) Delay(_ context.Context, msg *message.Message, due time.Time) error {
	time.AfterFunc(time.Until(due), func() {
		_ = d.publisher.Publish(jobs.Topic, msg)
	})

	return nil
}
