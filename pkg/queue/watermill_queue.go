package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
)

// Delayer parks a message until its due time, then republishes it on the
// jobs topic. Implementations back the delay-node re-entry mechanism.
type Delayer interface {
	Delay(ctx context.Context, msg *message.Message, due time.Time) error
}

type WatermillQueue struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	delayer       Delayer
	subscriptions map[jobs.JobType]Handler
}

func NewWatermillQueue(pub message.Publisher, sub message.Subscriber, delayer Delayer) *WatermillQueue {
	return &WatermillQueue{
		publisher:     pub,
		subscriber:    sub,
		delayer:       delayer,
		subscriptions: make(map[jobs.JobType]Handler),
	}
}

func (q *WatermillQueue) GenerateID() string {
	return watermill.NewULID()
}

func (q *WatermillQueue) Enqueue(ctx context.Context, key string, job Job) error {
	msg, err := q.marshal(key, job)
	if err != nil {
		return err
	}

	return q.publisher.Publish(jobs.Topic, msg)
}

func (q *WatermillQueue) EnqueueIn(ctx context.Context, key string, job Job, delay time.Duration) error {
	if delay <= 0 {
		return q.Enqueue(ctx, key, job)
	}

	msg, err := q.marshal(key, job)
	if err != nil {
		return err
	}

	return q.delayer.Delay(ctx, msg, time.Now().UTC().Add(delay))
}

func (q *WatermillQueue) marshal(key string, job Job) (*message.Message, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage("job-"+q.GenerateID(), payload)
	msg.Metadata.Set(jobs.JobKeyMetadataKey, key)
	msg.Metadata.Set(jobs.JobTypeMetadataKey, string(job.GetType()))

	return msg, nil
}

func (q *WatermillQueue) Subscribe(ctx context.Context) error {
	messages, err := q.subscriber.Subscribe(ctx, jobs.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var job any

			jobType := jobs.JobType(msg.Metadata.Get(jobs.JobTypeMetadataKey))

			handler, exists := q.subscriptions[jobType]
			if !exists {
				msg.Ack()

				continue
			}

			switch jobType {
			case jobs.NodeActivationJob:
				job = &jobs.NodeActivation{}
			default:
				msg.Nack()

				continue
			}

			err := json.Unmarshal(msg.Payload, job)
			if err != nil {
				msg.Nack()

				continue
			}

			err = handler(ctx, job)
			if err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (q *WatermillQueue) Handle(jobType jobs.JobType, handler Handler) error {
	q.subscriptions[jobType] = handler

	return nil
}

func (q *WatermillQueue) Close() error {
	err := q.publisher.Close()
	if err != nil {
		return err
	}

	return q.subscriber.Close()
}
