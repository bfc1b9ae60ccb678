// Package redisdelay implements durable delayed job scheduling on top of a
// Redis sorted set. Delayed continuations are parked with their due time as
// the score; a poll loop republishes them on the jobs topic once due.
package redisdelay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/joelmartins/onsell-engine/pkg/jobs"
	redis "github.com/redis/go-redis/v9"
)

const delayedSetKey = "onsell:jobs:delayed"

const defaultPollInterval = time.Second

type envelope struct {
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata"`
	Payload  []byte            `json:"payload"`
}

type Delayer struct {
	client       redis.UniversalClient
	publisher    message.Publisher
	logger       *slog.Logger
	pollInterval time.Duration

	now func() time.Time
}

type Option func(*Delayer)

// WithPollInterval overrides how often the scheduler checks for due jobs.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Delayer) {
		d.pollInterval = interval
	}
}

// WithClock overrides the scheduler clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Delayer) {
		d.now = now
	}
}

func NewDelayer(client redis.UniversalClient, publisher message.Publisher, logger *slog.Logger, opts ...Option) *Delayer {
	d := &Delayer{
		client:       client,
		publisher:    publisher,
		logger:       logger.With("module", "redis_delayer"),
		pollInterval: defaultPollInterval,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Delay parks a message until due. The message survives process restarts;
// it becomes visible to workers once the poll loop republishes it.
func (d *Delayer) Delay(ctx context.Context, msg *message.Message, due time.Time) error {
	member, err := json.Marshal(envelope{
		UUID:     msg.UUID,
		Metadata: msg.Metadata,
		Payload:  msg.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode delayed job: %w", err)
	}

	err = d.client.ZAdd(ctx, delayedSetKey, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to park delayed job: %w", err)
	}

	return nil
}

// Run polls for due jobs until the context is cancelled.
func (d *Delayer) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := d.ReleaseDue(ctx)
			if err != nil {
				d.logger.ErrorContext(ctx, "Failed to release due jobs", "error", err)
			}
		}
	}
}

// ReleaseDue republishes every parked job whose due time has passed.
func (d *Delayer) ReleaseDue(ctx context.Context) error {
	now := strconv.FormatInt(d.now().UnixMilli(), 10)

	members, err := d.client.ZRangeByScore(ctx, delayedSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to query due jobs: %w", err)
	}

	for _, member := range members {
		var env envelope

		err := json.Unmarshal([]byte(member), &env)
		if err != nil {
			d.logger.ErrorContext(ctx, "Dropping undecodable delayed job", "error", err)
			d.client.ZRem(ctx, delayedSetKey, member)

			continue
		}

		msg := message.NewMessage(env.UUID, env.Payload)
		for k, v := range env.Metadata {
			msg.Metadata.Set(k, v)
		}

		err = d.publisher.Publish(jobs.Topic, msg)
		if err != nil {
			// Leave the member parked; the next poll retries. Publish after
			// remove would lose jobs on failure, so duplicates are the
			// accepted failure mode here.
			return fmt.Errorf("failed to republish due job %s: %w", env.UUID, err)
		}

		err = d.client.ZRem(ctx, delayedSetKey, member).Err()
		if err != nil {
			return fmt.Errorf("failed to unpark job %s: %w", env.UUID, err)
		}
	}

	return nil
}

// Pending returns the number of parked jobs, for health inspection.
func (d *Delayer) Pending(ctx context.Context) (int64, error) {
	count, err := d.client.ZCard(ctx, delayedSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count delayed jobs: %w", err)
	}

	return count, nil
}
