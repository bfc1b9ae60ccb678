package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/joelmartins/onsell-engine/pkg/channels/gochannel"
	"github.com/joelmartins/onsell-engine/pkg/channels/kafka"
	"github.com/joelmartins/onsell-engine/pkg/queue"
	"github.com/joelmartins/onsell-engine/pkg/queue/redisdelay"
	redis "github.com/redis/go-redis/v9"
)

// NewQueue creates the job queue for the given provider. When REDIS_URL is
// set, delayed jobs are parked in Redis and the returned scheduler must be
// run by the caller; otherwise delays are held in process memory and the
// scheduler is nil.
func NewQueue(provider string, serviceName string, logger *slog.Logger) (queue.Queue, *redisdelay.Delayer) {
	wmLogger := watermill.NewSlogLogger(logger)

	var (
		pub message.Publisher
		sub message.Subscriber
		err error
	)

	switch provider {
	case "kafka":
		pub, sub, err = kafka.CreateChannel(wmLogger, serviceName)
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}
	case "gochannel", "":
		pub, sub, err = gochannel.CreateChannel(wmLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create GoChannel pub/sub: %w", err))
		}
	default:
		panic("Unsupported queue provider: " + provider)
	}

	delayer, scheduler := newDelayer(pub, logger)

	return queue.NewWatermillQueue(pub, sub, delayer), scheduler
}

func newDelayer(pub message.Publisher, logger *slog.Logger) (queue.Delayer, *redisdelay.Delayer) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return queue.NewTimerDelayer(pub), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse REDIS_URL: %w", err))
	}

	scheduler := redisdelay.NewDelayer(redis.NewClient(opts), pub, logger)

	return scheduler, scheduler
}
