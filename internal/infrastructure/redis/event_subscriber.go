package redis

import (
	"context"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, channel string, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client:  client,
		channel: channel,
		log:     log,
	}
}

func (r *RedisEventSubscriber) SubscribeToBidEvents(ctx context.Context, handler domain.EventHandler) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to bid events", "channel", r.channel)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.log.Info("Event channel closed", "channel", r.channel)
				return nil
			}
			dispatch(r.log, []byte(msg.Payload), handler)

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}

// dispatch decodes one payload and hands it to handler. Bad payloads and
// handler failures are logged and skipped.
func dispatch(log logger.Logger, payload []byte, handler domain.EventHandler) {
	event, err := decodeEvent(payload)
	if err != nil {
		log.Error("Failed to parse event", "payload", string(payload), "error", err)
		return
	}

	if err := handler(event); err != nil {
		log.Error("Failed to handle event", "event_id", event.EventID, "error", err)
	}
}
