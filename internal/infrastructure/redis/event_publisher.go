package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-ledger/internal/domain"

	"github.com/go-redis/redis/v8"
)

type EventPublisherImpl struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client, channel string) *EventPublisherImpl {
	return &EventPublisherImpl{client: client, channel: channel}
}

func (r *EventPublisherImpl) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Item names may contain any character, so events travel as JSON.
func encodeEvent(event *domain.BidEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal bid event: %w", err)
	}
	return data, nil
}

func decodeEvent(payload []byte) (*domain.BidEvent, error) {
	var event domain.BidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("invalid event payload: missing type in %s", payload)
	}
	return &event, nil
}
