package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-ledger/internal/domain"

	"github.com/nats-io/nats.go"
)

// EventPublisher publishes bid events on "<prefix>.<type>", e.g.
// "auction_events.bid_accepted".
type EventPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewEventPublisher(conn *nats.Conn, prefix string) *EventPublisher {
	return &EventPublisher{conn: conn, prefix: prefix}
}

func (p *EventPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.prefix, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}
