package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"

	"github.com/nats-io/nats.go"
)

type EventSubscriber struct {
	conn   *nats.Conn
	prefix string
	log    logger.Logger
}

func NewEventSubscriber(conn *nats.Conn, prefix string, log logger.Logger) *EventSubscriber {
	return &EventSubscriber{conn: conn, prefix: prefix, log: log}
}

// SubscribeToBidEvents subscribes to every event type under the prefix and
// blocks until ctx is cancelled.
func (s *EventSubscriber) SubscribeToBidEvents(ctx context.Context, handler domain.EventHandler) error {
	subject := s.prefix + ".*"
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		s.handleMessage(msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	s.log.Info("Subscribed to bid events", "subject", subject)

	<-ctx.Done()
	s.log.Info("Event subscriber stopped")
	return ctx.Err()
}

func (s *EventSubscriber) handleMessage(data []byte, handler domain.EventHandler) {
	var event domain.BidEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.log.Error("Failed to unmarshal event", "payload", string(data), "error", err)
		return
	}

	if err := handler(&event); err != nil {
		s.log.Error("Failed to handle event", "event_id", event.EventID, "error", err)
	}
}
