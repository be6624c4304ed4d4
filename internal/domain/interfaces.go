package domain

import (
	"context"
)

// Catalog holds items in insertion order. Implementations are not required
// to be safe for concurrent use; callers serialize access.
type Catalog interface {
	AddItem(name string, startingPrice float64) *Item
	FindByName(name string) (*Item, bool)
	ListAll() []*Item
	Len() int
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

type EventSubscriber interface {
	SubscribeToBidEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *BidEvent) error

// Repository interfaces
type BidRepository interface {
	SaveBidEvent(ctx context.Context, event *BidEvent) error
	GetBidHistory(ctx context.Context, itemName string) ([]*BidEvent, error)
}

// Notification interfaces
type ItemBroadcaster interface {
	BroadcastToItem(ctx context.Context, itemName string, message interface{}) error
}

type BidderNotifier interface {
	NotifyBidder(ctx context.Context, bidderName string, message interface{}) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	ID() string
	Send(message interface{}) error
	Close() error
	BidderName() string
	ItemName() string
}

type ConnectionManager interface {
	RegisterConnection(conn WebSocketConnection) error
	UnregisterConnection(conn WebSocketConnection) error
	GetConnectionsForItem(itemName string) []WebSocketConnection
	GetConnectionsForBidder(bidderName string) []WebSocketConnection
	BroadcastToItem(itemName string, message interface{}) error
	NotifyBidder(bidderName string, message interface{}) error
	CloseAll() error
}
