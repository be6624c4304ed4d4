package websocket

import (
	"context"

	"auction-ledger/internal/domain"
)

type WebSocketNotifier struct {
	connManager domain.ConnectionManager
}

func NewWebSocketNotifier(connManager domain.ConnectionManager) *WebSocketNotifier {
	return &WebSocketNotifier{connManager: connManager}
}

func (n *WebSocketNotifier) NotifyBidder(ctx context.Context, bidderName string, message interface{}) error {
	return n.connManager.NotifyBidder(bidderName, message)
}

func (n *WebSocketNotifier) BroadcastToItem(ctx context.Context, itemName string, message interface{}) error {
	return n.connManager.BroadcastToItem(itemName, message)
}
