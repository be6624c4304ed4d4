package websocket

import (
	"encoding/json"
	"sync"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"
)

type ConnectionManager struct {
	connections map[string]map[string]domain.WebSocketConnection // item key -> connection ID -> connection
	bidderConns map[string][]domain.WebSocketConnection          // bidder name -> connections
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[string]domain.WebSocketConnection),
		bidderConns: make(map[string][]domain.WebSocketConnection),
		log:         log,
	}
}

func (cm *ConnectionManager) RegisterConnection(conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	key := domain.ItemKey(conn.ItemName())
	if cm.connections[key] == nil {
		cm.connections[key] = make(map[string]domain.WebSocketConnection)
	}
	cm.connections[key][conn.ID()] = conn

	cm.bidderConns[conn.BidderName()] = append(cm.bidderConns[conn.BidderName()], conn)

	cm.log.Info("Connection registered", "connection_id", conn.ID(),
		"bidder_name", conn.BidderName(), "item_name", conn.ItemName())
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.removeLocked(conn)

	cm.log.Info("Connection unregistered", "connection_id", conn.ID(),
		"bidder_name", conn.BidderName(), "item_name", conn.ItemName())
	return nil
}

func (cm *ConnectionManager) removeLocked(conn domain.WebSocketConnection) {
	key := domain.ItemKey(conn.ItemName())
	if itemConns, exists := cm.connections[key]; exists {
		delete(itemConns, conn.ID())
		if len(itemConns) == 0 {
			delete(cm.connections, key)
		}
	}

	if bidderConns, exists := cm.bidderConns[conn.BidderName()]; exists {
		var remaining []domain.WebSocketConnection
		for _, existing := range bidderConns {
			if existing.ID() != conn.ID() {
				remaining = append(remaining, existing)
			}
		}

		if len(remaining) == 0 {
			delete(cm.bidderConns, conn.BidderName())
		} else {
			cm.bidderConns[conn.BidderName()] = remaining
		}
	}
}

// CloseAll closes and forgets every connection, used on shutdown.
func (cm *ConnectionManager) CloseAll() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for _, itemConns := range cm.connections {
		for _, conn := range itemConns {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "connection_id", conn.ID(), "error", err)
			}
		}
	}
	cm.connections = make(map[string]map[string]domain.WebSocketConnection)
	cm.bidderConns = make(map[string][]domain.WebSocketConnection)
	return nil
}

func (cm *ConnectionManager) GetConnectionsForItem(itemName string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []domain.WebSocketConnection
	for _, conn := range cm.connections[domain.ItemKey(itemName)] {
		connections = append(connections, conn)
	}
	return connections
}

func (cm *ConnectionManager) GetConnectionsForBidder(bidderName string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	connections := make([]domain.WebSocketConnection, len(cm.bidderConns[bidderName]))
	copy(connections, cm.bidderConns[bidderName])
	return connections
}

func (cm *ConnectionManager) BroadcastToItem(itemName string, message interface{}) error {
	connections := cm.GetConnectionsForItem(itemName)
	if len(connections) == 0 {
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(json.RawMessage(payload)); err != nil {
			// Continue to other connections
			cm.log.Error("Failed to send message", "connection_id", conn.ID(),
				"bidder_name", conn.BidderName(), "error", err)
		}
	}

	cm.log.Debug("Broadcast to item", "item_name", itemName, "connections", len(connections))
	return nil
}

func (cm *ConnectionManager) NotifyBidder(bidderName string, message interface{}) error {
	connections := cm.GetConnectionsForBidder(bidderName)

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(json.RawMessage(payload)); err != nil {
			cm.log.Error("Failed to send message", "bidder_name", bidderName, "error", err)
		}
	}

	return nil
}
