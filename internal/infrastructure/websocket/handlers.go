package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"
	"auction-ledger/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // bidders are anonymous; any origin may connect
	},
}

// BidPlacer is the part of the auction service the socket handler needs.
type BidPlacer interface {
	PlaceBid(ctx context.Context, itemName, bidderName string, amount float64) (*domain.Bid, error)
	GetItem(ctx context.Context, name string) (domain.ItemSummary, error)
}

type WebSocketHandler struct {
	auction     BidPlacer
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewWebSocketHandler(auction BidPlacer, connManager domain.ConnectionManager, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		auction:     auction,
		connManager: connManager,
		log:         log,
	}
}

// Router returns a mux router serving /ws/items/{itemName}.
func (h *WebSocketHandler) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws/items/{itemName}", h.HandleConnection).Methods(http.MethodGet)
	return router
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	itemName := mux.Vars(r)["itemName"]

	item, err := h.auction.GetItem(r.Context(), itemName)
	if err != nil {
		h.log.Info("Rejected connection - unknown item", "item_name", itemName)
		http.Error(w, domain.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	bidderName := r.URL.Query().Get("bidder")
	if bidderName == "" {
		http.Error(w, "bidder required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := NewWebSocketConnection(conn, bidderName, item.Name)

	if err := h.connManager.RegisterConnection(wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		conn.Close()
		return
	}

	go h.handleMessages(wsConn)
}

type clientMessage struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

func (h *WebSocketHandler) handleMessages(conn *WebSocketConnection) {
	defer func() {
		h.connManager.UnregisterConnection(conn)
		conn.Close()
	}()

	for {
		var msg clientMessage
		if err := conn.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Error("Failed to read message", "connection_id", conn.ID(), "error", err)
			}
			return
		}

		switch msg.Type {
		case "place_bid":
			h.handleBidMessage(conn, msg)
		case "ping":
			conn.Send(map[string]string{"type": "pong"})
		default:
			conn.Send(map[string]string{"type": "error", "message": "unknown message type"})
		}
	}
}

func (h *WebSocketHandler) handleBidMessage(conn *WebSocketConnection, msg clientMessage) {
	amount, err := domain.ParseAmount(msg.Amount)
	if err != nil {
		conn.Send(map[string]string{"type": "error", "message": domain.MsgInvalidBidAmount})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	_, err = h.auction.PlaceBid(ctx, conn.ItemName(), conn.BidderName(), amount)
	if err != nil && !domain.IsValidationError(err) {
		h.log.Error("Failed to place bid", "error", err)
		conn.Send(map[string]string{"type": "error", "message": "failed to place bid"})
		return
	}

	conn.Send(map[string]interface{}{
		"type":    "bid_result",
		"success": err == nil,
		"message": domain.BidMessage(err),
	})
}

// WebSocketConnection serializes writes; gorilla connections allow only one
// concurrent writer.
type WebSocketConnection struct {
	id         string
	conn       *websocket.Conn
	writeMu    sync.Mutex
	bidderName string
	itemName   string
}

func NewWebSocketConnection(conn *websocket.Conn, bidderName, itemName string) *WebSocketConnection {
	return &WebSocketConnection{
		id:         utils.GenerateID("conn"),
		conn:       conn,
		bidderName: bidderName,
		itemName:   itemName,
	}
}

func (wsc *WebSocketConnection) Send(message interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()

	wsc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsc.conn.WriteJSON(message)
}

func (wsc *WebSocketConnection) Close() error {
	return wsc.conn.Close()
}

func (wsc *WebSocketConnection) ID() string {
	return wsc.id
}

func (wsc *WebSocketConnection) BidderName() string {
	return wsc.bidderName
}

func (wsc *WebSocketConnection) ItemName() string {
	return wsc.itemName
}
