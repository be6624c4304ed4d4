package handlers

import (
	"net/http"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HistoryHandler serves the archived bid trail. It reads the archive only;
// the live ledger is never rebuilt from it.
type HistoryHandler struct {
	bidRepo domain.BidRepository
	log     logger.Logger
}

type BidHistoryResponse struct {
	ItemName string             `json:"item_name"`
	Bids     []*domain.BidEvent `json:"bids"`
}

func NewHistoryHandler(bidRepo domain.BidRepository, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		bidRepo: bidRepo,
		log:     log,
	}
}

func (h *HistoryHandler) Register(g *echo.Group) {
	g.GET("/items/:name/history", h.GetBidHistory)
}

func (h *HistoryHandler) GetBidHistory(c echo.Context) error {
	itemName := c.Param("name")

	bids, err := h.bidRepo.GetBidHistory(c.Request().Context(), itemName)
	if err != nil {
		h.log.Error("Failed to get bid history", "item_name", itemName, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get bid history"})
	}
	if bids == nil {
		bids = []*domain.BidEvent{}
	}

	return c.JSON(http.StatusOK, BidHistoryResponse{ItemName: itemName, Bids: bids})
}
