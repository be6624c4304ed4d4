package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuctionAPI is the ledger surface exposed over HTTP.
type AuctionAPI interface {
	AddItem(ctx context.Context, name string, startingPrice float64) domain.ItemSummary
	PlaceBid(ctx context.Context, itemName, bidderName string, amount float64) (*domain.Bid, error)
	ListItems(ctx context.Context) []domain.ItemSummary
	GetItem(ctx context.Context, name string) (domain.ItemSummary, error)
}

type AuctionHandler struct {
	auction AuctionAPI
	log     logger.Logger
}

// amountText carries a user-entered number. It accepts a JSON string or a
// JSON number; parsing happens in the handler.
type amountText string

func (a *amountText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = amountText(n.String())
	return nil
}

type AddItemRequest struct {
	Name          string     `json:"name"`
	StartingPrice amountText `json:"starting_price"`
}

type AddItemResponse struct {
	Message string             `json:"message"`
	Item    domain.ItemSummary `json:"item"`
}

type PlaceBidRequest struct {
	BidderName string     `json:"bidder_name"`
	Amount     amountText `json:"amount"`
}

type PlaceBidResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Bid     *domain.Bid `json:"bid,omitempty"`
}

type ListItemsResponse struct {
	Items   []domain.ItemSummary `json:"items"`
	Message string               `json:"message,omitempty"`
}

func NewAuctionHandler(auction AuctionAPI, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auction: auction,
		log:     log,
	}
}

func (h *AuctionHandler) Register(g *echo.Group) {
	g.POST("/items", h.AddItem)
	g.GET("/items", h.ListItems)
	g.GET("/listing", h.Listing)
	g.GET("/items/:name", h.GetItem)
	g.POST("/items/:name/bids", h.PlaceBid)
}

func (h *AuctionHandler) AddItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	price, err := domain.ParseAmount(string(req.StartingPrice))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.MsgInvalidStartingPrice})
	}

	item := h.auction.AddItem(c.Request().Context(), req.Name, price)
	return c.JSON(http.StatusCreated, AddItemResponse{
		Message: domain.MsgItemAdded,
		Item:    item,
	})
}

func (h *AuctionHandler) ListItems(c echo.Context) error {
	resp := ListItemsResponse{Items: h.auction.ListItems(c.Request().Context())}
	if resp.Items == nil {
		resp.Items = []domain.ItemSummary{}
	}
	if len(resp.Items) == 0 {
		resp.Message = domain.MsgNoItems
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuctionHandler) Listing(c echo.Context) error {
	return c.String(http.StatusOK, domain.RenderListing(h.auction.ListItems(c.Request().Context())))
}

func (h *AuctionHandler) GetItem(c echo.Context) error {
	item, err := h.auction.GetItem(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		h.log.Error("Failed to get item", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get item"})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	itemName := c.Param("name")

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, PlaceBidResponse{Message: "Invalid request body"})
	}

	amount, err := domain.ParseAmount(string(req.Amount))
	if err != nil {
		return c.JSON(http.StatusBadRequest, PlaceBidResponse{Message: domain.MsgInvalidBidAmount})
	}

	bid, err := h.auction.PlaceBid(c.Request().Context(), itemName, req.BidderName, amount)
	if err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			h.log.Error("Failed to place bid", "item_name", itemName, "error", err)
			return c.JSON(http.StatusInternalServerError, PlaceBidResponse{Message: "Failed to place bid"})
		}

		status := http.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		return c.JSON(status, PlaceBidResponse{Message: ve.Message, Code: ve.Code})
	}

	return c.JSON(http.StatusCreated, PlaceBidResponse{
		Success: true,
		Message: domain.BidMessage(nil),
		Bid:     bid,
	})
}
