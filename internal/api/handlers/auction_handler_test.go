package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auction-ledger/internal/domain"
	"auction-ledger/internal/infrastructure/memory"
	"auction-ledger/internal/services"
	"auction-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newTestEcho(api AuctionAPI) *echo.Echo {
	e := echo.New()
	NewAuctionHandler(api, logger.NewNop()).Register(e.Group("/api/v1"))
	return e
}

func newLedger() *services.AuctionService {
	return services.NewAuctionService(memory.NewCatalog(), nil, logger.NewNop())
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAuctionHandler_AddItem(t *testing.T) {
	t.Parallel()

	e := newTestEcho(newLedger())

	rec := do(e, http.MethodPost, "/api/v1/items", `{"name":"Vase","starting_price":"10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp AddItemResponse
	decode(t, rec, &resp)
	if resp.Message != "Item added successfully!" || resp.Item.Name != "Vase" || resp.Item.StartingPrice != 10 {
		t.Fatalf("got %+v", resp)
	}

	// Numeric JSON is accepted too.
	rec = do(e, http.MethodPost, "/api/v1/items", `{"name":"Lamp","starting_price":2.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestAuctionHandler_AddItem_invalidPrice(t *testing.T) {
	t.Parallel()

	e := newTestEcho(newLedger())

	rec := do(e, http.MethodPost, "/api/v1/items", `{"name":"Vase","starting_price":"ten"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["error"] != "Invalid starting price. Please enter a valid number." {
		t.Fatalf("got %v", resp)
	}

	rec = do(e, http.MethodPost, "/api/v1/items", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAuctionHandler_PlaceBid_statusMapping(t *testing.T) {
	t.Parallel()

	ledger := newLedger()
	ledger.AddItem(context.Background(), "Vase", 10)
	e := newTestEcho(ledger)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"accepted at starting price", "/api/v1/items/Vase/bids", `{"bidder_name":"Alice","amount":"10"}`, http.StatusCreated, "Bid placed successfully!", ""},
		{"tie rejected", "/api/v1/items/vase/bids", `{"bidder_name":"Bob","amount":"10.0"}`, http.StatusUnprocessableEntity, "Bid must be higher than the current highest bid.", "bid_not_higher"},
		{"below start", "/api/v1/items/Vase/bids", `{"bidder_name":"Bob","amount":5}`, http.StatusUnprocessableEntity, "Bid must be higher than the starting price.", "below_starting_price"},
		{"unknown item", "/api/v1/items/Nonexistent/bids", `{"bidder_name":"Dave","amount":"5"}`, http.StatusNotFound, "Item not found.", "item_not_found"},
		{"bad amount", "/api/v1/items/Vase/bids", `{"bidder_name":"Dave","amount":"lots"}`, http.StatusBadRequest, "Invalid bid amount. Please enter a valid number.", ""},
		{"raised", "/api/v1/items/Vase/bids", `{"bidder_name":"Carol","amount":"15"}`, http.StatusCreated, "Bid placed successfully!", ""},
	}

	for _, tt := range tests {
		rec := do(e, http.MethodPost, tt.path, tt.body)
		if rec.Code != tt.wantStatus {
			t.Fatalf("%s: status got %d, want %d", tt.name, rec.Code, tt.wantStatus)
		}
		var resp PlaceBidResponse
		decode(t, rec, &resp)
		if resp.Message != tt.wantMsg || resp.Code != tt.wantCode {
			t.Fatalf("%s: got %+v, want message %q code %q", tt.name, resp, tt.wantMsg, tt.wantCode)
		}
		if resp.Success != (tt.wantStatus == http.StatusCreated) {
			t.Fatalf("%s: success got %v", tt.name, resp.Success)
		}
	}

	item, _ := ledger.GetItem(context.Background(), "Vase")
	if item.HighestBid == nil || item.HighestBid.BidderName != "Carol" || item.HighestBid.Amount != 15 {
		t.Fatalf("final bid got %+v, want Carol at 15", item.HighestBid)
	}
}

type failingAPI struct {
	AuctionAPI
}

func (failingAPI) PlaceBid(ctx context.Context, itemName, bidderName string, amount float64) (*domain.Bid, error) {
	return nil, errors.New("unexpected")
}

func TestAuctionHandler_PlaceBid_internalError(t *testing.T) {
	t.Parallel()

	e := newTestEcho(failingAPI{})
	rec := do(e, http.MethodPost, "/api/v1/items/Vase/bids", `{"bidder_name":"Alice","amount":"10"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestAuctionHandler_ListItems(t *testing.T) {
	t.Parallel()

	ledger := newLedger()
	e := newTestEcho(ledger)

	rec := do(e, http.MethodGet, "/api/v1/items", "")
	var empty ListItemsResponse
	decode(t, rec, &empty)
	if empty.Items == nil || len(empty.Items) != 0 || empty.Message != "No items available." {
		t.Fatalf("got %+v, want empty list with marker", empty)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("items should encode as an empty array, got %s", rec.Body.String())
	}

	ctx := context.Background()
	ledger.AddItem(ctx, "Vase", 10)
	ledger.PlaceBid(ctx, "Vase", "Alice", 11)
	ledger.AddItem(ctx, "Lamp", 3)

	rec = do(e, http.MethodGet, "/api/v1/items", "")
	var full ListItemsResponse
	decode(t, rec, &full)
	if full.Message != "" || len(full.Items) != 2 {
		t.Fatalf("got %+v", full)
	}
	if full.Items[0].HighestBid == nil || full.Items[0].HighestBid.BidderName != "Alice" {
		t.Fatalf("Items[0] got %+v", full.Items[0])
	}
	if full.Items[1].HighestBid != nil {
		t.Fatalf("Items[1] got %+v, want no bid", full.Items[1])
	}
}

func TestAuctionHandler_GetItem(t *testing.T) {
	t.Parallel()

	ledger := newLedger()
	ledger.AddItem(context.Background(), "Vase", 10)
	e := newTestEcho(ledger)

	rec := do(e, http.MethodGet, "/api/v1/items/VASE", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusOK)
	}
	var item domain.ItemSummary
	decode(t, rec, &item)
	if item.Name != "Vase" {
		t.Fatalf("got %+v", item)
	}

	rec = do(e, http.MethodGet, "/api/v1/items/Lamp", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAuctionHandler_Listing(t *testing.T) {
	t.Parallel()

	ledger := newLedger()
	ledger.AddItem(context.Background(), "Vase", 10)
	e := newTestEcho(ledger)

	rec := do(e, http.MethodGet, "/api/v1/listing", "")
	want := "Auction Items:\nItem: Vase, Starting Price: $10.0\nNo bids yet.\n\n"
	if rec.Body.String() != want {
		t.Fatalf("got %q, want %q", rec.Body.String(), want)
	}
}

func TestAuctionHandler_GetItem_nameMatchingListingRoute(t *testing.T) {
	t.Parallel()

	ledger := newLedger()
	ledger.AddItem(context.Background(), "listing", 3)
	e := newTestEcho(ledger)

	rec := do(e, http.MethodGet, "/api/v1/items/listing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusOK)
	}
	var item domain.ItemSummary
	decode(t, rec, &item)
	if item.Name != "listing" || item.StartingPrice != 3 {
		t.Fatalf("got %+v", item)
	}
}
