package domain

import (
	"strings"
	"time"
)

// Item is a lot in the catalog. HighestBid is nil until a bid is accepted.
type Item struct {
	Name          string
	StartingPrice float64
	HighestBid    *Bid
}

func (i *Item) Summary() ItemSummary {
	summary := ItemSummary{
		Name:          i.Name,
		StartingPrice: i.StartingPrice,
	}
	if i.HighestBid != nil {
		bid := *i.HighestBid
		summary.HighestBid = &bid
	}
	return summary
}

func (i *Item) String() string {
	return i.Summary().String()
}

// Bid is immutable once created; a new accepted bid replaces it.
type Bid struct {
	BidderName string  `json:"bidder_name"`
	Amount     float64 `json:"amount"`
}

func (b Bid) String() string {
	return "Bidder: " + b.BidderName + ", Bid Amount: $" + FormatAmount(b.Amount)
}

// ItemSummary is a detached copy of an Item safe to hand to callers.
type ItemSummary struct {
	Name          string  `json:"name"`
	StartingPrice float64 `json:"starting_price"`
	HighestBid    *Bid    `json:"highest_bid,omitempty"`
}

func (s ItemSummary) HasBids() bool {
	return s.HighestBid != nil
}

func (s ItemSummary) String() string {
	return "Item: " + s.Name + ", Starting Price: $" + FormatAmount(s.StartingPrice)
}

// ItemKey normalizes an item name for case-insensitive keyed lookups.
func ItemKey(name string) string {
	return strings.ToLower(name)
}

type BidEvent struct {
	EventID        string       `json:"event_id"`
	Sequence       uint64       `json:"sequence"`
	Type           BidEventType `json:"type"`
	ItemName       string       `json:"item_name"`
	BidderName     string       `json:"bidder_name"`
	Amount         float64      `json:"amount"`
	PreviousAmount float64      `json:"previous_amount,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

type BidEventType string

const (
	BidAccepted BidEventType = "bid_accepted"
	BidRejected BidEventType = "bid_rejected"
)

// Outcome and presentation messages shown to bidders verbatim.
const (
	MsgBidPlaced            = "Bid placed successfully!"
	MsgItemAdded            = "Item added successfully!"
	MsgNoItems              = "No items available."
	MsgNoBids               = "No bids yet."
	MsgInvalidStartingPrice = "Invalid starting price. Please enter a valid number."
	MsgInvalidBidAmount     = "Invalid bid amount. Please enter a valid number."
)
