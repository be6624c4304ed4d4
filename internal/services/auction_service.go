package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"
	"auction-ledger/pkg/utils"
)

// AuctionService validates bids and owns the catalog. All catalog access goes
// through mu so the monotonic-bid invariant holds with concurrent callers.
type AuctionService struct {
	catalog     domain.Catalog
	eventPub    domain.EventPublisher
	broadcaster domain.ItemBroadcaster
	notifier    domain.BidderNotifier
	mu          sync.RWMutex
	seq         uint64 // last ticket handed out; guarded by mu

	// Fan-out runs outside mu but in ticket order, so watchers and
	// subscribers see bids in the order they were decided.
	fanMu     sync.Mutex
	fanCond   *sync.Cond
	delivered uint64

	now func() time.Time
	log logger.Logger
}

// CatalogStats is a point-in-time view used by the reporter.
type CatalogStats struct {
	Items         int
	ItemsWithBids int
	TotalBidValue float64
}

type bidDecision struct {
	seq            uint64
	at             time.Time
	itemName       string
	bid            domain.Bid
	previous       float64
	previousBidder string
}

// NewAuctionService wires the service. eventPub may be nil when events are
// disabled.
func NewAuctionService(catalog domain.Catalog, eventPub domain.EventPublisher, log logger.Logger) *AuctionService {
	s := &AuctionService{
		catalog:  catalog,
		eventPub: eventPub,
		now:      time.Now,
		log:      log,
	}
	s.fanCond = sync.NewCond(&s.fanMu)
	return s
}

func (s *AuctionService) SetBroadcaster(broadcaster domain.ItemBroadcaster) {
	s.broadcaster = broadcaster
}

// SetNotifier enables outbid notices to the bidder who lost the lead.
func (s *AuctionService) SetNotifier(notifier domain.BidderNotifier) {
	s.notifier = notifier
}

func (s *AuctionService) AddItem(ctx context.Context, name string, startingPrice float64) domain.ItemSummary {
	s.mu.Lock()
	summary := s.catalog.AddItem(name, startingPrice).Summary()
	s.mu.Unlock()

	s.log.Info("Item added", "item_name", name, "starting_price", startingPrice)
	return summary
}

// PlaceBid returns the accepted bid, or one of domain.ErrItemNotFound,
// domain.ErrBelowStartingPrice, domain.ErrBidNotHigher. A rejected bid
// leaves the catalog untouched.
func (s *AuctionService) PlaceBid(ctx context.Context, itemName, bidderName string, amount float64) (*domain.Bid, error) {
	s.log.Info("Placing bid", "item_name", itemName, "bidder_name", bidderName, "amount", amount)

	decision, err := s.placeBid(itemName, bidderName, amount)

	s.awaitTurn(decision.seq)
	defer s.finishTurn()

	event := &domain.BidEvent{
		EventID:    utils.GenerateID("evt"),
		Sequence:   decision.seq,
		ItemName:   itemName,
		BidderName: bidderName,
		Amount:     amount,
		Timestamp:  decision.at,
	}

	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			event.Reason = ve.Code
		}
		event.Type = domain.BidRejected
		s.log.Info("Bid rejected", "item_name", itemName, "bidder_name", bidderName,
			"amount", amount, "reason", event.Reason)
		s.publish(ctx, event)
		return nil, err
	}

	event.Type = domain.BidAccepted
	event.ItemName = decision.itemName
	event.PreviousAmount = decision.previous
	s.log.Info("Bid accepted", "item_name", decision.itemName, "bidder_name", bidderName,
		"amount", amount, "previous_amount", decision.previous)

	s.publish(ctx, event)
	s.broadcastBid(ctx, event)
	if decision.previousBidder != "" && decision.previousBidder != bidderName {
		s.notifyOutbid(ctx, decision.previousBidder, event)
	}

	bid := decision.bid
	return &bid, nil
}

// placeBid decides the bid under mu. The returned decision always carries a
// ticket and timestamp, even for a rejection.
func (s *AuctionService) placeBid(itemName, bidderName string, amount float64) (bidDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	decision := bidDecision{seq: s.seq, at: s.now().UTC()}

	item, ok := s.catalog.FindByName(itemName)
	if !ok {
		return decision, domain.ErrItemNotFound
	}

	// Checked on its own even when a higher bid already exists.
	if amount < item.StartingPrice {
		return decision, domain.ErrBelowStartingPrice
	}

	if item.HighestBid != nil {
		if amount <= item.HighestBid.Amount {
			return decision, domain.ErrBidNotHigher
		}
		decision.previous = item.HighestBid.Amount
		decision.previousBidder = item.HighestBid.BidderName
	}

	bid := domain.Bid{BidderName: bidderName, Amount: amount}
	item.HighestBid = &bid

	decision.itemName = item.Name
	decision.bid = bid
	return decision, nil
}

// awaitTurn blocks until every earlier ticket has finished its fan-out.
func (s *AuctionService) awaitTurn(seq uint64) {
	s.fanMu.Lock()
	for s.delivered+1 != seq {
		s.fanCond.Wait()
	}
	s.fanMu.Unlock()
}

func (s *AuctionService) finishTurn() {
	s.fanMu.Lock()
	s.delivered++
	s.fanMu.Unlock()
	s.fanCond.Broadcast()
}

func (s *AuctionService) ListItems(ctx context.Context) []domain.ItemSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.catalog.ListAll()
	summaries := make([]domain.ItemSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, item.Summary())
	}
	return summaries
}

func (s *AuctionService) GetItem(ctx context.Context, name string) (domain.ItemSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.catalog.FindByName(name)
	if !ok {
		return domain.ItemSummary{}, domain.ErrItemNotFound
	}
	return item.Summary(), nil
}

func (s *AuctionService) Stats() CatalogStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats CatalogStats
	for _, item := range s.catalog.ListAll() {
		stats.Items++
		if item.HighestBid != nil {
			stats.ItemsWithBids++
			stats.TotalBidValue += item.HighestBid.Amount
		}
	}
	return stats
}

func (s *AuctionService) publish(ctx context.Context, event *domain.BidEvent) {
	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.PublishBidEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish bid event", "event_id", event.EventID,
			"type", event.Type, "error", err)
	}
}

func (s *AuctionService) broadcastBid(ctx context.Context, event *domain.BidEvent) {
	if s.broadcaster == nil {
		return
	}
	err := s.broadcaster.BroadcastToItem(ctx, event.ItemName, map[string]interface{}{
		"type":        "bid_update",
		"sequence":    event.Sequence,
		"item_name":   event.ItemName,
		"bidder_name": event.BidderName,
		"amount":      event.Amount,
		"timestamp":   event.Timestamp,
	})
	if err != nil {
		s.log.Error("Failed to broadcast bid", "item_name", event.ItemName, "error", err)
	}
}

func (s *AuctionService) notifyOutbid(ctx context.Context, bidderName string, event *domain.BidEvent) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.NotifyBidder(ctx, bidderName, map[string]interface{}{
		"type":        "outbid",
		"item_name":   event.ItemName,
		"amount":      event.Amount,
		"your_amount": event.PreviousAmount,
		"timestamp":   event.Timestamp,
	})
	if err != nil {
		s.log.Error("Failed to notify outbid bidder", "bidder_name", bidderName, "error", err)
	}
}
