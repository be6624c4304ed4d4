package services

import (
	"context"

	"auction-ledger/internal/domain"
	"auction-ledger/pkg/logger"
)

// BidArchiver stores accepted bid events for later analysis. The ledger
// never reads the archive back.
type BidArchiver struct {
	subscriber domain.EventSubscriber
	bidRepo    domain.BidRepository
	log        logger.Logger
}

func NewBidArchiver(subscriber domain.EventSubscriber, bidRepo domain.BidRepository, log logger.Logger) *BidArchiver {
	return &BidArchiver{
		subscriber: subscriber,
		bidRepo:    bidRepo,
		log:        log,
	}
}

// Start blocks until ctx is cancelled or the subscription fails.
func (a *BidArchiver) Start(ctx context.Context) error {
	a.log.Info("Starting bid archiver")

	return a.subscriber.SubscribeToBidEvents(ctx, func(event *domain.BidEvent) error {
		return a.handle(ctx, event)
	})
}

func (a *BidArchiver) handle(ctx context.Context, event *domain.BidEvent) error {
	// Only store successful bid events
	if event.Type != domain.BidAccepted {
		return nil
	}

	a.log.Info("Storing bid event", "item_name", event.ItemName,
		"bidder_name", event.BidderName, "amount", event.Amount)
	return a.bidRepo.SaveBidEvent(ctx, event)
}
