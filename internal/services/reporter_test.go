package services

import (
	"context"
	"testing"

	"auction-ledger/internal/infrastructure/memory"
	"auction-ledger/pkg/logger"
)

func TestCronCatalogReporter_ReportReadsServiceStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewAuctionService(memory.NewCatalog(), nil, logger.NewNop())
	svc.AddItem(ctx, "Vase", 10)
	svc.PlaceBid(ctx, "Vase", "Alice", 11)

	r := NewCronCatalogReporter(svc, "@every 1h", logger.NewNop())
	got := r.Report(ctx)

	if got.Items != 1 || got.ItemsWithBids != 1 || got.TotalBidValue != 11 {
		t.Fatalf("got %+v, want one item with an 11.0 bid", got)
	}
}

func TestCronCatalogReporter_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	svc := NewAuctionService(memory.NewCatalog(), nil, logger.NewNop())
	r := NewCronCatalogReporter(svc, "not a schedule", logger.NewNop())

	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}

func TestCronCatalogReporter_StartStop(t *testing.T) {
	t.Parallel()

	svc := NewAuctionService(memory.NewCatalog(), nil, logger.NewNop())
	r := NewCronCatalogReporter(svc, "@every 1h", logger.NewNop())

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
