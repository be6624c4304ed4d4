package services

import (
	"context"

	"auction-ledger/pkg/logger"

	"github.com/robfig/cron/v3"
)

type statsSource interface {
	Stats() CatalogStats
}

// CronCatalogReporter periodically logs a catalog snapshot.
type CronCatalogReporter struct {
	cron     *cron.Cron
	schedule string
	source   statsSource
	log      logger.Logger
}

func NewCronCatalogReporter(source statsSource, schedule string, log logger.Logger) *CronCatalogReporter {
	return &CronCatalogReporter{
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		source:   source,
		log:      log,
	}
}

func (r *CronCatalogReporter) Start(ctx context.Context) error {
	r.log.Info("Starting catalog reporter", "schedule", r.schedule)

	_, err := r.cron.AddFunc(r.schedule, func() {
		r.Report(ctx)
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running report to finish.
func (r *CronCatalogReporter) Stop() error {
	r.log.Info("Stopping catalog reporter")
	<-r.cron.Stop().Done()
	return nil
}

func (r *CronCatalogReporter) Report(ctx context.Context) CatalogStats {
	stats := r.source.Stats()
	r.log.Info("Catalog snapshot",
		"items", stats.Items,
		"items_with_bids", stats.ItemsWithBids,
		"total_bid_value", stats.TotalBidValue)
	return stats
}
