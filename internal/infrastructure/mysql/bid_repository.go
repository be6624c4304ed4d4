package mysql

import (
	"context"
	"database/sql"
	"time"

	"auction-ledger/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) SaveBidEvent(ctx context.Context, event *domain.BidEvent) error {
	query := `
        INSERT INTO bid_events (event_id, item_name, bidder_name, amount, previous_amount, event_type, timestamp, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		event.EventID, event.ItemName, event.BidderName, event.Amount,
		event.PreviousAmount, string(event.Type), event.Timestamp, time.Now())
	return err
}

// GetBidHistory returns accepted bids for an item, oldest first. The
// column collation makes the name match case-insensitive.
func (r *MySQLBidRepository) GetBidHistory(ctx context.Context, itemName string) ([]*domain.BidEvent, error) {
	query := `
        SELECT event_id, item_name, bidder_name, amount, previous_amount, event_type, timestamp
        FROM bid_events
        WHERE item_name = ? AND event_type = 'bid_accepted'
        ORDER BY timestamp ASC, id ASC
    `

	rows, err := r.db.QueryContext(ctx, query, itemName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.BidEvent
	for rows.Next() {
		var event domain.BidEvent
		var eventType string

		err := rows.Scan(&event.EventID, &event.ItemName, &event.BidderName,
			&event.Amount, &event.PreviousAmount, &eventType, &event.Timestamp)
		if err != nil {
			return nil, err
		}

		event.Type = domain.BidEventType(eventType)
		events = append(events, &event)
	}

	return events, rows.Err()
}
