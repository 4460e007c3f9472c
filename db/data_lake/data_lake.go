package data_lake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SRIKANTH-006/CineScan/entity"
)

const eventTicketUsed = "TicketUsed"

// DataLake keeps a raw copy of every domain event, keyed by event ID.
type DataLake struct {
	db *sqlx.DB
}

func NewDataLake(db *sqlx.DB) DataLake {
	if db == nil {
		panic("db is nil")
	}

	return DataLake{db: db}
}

func (s DataLake) StoreTicketUsed(ctx context.Context, event entity.TicketUsed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal %s event: %w", event.Header.ID, err)
	}

	return s.store(ctx, entity.DataLakeEvent{
		ID:          event.Header.ID,
		PublishedAt: event.Header.PublishedAt,
		Name:        eventTicketUsed,
		Payload:     payload,
	})
}

func (s DataLake) store(ctx context.Context, dataLakeEvent entity.DataLakeEvent) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO events (event_id, published_at, event_name, event_payload)
		VALUES (:event_id, :published_at, :event_name, :event_payload)
	`, dataLakeEvent)

	var postgresError *pq.Error
	if errors.As(err, &postgresError) && postgresError.Code.Name() == "unique_violation" {
		// redelivered message
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not store %s event in data lake: %w", dataLakeEvent.ID, err)
	}

	return nil
}

// TicketUsedEvents returns stored TicketUsed events, oldest first. It backs GET /ops/used-tickets.
func (s DataLake) TicketUsedEvents(ctx context.Context) ([]entity.TicketUsed, error) {
	var payloads [][]byte
	err := s.db.SelectContext(ctx, &payloads, `
		SELECT event_payload
		FROM events
		WHERE event_name = $1
		ORDER BY published_at ASC
	`, eventTicketUsed)
	if err != nil {
		return nil, fmt.Errorf("could not get events from data lake: %w", err)
	}

	events := make([]entity.TicketUsed, 0, len(payloads))
	for _, payload := range payloads {
		var event entity.TicketUsed
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("could not unmarshal TicketUsed event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}
