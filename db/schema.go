package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"

	"github.com/SRIKANTH-006/CineScan/entity"
	"github.com/SRIKANTH-006/CineScan/pubsub/outbox"
)

// schemaLockID is an arbitrary key for pg_advisory_xact_lock, shared by every instance.
const schemaLockID = 7_210_001

var SeedTickets = []entity.Ticket{
	{TicketID: "TICKET-1001", HolderName: "Amit Sharma", Used: false},
	{TicketID: "TICKET-1002", HolderName: "Neha Verma", Used: false},
	{TicketID: "TICKET-1003", HolderName: "Ravi Kumar", Used: true},
	{TicketID: "TICKET-1004", HolderName: "Priya Singh", Used: false},
}

// InitializeDatabaseSchema creates the tickets table and inserts SeedTickets, but only when
// the table does not exist yet. Existing ticket data is never touched.
func InitializeDatabaseSchema(ctx context.Context, db *sqlx.DB) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("could not acquire schema lock: %w", err)
	}

	var ticketsTableExists bool
	err = tx.GetContext(ctx, &ticketsTableExists, `SELECT to_regclass('tickets') IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("could not check tickets table: %w", err)
	}

	if !ticketsTableExists {
		if err = createTicketsTable(ctx, tx); err != nil {
			return err
		}
		log.FromContext(ctx).WithField("tickets", len(SeedTickets)).Info("Tickets table created and seeded")
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			event_id UUID PRIMARY KEY,
			published_at TIMESTAMP NOT NULL,
			event_name VARCHAR(255) NOT NULL,
			event_payload JSONB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("could not create events table: %w", err)
	}

	if err = outbox.InitializeSchema(db); err != nil {
		return err
	}

	return nil
}

func createTicketsTable(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE tickets (
			id BIGSERIAL PRIMARY KEY,
			ticket_id TEXT NOT NULL UNIQUE,
			holder_name TEXT NOT NULL,
			used BOOLEAN NOT NULL DEFAULT FALSE,
			used_at TIMESTAMPTZ
		);
	`)
	if err != nil {
		return fmt.Errorf("could not create tickets table: %w", err)
	}

	for _, ticket := range SeedTickets {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO tickets (ticket_id, holder_name, used)
			VALUES (:ticket_id, :holder_name, :used)
		`, ticket)
		if err != nil {
			return fmt.Errorf("could not seed ticket %s: %w", ticket.TicketID, err)
		}
	}

	return nil
}
