package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SRIKANTH-006/CineScan/entity"
	"github.com/SRIKANTH-006/CineScan/pubsub/bus"
	"github.com/SRIKANTH-006/CineScan/pubsub/outbox"
)

const postgresUniqueValueViolationErrorCode = "23505"

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db must be set")
	}

	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Store(ctx context.Context, ticket entity.Ticket) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tickets (ticket_id, holder_name, used)
		VALUES (:ticket_id, :holder_name, :used)
	`, ticket)

	var postgresError *pq.Error
	if errors.As(err, &postgresError) && postgresError.Code == postgresUniqueValueViolationErrorCode {
		return entity.ErrTicketAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("could not store ticket %s: %w", ticket.TicketID, err)
	}

	return nil
}

// FindAll returns tickets in insertion order.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Ticket, error) {
	tickets := []entity.Ticket{}
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT id, ticket_id, holder_name, used
		FROM tickets
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("could not get tickets: %w", err)
	}

	return tickets, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ticketID string) (entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.GetContext(ctx, &ticket, `
		SELECT id, ticket_id, holder_name, used
		FROM tickets
		WHERE ticket_id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, entity.ErrTicketNotFound
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("could not get ticket %s: %w", ticketID, err)
	}

	return ticket, nil
}

// MarkUsed flips the used flag of an unused ticket and publishes TicketUsed in the same
// transaction. It returns entity.ErrTicketNotFound or entity.ErrTicketAlreadyUsed without
// mutating anything when the transition is not legal.
//
// The conditional update takes the row lock, so concurrent calls for the same ticket are
// serialized by Postgres and only one of them can see the row with used = FALSE.
func (r *PostgresRepository) MarkUsed(ctx context.Context, ticketID string) (err error) {
	// a started check-then-set always runs to completion
	ctx = context.WithoutCancel(ctx)

	tx, err := r.db.BeginTxx(ctx, nil)
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

	var usedAt time.Time
	err = tx.GetContext(ctx, &usedAt, `
		UPDATE tickets
		SET used = TRUE, used_at = NOW()
		WHERE ticket_id = $1 AND used = FALSE
		RETURNING used_at
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return r.notUpdatedReason(ctx, tx, ticketID)
	}
	if err != nil {
		return fmt.Errorf("could not mark ticket %s as used: %w", ticketID, err)
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
	if err != nil {
		return err
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return fmt.Errorf("could not create event bus: %w", err)
	}

	err = eventBus.Publish(ctx, entity.TicketUsed{
		Header:   entity.NewEventHeader(),
		TicketID: ticketID,
		UsedAt:   usedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not publish TicketUsed for %s: %w", ticketID, err)
	}

	return nil
}

func (r *PostgresRepository) notUpdatedReason(ctx context.Context, tx *sqlx.Tx, ticketID string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_id = $1)`, ticketID)
	if err != nil {
		return fmt.Errorf("could not check ticket %s: %w", ticketID, err)
	}

	if !exists {
		return entity.ErrTicketNotFound
	}

	return entity.ErrTicketAlreadyUsed
}
