package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRIKANTH-006/CineScan/entity"
)

func TestInitializeDatabaseSchema(t *testing.T) {
	ctx := context.Background()

	container, url := StartPostgresContainer()
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})
	t.Setenv("POSTGRES_URL", url)

	db := GetDb(t)

	selectTickets := func(t *testing.T) []entity.Ticket {
		t.Helper()

		var tickets []entity.Ticket
		err := db.SelectContext(ctx, &tickets, `SELECT ticket_id, holder_name, used FROM tickets ORDER BY id`)
		require.NoError(t, err)

		return tickets
	}

	t.Run("seeds a new store", func(t *testing.T) {
		assert.Equal(t, SeedTickets, selectTickets(t))
	})

	t.Run("does not touch an existing store", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `UPDATE tickets SET used = TRUE WHERE ticket_id = 'TICKET-1001'`)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `INSERT INTO tickets (ticket_id, holder_name) VALUES ('TICKET-2000', 'Late Guest')`)
		require.NoError(t, err)

		require.NoError(t, InitializeDatabaseSchema(ctx, db))
		require.NoError(t, InitializeDatabaseSchema(ctx, db))

		tickets := selectTickets(t)
		require.Len(t, tickets, len(SeedTickets)+1)
		assert.True(t, tickets[0].Used)
		assert.Equal(t, "TICKET-2000", tickets[4].TicketID)
	})

	t.Run("ticket_id is unique", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `INSERT INTO tickets (ticket_id, holder_name) VALUES ('TICKET-1002', 'Impostor')`)
		assert.Error(t, err)
	})

	t.Run("used defaults to false", func(t *testing.T) {
		var used bool
		err := db.GetContext(ctx, &used, `SELECT used FROM tickets WHERE ticket_id = 'TICKET-2000'`)
		require.NoError(t, err)
		assert.False(t, used)
	})
}
