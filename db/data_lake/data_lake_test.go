package data_lake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRIKANTH-006/CineScan/db"
	"github.com/SRIKANTH-006/CineScan/entity"
)

func TestDataLake_StoreTicketUsed(t *testing.T) {
	ctx := context.Background()

	dataLake := NewDataLake(db.GetDb(t))

	event := entity.TicketUsed{
		Header:   entity.NewEventHeader(),
		TicketID: "TICKET-1001",
		UsedAt:   time.Now().UTC().Truncate(time.Second),
	}

	// redelivered events are stored once
	for i := 0; i < 2; i++ {
		require.NoError(t, dataLake.StoreTicketUsed(ctx, event))
	}

	events, err := dataLake.TicketUsedEvents(ctx)
	require.NoError(t, err)

	var matching []entity.TicketUsed
	for _, e := range events {
		if e.Header.ID == event.Header.ID {
			matching = append(matching, e)
		}
	}

	require.Len(t, matching, 1)
	assert.Equal(t, event.TicketID, matching[0].TicketID)
	assert.True(t, event.UsedAt.Equal(matching[0].UsedAt))
}
