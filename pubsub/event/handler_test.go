package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRIKANTH-006/CineScan/entity"
)

type DataLakeMock struct {
	lock sync.Mutex

	Stored []entity.TicketUsed
	Err    error
}

func (m *DataLakeMock) StoreTicketUsed(ctx context.Context, event entity.TicketUsed) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Stored = append(m.Stored, event)
	return nil
}

func TestHandler_StoreTicketUsedHandler(t *testing.T) {
	event := &entity.TicketUsed{
		Header:   entity.NewEventHeader(),
		TicketID: "TICKET-1001",
		UsedAt:   time.Now().UTC(),
	}

	t.Run("stores event", func(t *testing.T) {
		dataLake := &DataLakeMock{}
		handler := NewHandler(dataLake).StoreTicketUsedHandler()

		assert.IsType(t, &entity.TicketUsed{}, handler.NewEvent())

		require.NoError(t, handler.Handle(context.Background(), event))
		require.Len(t, dataLake.Stored, 1)
		assert.Equal(t, *event, dataLake.Stored[0])
	})

	t.Run("returns storage error so the message is retried", func(t *testing.T) {
		storageErr := errors.New("connection reset")
		handler := NewHandler(&DataLakeMock{Err: storageErr}).StoreTicketUsedHandler()

		err := handler.Handle(context.Background(), event)
		assert.ErrorIs(t, err, storageErr)
	})
}

func TestNewHandler_requiresDataLake(t *testing.T) {
	assert.Panics(t, func() {
		NewHandler(nil)
	})
}
