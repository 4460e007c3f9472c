package http

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRIKANTH-006/CineScan/entity"
)

func TestGetOpsUsedTickets(t *testing.T) {
	usedAt := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)

	t.Run("lists recorded check-ins", func(t *testing.T) {
		readModel := UsedTicketsReadModelMock{Events: []entity.TicketUsed{
			{Header: entity.EventHeader{ID: "event-1"}, TicketID: "TICKET-1001", UsedAt: usedAt},
			{Header: entity.EventHeader{ID: "event-2"}, TicketID: "TICKET-1004", UsedAt: usedAt.Add(time.Minute)},
		}}
		s := NewServer(":0", t.TempDir(), NewTicketsRepositoryMock(), readModel)

		rec := doRequest(t, s, http.MethodGet, "/ops/used-tickets", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"used_tickets": [
			{"event_id": "event-1", "ticket_id": "TICKET-1001", "used_at": "2026-10-19T18:30:00Z"},
			{"event_id": "event-2", "ticket_id": "TICKET-1004", "used_at": "2026-10-19T18:31:00Z"}
		]}`, rec.Body.String())
	})

	t.Run("nothing used yet", func(t *testing.T) {
		s := NewServer(":0", t.TempDir(), NewTicketsRepositoryMock(), UsedTicketsReadModelMock{})

		rec := doRequest(t, s, http.MethodGet, "/ops/used-tickets", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"used_tickets": []}`, rec.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		readModel := UsedTicketsReadModelMock{Err: errors.New("connection reset")}
		s := NewServer(":0", t.TempDir(), NewTicketsRepositoryMock(), readModel)

		rec := doRequest(t, s, http.MethodGet, "/ops/used-tickets", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error": "internal error"}`, rec.Body.String())
	})
}
