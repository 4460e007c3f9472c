package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/SRIKANTH-006/CineScan/entity"
)

type usedTicketResponse struct {
	EventID  string    `json:"event_id"`
	TicketID string    `json:"ticket_id"`
	UsedAt   time.Time `json:"used_at"`
}

type usedTicketsResponse struct {
	UsedTickets []usedTicketResponse `json:"used_tickets"`
}

// GetOpsUsedTickets lists check-ins recorded in the data lake, oldest first.
func (s Server) GetOpsUsedTickets(c echo.Context) error {
	events, err := s.usedTicketsReadModel.TicketUsedEvents(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, usedTicketsResponse{
		UsedTickets: lo.Map(events, func(event entity.TicketUsed, _ int) usedTicketResponse {
			return usedTicketResponse{
				EventID:  event.Header.ID,
				TicketID: event.TicketID,
				UsedAt:   event.UsedAt,
			}
		}),
	})
}
