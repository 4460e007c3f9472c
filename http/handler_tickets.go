package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/SRIKANTH-006/CineScan/entity"
	"github.com/SRIKANTH-006/CineScan/metrics"
)

type ticketResponse struct {
	TicketID   string `json:"ticket_id"`
	HolderName string `json:"holder_name"`
	Used       bool   `json:"used"`
}

type ticketsResponse struct {
	Tickets []ticketResponse `json:"tickets"`
}

type getTicketResponse struct {
	Found      bool   `json:"found"`
	TicketID   string `json:"ticket_id"`
	HolderName string `json:"holder_name"`
	Used       bool   `json:"used"`
}

type ticketNotFoundResponse struct {
	Found bool `json:"found"`
}

type markUsedRequest struct {
	TicketID string `json:"ticket_id"`
}

type markUsedResponse struct {
	OK       bool   `json:"ok"`
	TicketID string `json:"ticket_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s Server) GetTickets(c echo.Context) error {
	tickets, err := s.ticketsRepo.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("could not list tickets: %w", err)
	}

	return c.JSON(http.StatusOK, ticketsResponse{
		Tickets: lo.Map(tickets, func(ticket entity.Ticket, _ int) ticketResponse {
			return ticketResponse{
				TicketID:   ticket.TicketID,
				HolderName: ticket.HolderName,
				Used:       ticket.Used,
			}
		}),
	})
}

func (s Server) GetTicket(c echo.Context) error {
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, ticketNotFoundResponse{Found: false})
	}

	ticket, err := s.ticketsRepo.FindByID(c.Request().Context(), ticketID)
	if errors.Is(err, entity.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, ticketNotFoundResponse{Found: false})
	}
	if err != nil {
		return fmt.Errorf("could not get ticket: %w", err)
	}

	return c.JSON(http.StatusOK, getTicketResponse{
		Found:      true,
		TicketID:   ticket.TicketID,
		HolderName: ticket.HolderName,
		Used:       ticket.Used,
	})
}

// ticketIDParam returns the decoded ticket_id path param. echo routes on URL.RawPath, without
// unescaping params, whenever the client encoded the path differently from the default encoding.
func ticketIDParam(c echo.Context) (string, error) {
	ticketID := c.Param("ticket_id")
	if c.Request().URL.RawPath == "" {
		return ticketID, nil
	}

	return url.PathUnescape(ticketID)
}

func (s Server) PostMarkUsed(c echo.Context) error {
	var request markUsedRequest
	// any body that doesn't carry a ticket_id string is treated as a missing ticket_id
	if err := json.NewDecoder(c.Request().Body).Decode(&request); err != nil || request.TicketID == "" {
		metrics.TicketsMarkUsed.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, markUsedResponse{OK: false, Error: "ticket_id required"})
	}

	ctx := c.Request().Context()
	logger := log.FromContext(ctx).WithField("ticket_id", request.TicketID)

	err := s.ticketsRepo.MarkUsed(ctx, request.TicketID)
	switch {
	case err == nil:
		metrics.TicketsMarkUsed.WithLabelValues("used").Inc()
		logger.Info("Ticket marked as used")
		return c.JSON(http.StatusOK, markUsedResponse{OK: true, TicketID: request.TicketID})
	case errors.Is(err, entity.ErrTicketNotFound):
		metrics.TicketsMarkUsed.WithLabelValues("not_found").Inc()
		return c.JSON(http.StatusNotFound, markUsedResponse{OK: false, Error: "not found"})
	case errors.Is(err, entity.ErrTicketAlreadyUsed):
		metrics.TicketsMarkUsed.WithLabelValues("already_used").Inc()
		return c.JSON(http.StatusConflict, markUsedResponse{OK: false, Error: "already used"})
	default:
		metrics.TicketsMarkUsed.WithLabelValues("error").Inc()
		logger.WithError(err).Error("could not mark ticket as used")
		return c.JSON(http.StatusInternalServerError, markUsedResponse{OK: false, Error: "internal error"})
	}
}
