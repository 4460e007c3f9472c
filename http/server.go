package http

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/SRIKANTH-006/CineScan/entity"
)

type TicketsRepository interface {
	FindAll(ctx context.Context) ([]entity.Ticket, error)
	FindByID(ctx context.Context, ticketID string) (entity.Ticket, error)
	MarkUsed(ctx context.Context, ticketID string) error
}

type UsedTicketsReadModel interface {
	TicketUsedEvents(ctx context.Context) ([]entity.TicketUsed, error)
}

type Server struct {
	addr                 string
	e                    *echo.Echo
	ticketsRepo          TicketsRepository
	usedTicketsReadModel UsedTicketsReadModel
}

// NewServer registers the JSON API and serves the index and admin pages verbatim from webDir.
func NewServer(
	addr string,
	webDir string,
	ticketsRepo TicketsRepository,
	usedTicketsReadModel UsedTicketsReadModel,
) *Server {
	if ticketsRepo == nil {
		panic("missing ticketsRepo")
	}
	if usedTicketsReadModel == nil {
		panic("missing usedTicketsReadModel")
	}

	e := echoHTTP.NewEcho()
	e.HTTPErrorHandler = handleError
	e.Use(otelecho.Middleware("tickets"))

	server := &Server{
		addr:                 addr,
		e:                    e,
		ticketsRepo:          ticketsRepo,
		usedTicketsReadModel: usedTicketsReadModel,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/tickets", server.GetTickets)
	e.GET("/api/ticket/:ticket_id", server.GetTicket)
	e.POST("/api/mark_used", server.PostMarkUsed)

	e.GET("/ops/used-tickets", server.GetOpsUsedTickets)

	e.File("/", filepath.Join(webDir, "index.html"))
	e.File("/admin", filepath.Join(webDir, "admin.html"))
	e.Static("/static", filepath.Join(webDir, "static"))

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
