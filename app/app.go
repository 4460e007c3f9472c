package app

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	dbLib "github.com/SRIKANTH-006/CineScan/db"
	"github.com/SRIKANTH-006/CineScan/db/data_lake"
	"github.com/SRIKANTH-006/CineScan/db/tickets"
	"github.com/SRIKANTH-006/CineScan/http"
	"github.com/SRIKANTH-006/CineScan/pubsub"
	"github.com/SRIKANTH-006/CineScan/pubsub/event"
	"github.com/SRIKANTH-006/CineScan/pubsub/outbox"
)

type App struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	forwarder       *forwarder.Forwarder
	httpServer      *http.Server
	traceProvider   *tracesdk.TracerProvider
}

// New wires the service. A nil redisClient keeps forwarded events in process.
func New(
	addr string,
	webDir string,
	db *sqlx.DB,
	redisClient *redis.Client,
	traceProvider *tracesdk.TracerProvider,
) (App, error) {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var broker pubsub.Broker
	if redisClient != nil {
		var err error
		broker, err = pubsub.NewRedisBroker(redisClient, watermillLogger)
		if err != nil {
			return App{}, fmt.Errorf("failed to create redis broker: %w", err)
		}
	} else {
		broker = pubsub.NewGoChannelBroker(watermillLogger)
	}

	ticketsRepo := tickets.NewPostgresRepository(db)
	dataLake := data_lake.NewDataLake(db)

	postgresSubscriber, err := outbox.NewPostgresSubscriber(db, watermillLogger)
	if err != nil {
		return App{}, err
	}

	fwd, err := outbox.NewForwarder(postgresSubscriber, broker.Publisher, watermillLogger)
	if err != nil {
		return App{}, err
	}

	watermillRouter, err := pubsub.NewWatermillRouter(
		event.NewProcessorConfig(broker.NewSubscriber, watermillLogger),
		event.NewHandler(dataLake),
		watermillLogger,
	)
	if err != nil {
		return App{}, fmt.Errorf("failed to create watermill router: %w", err)
	}

	httpServer := http.NewServer(addr, webDir, ticketsRepo, dataLake)

	return App{
		db:              db,
		watermillRouter: watermillRouter,
		forwarder:       fwd,
		httpServer:      httpServer,
		traceProvider:   traceProvider,
	}, nil
}

// Run initializes the schema before anything else, then serves HTTP only after the event
// handlers and the outbox forwarder are running.
func (a App) Run(ctx context.Context) error {
	if err := dbLib.InitializeDatabaseSchema(ctx, a.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// forwarded messages published before handlers subscribe would be lost on gochannel
		select {
		case <-a.watermillRouter.Running():
		case <-ctx.Done():
			return nil
		}

		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		for _, running := range []chan struct{}{a.watermillRouter.Running(), a.forwarder.Running()} {
			select {
			case <-running:
			case <-ctx.Done():
				return nil
			}
		}

		return a.httpServer.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		if a.traceProvider == nil {
			return nil
		}
		return a.traceProvider.Shutdown(context.Background())
	})

	return g.Wait()
}
