package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/SRIKANTH-006/CineScan/entity"
	"github.com/SRIKANTH-006/CineScan/pubsub/bus"
)

type DataLake interface {
	StoreTicketUsed(ctx context.Context, event entity.TicketUsed) error
}

type Handler struct {
	dataLake DataLake
}

func NewHandler(dataLake DataLake) Handler {
	if dataLake == nil {
		panic("missing dataLake")
	}

	return Handler{
		dataLake: dataLake,
	}
}

func (h Handler) StoreTicketUsedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"StoreTicketUsedInDataLake",
		func(ctx context.Context, event *entity.TicketUsed) error {
			log.FromContext(ctx).WithField("ticket_id", event.TicketID).Info("Storing used ticket in data lake")

			if err := h.dataLake.StoreTicketUsed(ctx, *event); err != nil {
				return fmt.Errorf("failed to store TicketUsed %s: %w", event.Header.ID, err)
			}

			return nil
		},
	)
}

func NewProcessorConfig(
	newSubscriber func(consumerGroup string) (message.Subscriber, error),
	watermillLogger watermill.LoggerAdapter,
) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return newSubscriber("svc-tickets." + params.HandlerName)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return bus.EventTopic(params.EventName), nil
		},
		Marshaler: bus.Marshaler,
		Logger:    watermillLogger,
	}
}
