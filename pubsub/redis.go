package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/SRIKANTH-006/CineScan/tracing"
)

// Broker is where forwarded events are published and where event handlers subscribe.
type Broker struct {
	Publisher message.Publisher

	// NewSubscriber returns a subscriber for one consumer group; every group gets its own copy of each message.
	NewSubscriber func(consumerGroup string) (message.Subscriber, error)
}

func NewRedisBroker(rdb *redis.Client, watermillLogger watermill.LoggerAdapter) (Broker, error) {
	var publisher message.Publisher
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, watermillLogger)
	if err != nil {
		return Broker{}, err
	}

	publisher = tracing.PublisherDecorator{Publisher: publisher}

	return Broker{
		Publisher: publisher,
		NewSubscriber: func(consumerGroup string) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: consumerGroup,
			}, watermillLogger)
		},
	}, nil
}

// NewGoChannelBroker keeps messages in memory, for running without Redis.
// Messages published before a handler subscribes are dropped.
func NewGoChannelBroker(watermillLogger watermill.LoggerAdapter) Broker {
	goChannel := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	return Broker{
		Publisher: tracing.PublisherDecorator{Publisher: goChannel},
		NewSubscriber: func(string) (message.Subscriber, error) {
			return goChannel, nil
		},
	}
}
