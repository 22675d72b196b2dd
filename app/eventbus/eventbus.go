// Package eventbus connects the service to NATS through watermill.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

const (
	durablePrefix = "rhythm-ranking"
	closeTimeout  = 30 * time.Second
	ackWait       = 30 * time.Second
)

// EventBus publishes and subscribes to event subjects.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type natsEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewEventBus creates a JetStream backed EventBus. Messages carrying a topic
// in their metadata are published to that topic.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOptions,
		Marshaler:   marshaler,
		JetStream: nats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
		},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              natsURL,
		QueueGroupPrefix: durablePrefix,
		SubscribersCount: 1,
		CloseTimeout:     closeTimeout,
		AckWaitTimeout:   ackWait,
		NatsOptions:      natsOptions,
		Unmarshaler:      marshaler,
		JetStream: nats.JetStreamConfig{
			AutoProvision: true,
			DurablePrefix: durablePrefix,
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS", attr.String("url", natsURL))

	return &natsEventBus{
		publisher:  NewRoutingPublisher(publisher),
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

func (b *natsEventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *natsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close is safe to call more than once; the router closes the bus too.
func (b *natsEventBus) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = errors.Join(b.subscriber.Close(), b.publisher.Close())
	})
	return b.closeErr
}

// RoutingPublisher publishes each message to the topic named in its metadata,
// falling back to the topic it was published with.
type RoutingPublisher struct {
	next message.Publisher
}

func NewRoutingPublisher(next message.Publisher) *RoutingPublisher {
	return &RoutingPublisher{next: next}
}

func (p *RoutingPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, m := range messages {
		target := m.Metadata.Get(handlerwrapper.MetadataTopic)
		if target == "" {
			target = topic
		}
		if target == "" {
			return fmt.Errorf("message %s has no topic", m.UUID)
		}
		if err := p.next.Publish(target, m); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", target, err)
		}
	}
	return nil
}

func (p *RoutingPublisher) Close() error {
	return p.next.Close()
}
