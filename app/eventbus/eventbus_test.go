package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingPublisher(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 4}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	routed, err := pubSub.Subscribe(ctx, "routed.v1")
	require.NoError(t, err)
	fallback, err := pubSub.Subscribe(ctx, "fallback.v1")
	require.NoError(t, err)

	withTopic := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	withTopic.Metadata.Set(handlerwrapper.MetadataTopic, "routed.v1")
	plain := message.NewMessage(watermill.NewUUID(), []byte(`{}`))

	pub := NewRoutingPublisher(pubSub)
	require.NoError(t, pub.Publish("fallback.v1", withTopic, plain))

	select {
	case m := <-routed:
		assert.Equal(t, withTopic.UUID, m.UUID)
		m.Ack()
	case <-ctx.Done():
		t.Fatal("routed message not delivered")
	}
	select {
	case m := <-fallback:
		assert.Equal(t, plain.UUID, m.UUID)
		m.Ack()
	case <-ctx.Done():
		t.Fatal("fallback message not delivered")
	}
}

func TestRoutingPublisherRequiresTopic(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	err := NewRoutingPublisher(pubSub).Publish("", message.NewMessage(watermill.NewUUID(), nil))
	assert.Error(t, err)
}
