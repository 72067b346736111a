package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisherPublishLogin(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })

	ctx := context.Background()
	messages, err := pubsub.Subscribe(ctx, LoginTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubsub)
	require.NoError(t, publisher.PublishLogin(ctx, "0xABC", "u1"))

	select {
	case msg := <-messages:
		var event LoginEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, "0xABC", event.Address)
		assert.Equal(t, "u1", event.ProfileID)

		_, err := uuid.Parse(msg.UUID)
		assert.NoError(t, err)
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for login event")
	}
}

func TestWatermillPublisherClosedPubSub(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, pubsub.Close())

	publisher := NewWatermillPublisher(pubsub)
	err := publisher.PublishLogin(context.Background(), "0xABC", "u1")
	require.Error(t, err)
}
