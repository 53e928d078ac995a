package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/models"
)

func TestGoChannelRoundTrip(t *testing.T) {
	pubsub, err := InitWatermillProvider(&models.EventBusConfig{Provider: "gochannel"}, nil)
	require.NoError(t, err)
	defer pubsub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := pubsub.Subscribe(ctx, "user.registered")
	require.NoError(t, err)

	sent := &models.Message{
		UUID:     "msg-1",
		Payload:  []byte(`{"address":"0xAA"}`),
		Metadata: map[string]string{"event_type": "user.registered"},
	}
	require.NoError(t, pubsub.Publish(ctx, "user.registered", sent))

	select {
	case got := <-msgs:
		assert.Equal(t, "msg-1", got.UUID)
		assert.Equal(t, sent.Payload, got.Payload)
		assert.Equal(t, "user.registered", got.Metadata["event_type"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSubscribeChannelClosesOnCancel(t *testing.T) {
	pubsub, err := InitWatermillProvider(&models.EventBusConfig{Provider: "gochannel"}, nil)
	require.NoError(t, err)
	defer pubsub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := pubsub.Subscribe(ctx, "social.updated")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-msgs:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestInitWatermillProviderUnknown(t *testing.T) {
	_, err := InitWatermillProvider(&models.EventBusConfig{Provider: "carrier-pigeon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event bus provider")
}

func TestInitRedisRequiresURL(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	_, err := InitWatermillProvider(&models.EventBusConfig{Provider: "redisstream"}, nil)
	require.Error(t, err)
}
