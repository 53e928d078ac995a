package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// fakePubSub is an unbuffered in-process transport for bus tests.
type fakePubSub struct {
	mu     sync.Mutex
	chans  map[string][]chan *models.Message
	closed bool
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{chans: make(map[string][]chan *models.Message)}
}

func (f *fakePubSub) Publish(ctx context.Context, topic string, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("pubsub closed")
	}
	for _, ch := range f.chans[topic] {
		ch <- msg
	}
	return nil
}

func (f *fakePubSub) Subscribe(ctx context.Context, topic string) (<-chan *models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan *models.Message, 16)
	f.chans[topic] = append(f.chans[topic], ch)
	return ch, nil
}

func (f *fakePubSub) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func testLogger() models.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus := NewEventBus(testLogger(), newFakePubSub())
	defer bus.Close()

	received := make(chan models.Event, 1)
	_, err := bus.Subscribe(TopicUserRegistered, func(ctx context.Context, event models.Event) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{"address": "0xAA", "username": "nabu"})
	err = bus.Publish(context.Background(), models.Event{
		Type:    TopicUserRegistered,
		Payload: payload,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, TopicUserRegistered, event.Type)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.JSONEq(t, string(payload), string(event.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishRequiresType(t *testing.T) {
	bus := NewEventBus(testLogger(), newFakePubSub())
	defer bus.Close()

	err := bus.Publish(context.Background(), models.Event{})
	assert.Error(t, err)
}

func TestSubscribeRequiresHandler(t *testing.T) {
	bus := NewEventBus(testLogger(), newFakePubSub())
	defer bus.Close()

	_, err := bus.Subscribe(TopicSocialUpdated, nil)
	assert.Error(t, err)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus(testLogger(), newFakePubSub())
	defer bus.Close()

	var calls sync.Map
	id, err := bus.Subscribe(TopicKOLOnboarded, func(ctx context.Context, event models.Event) error {
		calls.Store(event.ID, true)
		return nil
	})
	require.NoError(t, err)

	bus.Unsubscribe(TopicKOLOnboarded, id)

	err = bus.Publish(context.Background(), models.Event{Type: TopicKOLOnboarded, ID: "after-unsub"})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	_, ok := calls.Load("after-unsub")
	assert.False(t, ok)
}

func TestHandlerPanicDoesNotKillBus(t *testing.T) {
	bus := NewEventBus(testLogger(), newFakePubSub())
	defer bus.Close()

	survived := make(chan struct{}, 1)
	_, err := bus.Subscribe(TopicAdminCleared, func(ctx context.Context, event models.Event) error {
		if event.ID == "boom" {
			panic("handler exploded")
		}
		survived <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), models.Event{Type: TopicAdminCleared, ID: "boom"}))
	require.NoError(t, bus.Publish(context.Background(), models.Event{Type: TopicAdminCleared, ID: "fine"}))

	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("bus stopped delivering after handler panic")
	}
}
