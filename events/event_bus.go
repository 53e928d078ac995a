package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alisharafiiii/nabulines-backup/models"
)

// maxConcurrentHandlers bounds handler goroutines across all topics.
const maxConcurrentHandlers = 32

type handlerEntry struct {
	id      models.SubscriptionID
	handler models.EventHandler
}

type topicState struct {
	handlers []handlerEntry
	cancel   context.CancelFunc
}

type eventBus struct {
	pubsub models.PubSub
	logger models.Logger

	mu     sync.RWMutex
	topics map[string]*topicState

	subIDCounter atomic.Uint64

	handlerSem chan struct{}

	rootCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewEventBus wraps a PubSub transport with per-topic handler fan-out.
func NewEventBus(logger models.Logger, ps models.PubSub) models.EventBus {
	rootCtx, cancel := context.WithCancel(context.Background())

	return &eventBus{
		pubsub:     ps,
		logger:     logger,
		topics:     make(map[string]*topicState),
		handlerSem: make(chan struct{}, maxConcurrentHandlers),
		rootCtx:    rootCtx,
		cancel:     cancel,
	}
}

func (bus *eventBus) Publish(ctx context.Context, evt models.Event) error {
	event := evt

	if event.Type == "" {
		return fmt.Errorf("eventbus: event type must not be empty")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Metadata == nil {
		event.Metadata = make(map[string]string)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &models.Message{
		UUID:    event.ID,
		Payload: payload,
		Metadata: map[string]string{
			"event_type": event.Type,
			"timestamp":  event.Timestamp.Format(time.RFC3339Nano),
		},
	}

	return bus.pubsub.Publish(ctx, event.Type, msg)
}

func (bus *eventBus) Subscribe(
	eventType string,
	handler models.EventHandler,
) (models.SubscriptionID, error) {
	if handler == nil {
		return 0, fmt.Errorf("eventbus: handler must not be nil")
	}

	id := models.SubscriptionID(bus.subIDCounter.Add(1))

	bus.mu.Lock()
	defer bus.mu.Unlock()

	state, exists := bus.topics[eventType]

	// First subscriber → start consumer
	if !exists {
		ctx, cancel := context.WithCancel(bus.rootCtx)

		msgs, err := bus.pubsub.Subscribe(ctx, eventType)
		if err != nil {
			cancel()
			return 0, err
		}

		state = &topicState{
			cancel: cancel,
		}
		bus.topics[eventType] = state

		bus.wg.Add(1)
		go bus.consumeAndMultiplex(ctx, eventType, msgs)
	}

	state.handlers = append(state.handlers, handlerEntry{
		id:      id,
		handler: handler,
	})

	return id, nil
}

func (bus *eventBus) Unsubscribe(eventType string, id models.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	state, ok := bus.topics[eventType]
	if !ok {
		return
	}

	handlers := state.handlers
	for i, entry := range handlers {
		if entry.id == id {
			state.handlers = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}

	// No handlers left → stop consumer
	if len(state.handlers) == 0 {
		state.cancel()
		delete(bus.topics, eventType)
	}
}

func (bus *eventBus) consumeAndMultiplex(
	ctx context.Context,
	topic string,
	msgs <-chan *models.Message,
) {
	defer bus.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var event models.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				bus.logger.Error(
					"failed to unmarshal event",
					"error", err,
					"topic", topic,
					"message_id", msg.UUID,
				)
				continue
			}

			bus.mu.RLock()
			state := bus.topics[topic]
			var handlers []handlerEntry
			if state != nil {
				handlers = append(handlers, state.handlers...)
			}
			bus.mu.RUnlock()

			for _, entry := range handlers {
				bus.handlerSem <- struct{}{}
				bus.wg.Add(1)

				go bus.callHandler(ctx, entry.handler, event)
			}
		}
	}
}

func (bus *eventBus) callHandler(
	ctx context.Context,
	handler models.EventHandler,
	event models.Event,
) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.Error(
				"event handler panicked",
				"panic", r,
				"event_type", event.Type,
				"event_id", event.ID,
			)
		}
		<-bus.handlerSem
		bus.wg.Done()
	}()

	if err := handler(ctx, event); err != nil {
		bus.logger.Error(
			"event handler error",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID,
		)
	}
}

func (bus *eventBus) Close() error {
	// Stop everything
	bus.cancel()

	// Wait for consumers + handlers
	bus.wg.Wait()

	return bus.pubsub.Close()
}
