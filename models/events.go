package models

import (
	"context"
	"encoding/json"
	"time"
)

// Event represents data published on the event bus after a successful write.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
}

// Message represents a message in the pub/sub system.
type Message struct {
	UUID     string
	Payload  []byte
	Metadata map[string]string
}

// EventHandler processes one delivered event. Errors are logged, not retried.
type EventHandler func(ctx context.Context, event Event) error

// SubscriptionID identifies a registered handler for Unsubscribe.
type SubscriptionID uint64

// EventBus fans events out to subscribed handlers over a PubSub transport.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType string, handler EventHandler) (SubscriptionID, error)
	Unsubscribe(eventType string, id SubscriptionID)
	Close() error
}

// PubSub is a generic publish-subscribe interface over a message transport.
type PubSub interface {
	// Publish sends a message to the specified topic
	Publish(ctx context.Context, topic string, msg *Message) error

	// Subscribe returns a channel that receives messages from the specified topic.
	// The channel is closed when the subscription is cancelled or closed.
	Subscribe(ctx context.Context, topic string) (<-chan *Message, error)

	// Close closes the pub/sub and cleans up resources
	Close() error
}
