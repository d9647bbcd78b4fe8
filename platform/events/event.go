// Package events is the in-process publish/subscribe seam between modules.
// The player announces completions here and never learns who listens; the
// notification side subscribes without importing the player. Platform layer,
// no business logic.
package events

import (
	"context"
	"time"
)

// Event is one fact that already happened, named by type.
type Event interface {
	// EventName identifies the event type; subscriptions key on it.
	EventName() string
	// OccurredAt is when the fact happened, not when it was delivered.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp every concrete event embeds.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt implements Event.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one subscribed type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to their subscribers.
type Bus interface {
	// Publish hands the event to every handler subscribed to its name.
	// Delivery is asynchronous; publishers never block on subscribers.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits for every handler,
	// joining their errors. Used by tests and transactional callers.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events whose EventName matches.
	Subscribe(eventName string, handler Handler)
}
