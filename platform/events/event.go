// Package events provides a small publish/subscribe bus so submission and
// moderation activity can be observed without coupling the listing service
// to its observers.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName returns a stable identifier used for subscription routing.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a new event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to events it subscribed for.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish dispatches the event to its handlers asynchronously. The
	// publisher never waits and never sees handler errors.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event inline and returns handler errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the name an Event reports from
	// EventName().
	Subscribe(eventName string, handler Handler)
}
