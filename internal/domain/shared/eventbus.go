package shared

import "context"

// EventHandler reacts to published domain events. Handlers run on the
// publishing goroutine, so a slow handler delays the write that raised the
// event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error

	// EventTypes lists the types the handler wants; empty means every type
	EventTypes() []string
}

// EventPublisher is what application services depend on
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers at the composition root
type EventSubscriber interface {
	// Subscribe uses handler.EventTypes when eventTypes is empty
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the publisher and subscriber with a lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
