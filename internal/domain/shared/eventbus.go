package shared

import "context"

// EventHandler reacts to published domain events.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the subscribed types; empty means all events.
	EventTypes() []string
}

// EventPublisher is what services depend on. A nil publisher is allowed and
// drops events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers between Start
// and Stop.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishPending hands the source's buffered events to publisher. The buffer
// is emptied even when publishing fails so events are never sent twice.
func PublishPending(ctx context.Context, publisher EventPublisher, source EventSource) error {
	events := source.Events()
	source.ClearEvents()
	if publisher == nil || len(events) == 0 {
		return nil
	}
	return publisher.Publish(ctx, events...)
}
