// Package ports define the EventBus interface for event-driven communication.
// The event bus replaces callbacks and enables loose coupling between components.
package ports

import (
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// The bus decouples event producers (transport, visualizer) from consumers
// (UI shell, logging). Multiple subscribers can listen to the same event,
// and subscribers don't know about publishers.
//
// Thread-safety: Implementations must be thread-safe as events may be published
// and subscribed from multiple goroutines simultaneously.
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// This method must not block for long periods. Handlers should process
	// events quickly or dispatch to a background goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times, resulting in
	// multiple calls. Each subscription gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging and debugging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for
	// the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	Close() error
}
