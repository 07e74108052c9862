// Package eventbus provides the event bus for publishing and subscribing
// to run events.
package eventbus

import (
	"chromabot/core/event"
)

// EventBus is the interface for the event bus.
type EventBus interface {
	// Publish publishes an event to all subscribers.
	// This method is non-blocking; events are queued for async dispatch.
	Publish(e event.Event)

	// Subscribe subscribes to all events.
	// Returns a subscription ID that can be used to unsubscribe.
	Subscribe(handler EventHandler) string

	// SubscribeRun subscribes to events from a specific run.
	// Only events implementing RunEvent with a matching RunID are
	// delivered. Returns a subscription ID.
	SubscribeRun(runID string, handler EventHandler) string

	// Unsubscribe removes a subscription by its ID.
	Unsubscribe(subscriptionID string)

	// Close shuts down the event bus and releases resources.
	// After Close is called, Publish is a no-op.
	Close()
}

// EventHandler is a function that handles an event.
type EventHandler func(e event.Event)
