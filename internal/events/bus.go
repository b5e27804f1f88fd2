package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting. Publish only
// queues the event; subscribers run on their own goroutines.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(CPULoadEvent{...})
func (b *Bus) Publish(ev Event) {
	// Use type switch to call the generic Publish with the correct type
	switch e := ev.(type) {
	case NetworkPatternEvent:
		event.Publish(b.dispatcher, e)
	case InterfaceChangedEvent:
		event.Publish(b.dispatcher, e)
	case CPULoadEvent:
		event.Publish(b.dispatcher, e)
	case DiskPulseEvent:
		event.Publish(b.dispatcher, e)
	case HeartbeatRateEvent:
		event.Publish(b.dispatcher, e)
	case OutputFaultEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function
// The handler type determines which events it receives
// Returns an unsubscribe function
// Usage: unsub := bus.Subscribe(func(e DiskPulseEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(NetworkPatternEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(InterfaceChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CPULoadEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DiskPulseEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(HeartbeatRateEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(OutputFaultEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Return a no-op function if handler type is not recognized
		return func() {}
	}
}
