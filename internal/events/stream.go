package events

import (
	"sync"
	"sync/atomic"

	"github.com/kelindar/event"
)

// Stream collects every event published on a bus into one buffered channel.
// A slow reader loses events instead of stalling the publishers.
type Stream struct {
	ch      chan Event
	dropped atomic.Uint64
	once    sync.Once
	unsubs  []func()
}

// NewStream subscribes to all event types. Close must be called to detach.
func NewStream(bus *Bus, buffer int) *Stream {
	s := &Stream{ch: make(chan Event, buffer)}
	s.unsubs = []func(){
		forward[NetworkPatternEvent](bus, s),
		forward[InterfaceChangedEvent](bus, s),
		forward[CPULoadEvent](bus, s),
		forward[DiskPulseEvent](bus, s),
		forward[HeartbeatRateEvent](bus, s),
		forward[OutputFaultEvent](bus, s),
	}
	return s
}

func forward[T Event](bus *Bus, s *Stream) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case s.ch <- e:
		default:
			s.dropped.Add(1)
		}
	})
}

// C returns the receive side. It is never closed.
func (s *Stream) C() <-chan Event { return s.ch }

// Dropped reports how many events did not fit in the buffer.
func (s *Stream) Dropped() uint64 { return s.dropped.Load() }

// Close unsubscribes from the bus. It is safe to call more than once.
func (s *Stream) Close() {
	s.once.Do(func() {
		for _, unsub := range s.unsubs {
			unsub()
		}
	})
}
