package metrics

import (
	"sync"

	"github.com/smazurov/statusled/internal/events"
)

// Collector feeds bus events into the Prometheus metrics. Handlers run on
// the bus goroutines, never on the scheduler goroutine.
type Collector struct {
	mu     sync.Mutex
	unsubs []func()
}

// NewCollector subscribes to every event the metrics cover.
func NewCollector(bus *events.Bus) *Collector {
	c := &Collector{}
	c.unsubs = []func(){
		bus.Subscribe(func(e events.NetworkPatternEvent) { c.Observe(e) }),
		bus.Subscribe(func(e events.InterfaceChangedEvent) { c.Observe(e) }),
		bus.Subscribe(func(e events.CPULoadEvent) { c.Observe(e) }),
		bus.Subscribe(func(e events.DiskPulseEvent) { c.Observe(e) }),
		bus.Subscribe(func(e events.HeartbeatRateEvent) { c.Observe(e) }),
		bus.Subscribe(func(e events.OutputFaultEvent) { c.Observe(e) }),
	}
	return c
}

// Observe applies one event.
func (c *Collector) Observe(ev events.Event) {
	switch e := ev.(type) {
	case events.NetworkPatternEvent:
		SetNetworkPattern(e.Output, e.Limit, e.Physical, e.Slave, e.Tunnel)
	case events.InterfaceChangedEvent:
		SetInterfaceStatus(e.Interface, e.Present, e.Up, e.Link)
	case events.CPULoadEvent:
		SetCPUUsage(e.Output, e.Usage)
	case events.DiskPulseEvent:
		IncDiskPulses(e.Output)
	case events.HeartbeatRateEvent:
		SetHeartbeatRate(e.Rate == "fast", e.Source)
	case events.OutputFaultEvent:
		SetOutputFailing(e.Output, e.Failing)
	}
}

// Stop unsubscribes from the bus.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}
