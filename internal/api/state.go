package api

import (
	"slices"
	"strings"
	"sync"

	"github.com/smazurov/statusled/internal/api/models"
	"github.com/smazurov/statusled/internal/events"
)

// IndicatorInfo describes one configured indicator.
type IndicatorInfo struct {
	Slot   int
	Output string
	Kind   string
}

// StateTracker keeps the last observation of every indicator, interface and
// output, built from bus events. The scheduler goroutine is never queried
// directly.
type StateTracker struct {
	mu         sync.RWMutex
	indicators []models.IndicatorData
	byOutput   map[string]int
	interfaces map[string]models.InterfaceData
	unsubs     []func()
}

// NewStateTracker seeds the tracker with the configured indicators.
func NewStateTracker(infos []IndicatorInfo) *StateTracker {
	t := &StateTracker{
		byOutput:   make(map[string]int, len(infos)),
		interfaces: make(map[string]models.InterfaceData),
	}
	for _, info := range infos {
		t.byOutput[info.Output] = len(t.indicators)
		t.indicators = append(t.indicators, models.IndicatorData{
			Slot:   info.Slot,
			Output: info.Output,
			Kind:   info.Kind,
		})
	}
	return t
}

// Subscribe feeds the tracker from bus until the returned function is called.
func (t *StateTracker) Subscribe(bus *events.Bus) func() {
	t.unsubs = append(t.unsubs,
		bus.Subscribe(func(e events.NetworkPatternEvent) { t.Observe(e) }),
		bus.Subscribe(func(e events.InterfaceChangedEvent) { t.Observe(e) }),
		bus.Subscribe(func(e events.CPULoadEvent) { t.Observe(e) }),
		bus.Subscribe(func(e events.DiskPulseEvent) { t.Observe(e) }),
		bus.Subscribe(func(e events.OutputFaultEvent) { t.Observe(e) }),
	)
	return func() {
		for _, unsub := range t.unsubs {
			unsub()
		}
		t.unsubs = nil
	}
}

// Observe applies one event.
func (t *StateTracker) Observe(ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := ev.(type) {
	case events.NetworkPatternEvent:
		if ind := t.indicator(e.Output); ind != nil {
			ind.Network = &models.NetworkState{
				Physical: e.Physical,
				Slave:    e.Slave,
				Tunnel:   e.Tunnel,
				Limit:    e.Limit,
				Flash:    e.Flash,
				Edge:     e.Edge,
			}
			ind.UpdatedAt = e.Timestamp
		}
	case events.CPULoadEvent:
		if ind := t.indicator(e.Output); ind != nil {
			usage := e.Usage
			ind.CPUUsage = &usage
			ind.UpdatedAt = e.Timestamp
		}
	case events.DiskPulseEvent:
		if ind := t.indicator(e.Output); ind != nil {
			ind.DiskPulses++
			ind.UpdatedAt = e.Timestamp
		}
	case events.OutputFaultEvent:
		if ind := t.indicator(e.Output); ind != nil {
			ind.Failing = e.Failing
			ind.Error = e.Error
		}
	case events.InterfaceChangedEvent:
		t.interfaces[e.Interface] = models.InterfaceData{
			Name:    e.Interface,
			Status:  e.Current,
			Present: e.Present,
			Up:      e.Up,
			Link:    e.Link,
		}
	}
}

// indicator returns the entry for output. Caller holds mu.
func (t *StateTracker) indicator(output string) *models.IndicatorData {
	i, ok := t.byOutput[output]
	if !ok {
		return nil
	}
	return &t.indicators[i]
}

// Indicators returns a copy of every indicator in slot order.
func (t *StateTracker) Indicators() []models.IndicatorData {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.IndicatorData, len(t.indicators))
	for i, ind := range t.indicators {
		if ind.Network != nil {
			n := *ind.Network
			ind.Network = &n
		}
		if ind.CPUUsage != nil {
			u := *ind.CPUUsage
			ind.CPUUsage = &u
		}
		out[i] = ind
	}
	slices.SortFunc(out, func(a, b models.IndicatorData) int { return a.Slot - b.Slot })
	return out
}

// Interfaces returns every interface seen so far, sorted by name.
func (t *StateTracker) Interfaces() []models.InterfaceData {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.InterfaceData, 0, len(t.interfaces))
	for _, iface := range t.interfaces {
		out = append(out, iface)
	}
	slices.SortFunc(out, func(a, b models.InterfaceData) int { return strings.Compare(a.Name, b.Name) })
	return out
}
