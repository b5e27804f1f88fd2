// Package indicator implements the blink generators driven by the scheduler.
//
// Every indicator is a small explicit state machine bound to one LED output.
// Step performs at most one output write and returns how long the scheduler
// should wait before stepping it again. Steps never block: status sources
// are read synchronously from procfs/sysfs, and events are queued on the bus.
package indicator

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/logging"
)

// Kind identifies an indicator type.
type Kind uint8

// Indicator kinds.
const (
	KindUnused Kind = iota
	KindNetwork
	KindHeartbeat
	KindCPULoad
	KindDiskActivity
)

var kindNames = [...]string{
	KindUnused:       "unused",
	KindNetwork:      "network",
	KindHeartbeat:    "heartbeat",
	KindCPULoad:      "cpu",
	KindDiskActivity: "disk",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind parses an indicator kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "network", "net":
		return KindNetwork, nil
	case "heartbeat", "hb":
		return KindHeartbeat, nil
	case "cpu", "cpuload":
		return KindCPULoad, nil
	case "disk", "diskactivity":
		return KindDiskActivity, nil
	case "unused", "none", "":
		return KindUnused, nil
	default:
		return KindUnused, fmt.Errorf("unknown indicator kind %q", s)
	}
}

// Indicator is one independently scheduled blink generator.
type Indicator interface {
	Kind() Kind
	// Step advances the automaton. now is the scheduler's virtual clock.
	// The returned delay is never negative.
	Step(now time.Duration) time.Duration
}

// Publisher receives indicator observations. *events.Bus satisfies it.
type Publisher interface {
	Publish(ev events.Event)
}

// Option configures the parts shared by all indicators.
type Option func(*common)

// WithSlot records the scheduler slot in published events.
func WithSlot(slot int) Option {
	return func(c *common) {
		c.slot = slot
	}
}

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(c *common) {
		c.pub = p
	}
}

// WithLogger overrides the indicator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *common) {
		c.logger = logger
	}
}

type common struct {
	slot   int
	out    led.Output
	pub    Publisher
	logger *slog.Logger
}

func newCommon(out led.Output, opts []Option) common {
	c := common{out: out}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logging.GetLogger("indicator")
	}
	return c
}

// Output returns the name of the driven output.
func (c *common) Output() string {
	return c.out.Name()
}

// Slot returns the configured scheduler slot.
func (c *common) Slot() int {
	return c.slot
}

// set writes the output; failures are reported by led.WithErrorLog.
func (c *common) set(on bool) {
	_ = c.out.Set(on)
}

func (c *common) publish(ev events.Event) {
	if c.pub != nil {
		c.pub.Publish(ev)
	}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
