package indicator

import (
	"time"

	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/status"
)

// Network timing.
const (
	SleepTime = 500 * time.Millisecond
	MaxSteps  = 2
)

// Flash sub-sequence durations, as fractions of SleepTime.
const (
	flashLead = SleepTime * 45 / 100
	flashGap  = SleepTime * 15 / 100
	flashOn   = SleepTime * 25 / 100
)

// Flash is the pattern modifier rendered once per cycle.
type Flash uint8

// Flash kinds.
const (
	FlashNone   Flash = 0
	FlashDouble Flash = 2
)

func (f Flash) String() string {
	if f == FlashDouble {
		return "double"
	}
	return "none"
}

// Pattern is the waveform a network indicator renders for one status word.
// Limit is the number of steps per cycle the output is lit.
type Pattern struct {
	Limit int
	Flash Flash
	Edge  bool
}

// DerivePattern maps a status word to its base pattern. A down physical role
// short-circuits everything else.
func DerivePattern(word Role) Pattern {
	switch {
	case word&RolePhysical == 0:
		return Pattern{Limit: 0, Flash: FlashNone}
	case word&RoleSlave == 0:
		return Pattern{Limit: MaxSteps / 2, Flash: FlashNone}
	case word&RoleTunnel == 0:
		return Pattern{Limit: MaxSteps, Flash: FlashDouble}
	default:
		return Pattern{Limit: MaxSteps, Flash: FlashNone}
	}
}

type netState uint8

const (
	netInit netState = iota
	netEvaluate
	netFlashOff1
	netFlashOn
	netFlashOff2
)

// NetworkConfig assigns interfaces to the three roles.
type NetworkConfig struct {
	Physical []Member
	Slave    []Member
	Tunnel   []Member
}

// Network reduces up to three interface groups to one waveform.
type Network struct {
	common
	table  *status.Table
	groups [3]InterfaceGroup

	state   netState
	count   int
	word    Role
	pattern Pattern

	published     bool
	lastPublished Pattern
	lastWord      Role
}

// NewNetwork creates a network indicator. All network indicators should share
// one table so each interface is queried once per polling interval.
func NewNetwork(out led.Output, table *status.Table, cfg NetworkConfig, opts ...Option) *Network {
	n := &Network{
		common: newCommon(out, opts),
		table:  table,
		groups: [3]InterfaceGroup{
			{Role: RolePhysical, Members: cfg.Physical},
			{Role: RoleSlave, Members: cfg.Slave},
			{Role: RoleTunnel, Members: cfg.Tunnel},
		},
	}
	for i := range n.groups {
		table.Track(n.groups[i].Names()...)
	}
	return n
}

// Kind implements Indicator.
func (n *Network) Kind() Kind { return KindNetwork }

// Pattern returns the pattern of the current cycle.
func (n *Network) Pattern() Pattern { return n.pattern }

// Word returns the last evaluated status word.
func (n *Network) Word() Role { return n.word }

// Step implements Indicator.
func (n *Network) Step(now time.Duration) time.Duration {
	switch n.state {
	case netInit:
		n.state = netEvaluate
		fallthrough

	case netEvaluate:
		if n.count == 0 {
			n.evaluate(now)
		}
		count := n.count
		n.count = (n.count + 1) % MaxSteps

		switch {
		case count == 0 && n.pattern.Edge:
			n.pattern.Edge = false
			n.set(false)
			n.state = netFlashOff1
			return flashLead
		case n.pattern.Flash == FlashDouble && count == n.pattern.Limit-1:
			n.set(true)
			n.state = netFlashOff1
			return flashLead
		case count < n.pattern.Limit:
			n.set(true)
			return SleepTime
		default:
			n.set(false)
			return SleepTime
		}

	case netFlashOff1:
		n.set(false)
		n.state = netFlashOn
		return flashGap

	case netFlashOn:
		n.set(true)
		n.state = netFlashOff2
		return flashOn

	case netFlashOff2:
		n.set(false)
		n.state = netEvaluate
		return flashGap
	}

	n.state = netEvaluate
	return 0
}

// evaluate aggregates the role groups and derives the cycle's pattern.
func (n *Network) evaluate(now time.Duration) {
	n.table.Refresh(now)

	var word Role
	edge := false
	for i := range n.groups {
		up, changed := n.groups[i].Evaluate(n.table)
		if up {
			word |= n.groups[i].Role
		}
		edge = edge || changed
	}
	n.word = word

	n.pattern = DerivePattern(word)
	n.pattern.Edge = edge

	if edge {
		n.logger.Debug("Network status changed", "output", n.Output(), "status", word.String())
	}

	if !n.published || n.pattern != n.lastPublished || word != n.lastWord {
		n.published = true
		n.lastPublished = n.pattern
		n.lastWord = word
		n.publish(events.NetworkPatternEvent{
			Slot:      n.slot,
			Output:    n.Output(),
			Physical:  word&RolePhysical != 0,
			Slave:     word&RoleSlave != 0,
			Tunnel:    word&RoleTunnel != 0,
			Limit:     n.pattern.Limit,
			Flash:     n.pattern.Flash.String(),
			Edge:      n.pattern.Edge,
			Timestamp: timestamp(),
		})
	}
}
