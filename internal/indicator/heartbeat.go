package indicator

import (
	"fmt"
	"time"

	"github.com/smazurov/statusled/internal/led"
)

// DefaultDutyPercent is the heartbeat on-time share of a period.
const DefaultDutyPercent = 20

type hbState uint8

const (
	hbInit hbState = iota
	hbOn
	hbOff
)

// Heartbeat blinks at a fixed duty cycle to show the process is alive. The
// rate is read once per phase, so a change applies at the next boundary.
type Heartbeat struct {
	common
	rate  *RateSelector
	duty  int
	state hbState
}

// ValidateDuty checks a duty percentage.
func ValidateDuty(percent int) error {
	if percent < 1 || percent > 99 {
		return fmt.Errorf("duty percent %d out of range 1..99", percent)
	}
	return nil
}

// NewHeartbeat creates a heartbeat indicator. A duty of 0 selects the default.
func NewHeartbeat(out led.Output, rate *RateSelector, dutyPercent int, opts ...Option) (*Heartbeat, error) {
	if dutyPercent == 0 {
		dutyPercent = DefaultDutyPercent
	}
	if err := ValidateDuty(dutyPercent); err != nil {
		return nil, err
	}
	if rate == nil {
		rate = NewRateSelector(RateSlow)
	}
	return &Heartbeat{
		common: newCommon(out, opts),
		rate:   rate,
		duty:   dutyPercent,
	}, nil
}

// Kind implements Indicator.
func (h *Heartbeat) Kind() Kind { return KindHeartbeat }

// Rate returns the shared selector.
func (h *Heartbeat) Rate() *RateSelector { return h.rate }

// Step implements Indicator.
func (h *Heartbeat) Step(time.Duration) time.Duration {
	switch h.state {
	case hbInit:
		h.state = hbOn
		fallthrough

	case hbOn:
		period := h.rate.Load().Period()
		h.set(true)
		h.state = hbOff
		return h.onTime(period)

	case hbOff:
		period := h.rate.Load().Period()
		h.set(false)
		h.state = hbOn
		return period - h.onTime(period)
	}

	h.state = hbOn
	return 0
}

func (h *Heartbeat) onTime(period time.Duration) time.Duration {
	return period * time.Duration(h.duty) / 100
}
