package indicator

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Rate is a heartbeat blink rate.
type Rate uint32

// Heartbeat rates.
const (
	RateSlow Rate = iota
	RateFast
)

// Heartbeat periods.
const (
	SlowPeriod = time.Second
	FastPeriod = 100 * time.Millisecond
)

func (r Rate) String() string {
	if r == RateFast {
		return "fast"
	}
	return "slow"
}

// Period returns one full on+off cycle at this rate.
func (r Rate) Period() time.Duration {
	if r == RateFast {
		return FastPeriod
	}
	return SlowPeriod
}

// ParseRate parses "slow" or "fast".
func ParseRate(s string) (Rate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow", "":
		return RateSlow, nil
	case "fast":
		return RateFast, nil
	default:
		return RateSlow, fmt.Errorf("unknown heartbeat rate %q (want slow or fast)", s)
	}
}

// RateSelector is the heartbeat rate shared between the scheduler goroutine
// and asynchronous writers (signals, rate file, HTTP).
type RateSelector struct {
	v atomic.Uint32
}

// NewRateSelector returns a selector holding r.
func NewRateSelector(r Rate) *RateSelector {
	s := &RateSelector{}
	s.v.Store(uint32(r))
	return s
}

// Load returns the current rate.
func (s *RateSelector) Load() Rate {
	return Rate(s.v.Load())
}

// Store sets the rate and reports whether it changed.
func (s *RateSelector) Store(r Rate) bool {
	return Rate(s.v.Swap(uint32(r))) != r
}
