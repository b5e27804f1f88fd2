package indicator

import (
	"time"

	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/status"
)

// CPU load timing. At 0% the output blinks 500/500ms and resamples every
// second; at 100% it blinks 40/60ms and resamples every 250ms.
const (
	cpuWarmupDelay   = 250 * time.Millisecond
	cpuResampleBase  = 250 * time.Millisecond
	cpuResampleStep  = 7500 * time.Microsecond
	cpuPhaseBase     = 500 * time.Millisecond
	cpuOnStep        = 4600 * time.Microsecond
	cpuOffStep       = 4400 * time.Microsecond
	cpuFastThreshold = 10
	cpuFastDivisor   = 10
)

type cpuState uint8

const (
	cpuBootstrap cpuState = iota
	cpuWarmup
	cpuRunning
)

// CPULoad blinks faster and with a shorter duty cycle as load rises.
type CPULoad struct {
	common
	source  status.CPUSource
	samples RollingCounter[status.CPUTimes]
	state   cpuState

	usage    int
	known    bool
	fast     bool
	lit      bool
	phaseAt  time.Duration
	sampleAt time.Duration
}

// NewCPULoad creates a CPU load indicator.
func NewCPULoad(out led.Output, source status.CPUSource, opts ...Option) *CPULoad {
	return &CPULoad{
		common: newCommon(out, opts),
		source: source,
	}
}

// Kind implements Indicator.
func (c *CPULoad) Kind() Kind { return KindCPULoad }

// Usage returns the most recent load percentage.
func (c *CPULoad) Usage() int { return c.usage }

// Step implements Indicator.
func (c *CPULoad) Step(now time.Duration) time.Duration {
	switch c.state {
	case cpuBootstrap:
		c.pushSample()
		c.set(false)
		c.state = cpuWarmup
		return cpuWarmupDelay

	case cpuWarmup:
		// the second sample yields the first usage; output stays off
		c.resample(now)
		c.set(false)
		c.state = cpuRunning
		c.phaseAt = now + cpuWarmupDelay
		return max(min(c.phaseAt, c.sampleAt)-now, 0)
	}

	if now >= c.sampleAt {
		c.resample(now)
	}
	if !c.known {
		// no usage yet, stay dark rather than show the idle pattern
		return max(c.sampleAt-now, 0)
	}
	if now >= c.phaseAt {
		c.lit = !c.lit
		c.set(c.lit)
		if c.lit {
			c.phaseAt = now + OnTime(c.usage)
		} else {
			c.phaseAt = now + OffTime(c.usage)
		}
	}
	return max(min(c.phaseAt, c.sampleAt)-now, 0)
}

func (c *CPULoad) pushSample() bool {
	times, err := c.source.CPUTimes()
	if err != nil {
		c.logger.Debug("CPU counters unavailable", "error", err)
		return false
	}
	c.samples.Push(times)
	return true
}

func (c *CPULoad) resample(now time.Duration) {
	if !c.pushSample() {
		c.sampleAt = now + ResampleInterval(c.usage)
		return
	}

	prev, cur, ok := c.samples.Pair()
	if !ok {
		c.sampleAt = now + ResampleInterval(c.usage)
		return
	}

	usage := CPUUsage(prev, cur, c.usage)
	delta := usage - c.usage
	c.fast = c.known && (delta >= cpuFastThreshold || delta <= -cpuFastThreshold)
	c.usage = usage
	c.known = true

	interval := ResampleInterval(usage)
	if c.fast {
		interval /= cpuFastDivisor
	}
	c.sampleAt = now + interval

	c.publish(events.CPULoadEvent{
		Slot:       c.slot,
		Output:     c.Output(),
		Usage:      usage,
		Fast:       c.fast,
		IntervalMs: interval.Milliseconds(),
		Timestamp:  timestamp(),
	})
}

// CPUUsage computes the busy percentage between two samples. When no time
// elapsed or a counter went backwards it returns held unchanged.
func CPUUsage(prev, cur status.CPUTimes, held int) int {
	if cur.Total <= prev.Total || cur.Idle < prev.Idle {
		return held
	}
	dTotal := cur.Total - prev.Total
	dIdle := cur.Idle - prev.Idle
	if dIdle >= dTotal {
		return 0
	}
	return clampPercent(int((dTotal - dIdle) * 100 / dTotal))
}

// ResampleInterval is the slow resample period for a load.
func ResampleInterval(usage int) time.Duration {
	return cpuResampleBase + time.Duration(100-clampPercent(usage))*cpuResampleStep
}

// OnTime is the lit phase length for a load.
func OnTime(usage int) time.Duration {
	return cpuPhaseBase - time.Duration(clampPercent(usage))*cpuOnStep
}

// OffTime is the dark phase length for a load.
func OffTime(usage int) time.Duration {
	return cpuPhaseBase - time.Duration(clampPercent(usage))*cpuOffStep
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
