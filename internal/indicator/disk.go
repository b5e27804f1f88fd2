package indicator

import (
	"time"

	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/status"
)

// Disk pulse timing.
const (
	DiskIdleTime  = 250 * time.Millisecond
	DiskPulseOn   = 100 * time.Millisecond
	DiskPulseOff  = 25 * time.Millisecond
	diskInitDelay = DiskIdleTime
)

type diskState uint8

const (
	diskInit diskState = iota
	diskIdle
	diskPulse
	diskGap
)

// DiskActivity pulses once whenever the activity counter increased during the
// last idle period.
type DiskActivity struct {
	common
	source  status.DiskSource
	samples RollingCounter[uint64]
	state   diskState
	pulses  uint64
}

// NewDiskActivity creates a disk activity indicator.
func NewDiskActivity(out led.Output, source status.DiskSource, opts ...Option) *DiskActivity {
	return &DiskActivity{
		common: newCommon(out, opts),
		source: source,
	}
}

// Kind implements Indicator.
func (d *DiskActivity) Kind() Kind { return KindDiskActivity }

// Pulses returns how many pulses have been rendered.
func (d *DiskActivity) Pulses() uint64 { return d.pulses }

// Step implements Indicator.
func (d *DiskActivity) Step(time.Duration) time.Duration {
	switch d.state {
	case diskInit:
		d.sample()
		d.set(false)
		d.state = diskIdle
		return diskInitDelay

	case diskIdle:
		delta := d.sample()
		if delta == 0 {
			d.set(false)
			return DiskIdleTime
		}
		d.set(true)
		d.state = diskPulse
		d.pulses++
		d.publish(events.DiskPulseEvent{
			Slot:      d.slot,
			Output:    d.Output(),
			Delta:     delta,
			Timestamp: timestamp(),
		})
		return DiskPulseOn

	case diskPulse:
		d.set(false)
		d.state = diskGap
		return DiskPulseOff

	case diskGap:
		d.state = diskIdle
		return DiskIdleTime
	}

	d.state = diskIdle
	return 0
}

// sample reads the counter and returns the increase since the last good
// sample. Errors and counter resets count as no activity.
func (d *DiskActivity) sample() uint64 {
	v, err := d.source.DiskActivity()
	if err != nil {
		d.logger.Debug("Disk counter unavailable", "error", err)
		return 0
	}
	d.samples.Push(v)
	prev, cur, ok := d.samples.Pair()
	if !ok || cur < prev {
		return 0
	}
	return cur - prev
}
