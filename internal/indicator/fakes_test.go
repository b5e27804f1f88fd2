package indicator

import (
	"errors"
	"slices"
	"time"

	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/status"
)

// recOutput records every level written.
type recOutput struct {
	name   string
	levels []bool
}

func (o *recOutput) Name() string { return o.name }

func (o *recOutput) Set(on bool) error {
	o.levels = append(o.levels, on)
	return nil
}

func (o *recOutput) last() bool {
	if len(o.levels) == 0 {
		return false
	}
	return o.levels[len(o.levels)-1]
}

type fakeIfaces struct {
	statuses map[string]status.InterfaceStatus
}

func (f *fakeIfaces) InterfaceStatus(names []string) (map[string]status.InterfaceStatus, error) {
	out := make(map[string]status.InterfaceStatus, len(names))
	for _, n := range names {
		out[n] = f.statuses[n]
	}
	return out, nil
}

var errNoSample = errors.New("no sample")

// seqCPU replays CPU samples; a zero sample in the sequence is an error.
type seqCPU struct {
	samples []status.CPUTimes
	errAt   []int
	calls   int
}

func (s *seqCPU) CPUTimes() (status.CPUTimes, error) {
	i := s.calls
	s.calls++
	if slices.Contains(s.errAt, i) {
		return status.CPUTimes{}, errNoSample
	}
	if i >= len(s.samples) {
		i = len(s.samples) - 1
	}
	return s.samples[i], nil
}

type seqDisk struct {
	counts []uint64
	errAt  []int
	calls  int
}

func (s *seqDisk) DiskActivity() (uint64, error) {
	i := s.calls
	s.calls++
	if slices.Contains(s.errAt, i) {
		return 0, errNoSample
	}
	if i >= len(s.counts) {
		i = len(s.counts) - 1
	}
	return s.counts[i], nil
}

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(ev events.Event) {
	p.events = append(p.events, ev)
}

// step is the output level after a step and the delay it requested.
type step struct {
	on bool
	d  time.Duration
}

func runSteps(ind Indicator, out *recOutput, start time.Duration, n int) ([]step, time.Duration) {
	now := start
	steps := make([]step, 0, n)
	for range n {
		d := ind.Step(now)
		steps = append(steps, step{on: out.last(), d: d})
		now += d
	}
	return steps, now
}

// runFor steps until the accumulated delay reaches span.
func runFor(ind Indicator, out *recOutput, start, span time.Duration) ([]step, time.Duration) {
	now := start
	var steps []step
	for now < start+span {
		d := ind.Step(now)
		steps = append(steps, step{on: out.last(), d: d})
		now += d
	}
	return steps, now
}
