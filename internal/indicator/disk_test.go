package indicator

import (
	"slices"
	"testing"

	"github.com/smazurov/statusled/internal/events"
)

func TestDiskActivity_PulseExactness(t *testing.T) {
	src := &seqDisk{counts: []uint64{10, 10, 15, 15, 400, 400}}
	out := &recOutput{name: "led1"}
	pub := &capturePublisher{}
	d := NewDiskActivity(out, src, WithPublisher(pub))

	steps, _ := runSteps(d, out, 0, 11)
	want := []step{
		{false, DiskIdleTime}, // init sample
		{false, DiskIdleTime}, // 10 -> 10
		{true, DiskPulseOn},   // 10 -> 15
		{false, DiskPulseOff},
		{false, DiskIdleTime}, // gap, no sample
		{false, DiskIdleTime}, // 15 -> 15
		{true, DiskPulseOn},   // 15 -> 400, still one pulse
		{false, DiskPulseOff},
		{false, DiskIdleTime},
		{false, DiskIdleTime}, // 400 -> 400
		{false, DiskIdleTime},
	}
	if !slices.Equal(steps, want) {
		t.Errorf("steps = %v\nwant    %v", steps, want)
	}

	if d.Pulses() != 2 {
		t.Errorf("Pulses() = %d, want 2", d.Pulses())
	}
	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}
	if ev := pub.events[1].(events.DiskPulseEvent); ev.Delta != 385 {
		t.Errorf("second pulse delta = %d, want 385", ev.Delta)
	}
	// one sample per idle period, none during pulse sub-states
	if src.calls != 7 {
		t.Errorf("sampled %d times, want 7", src.calls)
	}
}

func TestDiskActivity_NoWriteDuringGap(t *testing.T) {
	src := &seqDisk{counts: []uint64{1, 2}}
	out := &recOutput{name: "led1"}
	d := NewDiskActivity(out, src)

	runSteps(d, out, 0, 3) // init, pulse on, pulse off
	writes := len(out.levels)
	d.Step(0) // gap
	if len(out.levels) != writes {
		t.Error("gap state should not write the output")
	}
}

func TestDiskActivity_ErrorKeepsLastSample(t *testing.T) {
	src := &seqDisk{counts: []uint64{10, 0, 12}, errAt: []int{1}}
	out := &recOutput{name: "led1"}
	d := NewDiskActivity(out, src)

	steps, _ := runSteps(d, out, 0, 3)
	if steps[1].on {
		t.Error("source error should not pulse")
	}
	if !steps[2].on {
		t.Error("increase over the last good sample should pulse")
	}
}

func TestDiskActivity_CounterResetIsQuiet(t *testing.T) {
	src := &seqDisk{counts: []uint64{1000, 5}}
	out := &recOutput{name: "led1"}
	d := NewDiskActivity(out, src)

	steps, _ := runSteps(d, out, 0, 2)
	if steps[1].on {
		t.Error("counter reset should not pulse")
	}
}
