package indicator

import (
	"slices"
	"sync"
	"testing"
	"time"
)

func TestHeartbeat_Slow(t *testing.T) {
	out := &recOutput{name: "led1"}
	h, err := NewHeartbeat(out, NewRateSelector(RateSlow), 0)
	if err != nil {
		t.Fatal(err)
	}

	steps, _ := runSteps(h, out, 0, 4)
	want := []step{
		{true, 200 * time.Millisecond},
		{false, 800 * time.Millisecond},
		{true, 200 * time.Millisecond},
		{false, 800 * time.Millisecond},
	}
	if !slices.Equal(steps, want) {
		t.Errorf("steps = %v, want %v", steps, want)
	}
}

func TestHeartbeat_RateChangeAtNextBoundary(t *testing.T) {
	out := &recOutput{name: "led1"}
	rate := NewRateSelector(RateSlow)
	h, err := NewHeartbeat(out, rate, 50)
	if err != nil {
		t.Fatal(err)
	}

	if d := h.Step(0); d != 500*time.Millisecond {
		t.Fatalf("slow on phase = %v", d)
	}

	// switched mid-phase: the running phase is untouched, the next one is fast
	if !rate.Store(RateFast) {
		t.Error("Store(fast) should report a change")
	}
	if d := h.Step(500 * time.Millisecond); d != 50*time.Millisecond {
		t.Errorf("off phase after switch = %v, want 50ms", d)
	}
	if d := h.Step(550 * time.Millisecond); d != 50*time.Millisecond {
		t.Errorf("on phase after switch = %v, want 50ms", d)
	}

	rate.Store(RateSlow)
	if d := h.Step(600 * time.Millisecond); d != 500*time.Millisecond {
		t.Errorf("off phase after switching back = %v, want 500ms", d)
	}
}

func TestHeartbeat_DutyValidation(t *testing.T) {
	for _, duty := range []int{-1, 100, 150} {
		if _, err := NewHeartbeat(&recOutput{}, nil, duty); err == nil {
			t.Errorf("NewHeartbeat(duty=%d) should fail", duty)
		}
	}
	for _, duty := range []int{1, 20, 99} {
		if _, err := NewHeartbeat(&recOutput{}, nil, duty); err != nil {
			t.Errorf("NewHeartbeat(duty=%d) error = %v", duty, err)
		}
	}
}

func TestRateSelector_Concurrent(t *testing.T) {
	rate := NewRateSelector(RateSlow)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 1000 {
				if (i+j)%2 == 0 {
					rate.Store(RateFast)
				} else {
					rate.Store(RateSlow)
				}
			}
		}()
	}
	for range 1000 {
		if r := rate.Load(); r != RateSlow && r != RateFast {
			t.Fatalf("Load() = %d, torn value", r)
		}
	}
	wg.Wait()
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    Rate
		wantErr bool
	}{
		{"slow", RateSlow, false},
		{"FAST", RateFast, false},
		{"", RateSlow, false},
		{"medium", RateSlow, true},
	}
	for _, tt := range tests {
		got, err := ParseRate(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRate(%q) = %v, %v", tt.in, got, err)
		}
	}
}
