//go:build unix

package control

import (
	"context"
	"os"
	"os/signal"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/smazurov/statusled/internal/indicator"
)

func TestRates_HandleSignal(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRates(indicator.NewRateSelector(indicator.RateSlow), pub)

	r.handleSignal(unix.SIGUSR2)
	if r.Current() != indicator.RateFast {
		t.Errorf("after SIGUSR2 rate = %v, want fast", r.Current())
	}
	r.handleSignal(unix.SIGHUP)
	if r.Current() != indicator.RateFast {
		t.Errorf("SIGHUP changed the rate to %v", r.Current())
	}
	r.handleSignal(unix.SIGUSR1)
	if r.Current() != indicator.RateSlow {
		t.Errorf("after SIGUSR1 rate = %v, want slow", r.Current())
	}

	got := pub.rates()
	if len(got) != 2 || got[0].Source != "signal" {
		t.Errorf("events = %+v", got)
	}
}

func TestRates_WatchSignals(t *testing.T) {
	// keep the default action (terminate) away while the watcher starts up
	guard := make(chan os.Signal, 8)
	signal.Notify(guard, unix.SIGUSR2)
	defer signal.Stop(guard)

	r := NewRates(indicator.NewRateSelector(indicator.RateSlow), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.WatchSignals(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for r.Current() != indicator.RateFast && time.Now().Before(deadline) {
		if err := unix.Kill(os.Getpid(), unix.SIGUSR2); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if r.Current() != indicator.RateFast {
		t.Fatal("SIGUSR2 did not switch to fast")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchSignals() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WatchSignals did not return after cancel")
	}
}
