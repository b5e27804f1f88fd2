package scheduler

import (
	"context"
	"time"
)

// Sleeper suspends the scheduler goroutine.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// ClockSleeper sleeps on the monotonic clock. An early wakeup re-enters the
// wait for the remainder, so the full duration always elapses.
type ClockSleeper struct{}

// Sleep implements Sleeper.
func (ClockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	deadline := time.Now().Add(d)
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		left := time.Until(deadline)
		if left <= 0 {
			return nil
		}
		timer.Reset(left)
	}
}
