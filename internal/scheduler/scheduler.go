// Package scheduler runs indicators cooperatively from a single goroutine.
//
// Each slot holds one indicator and the time remaining until its next step.
// A pass steps every due indicator in slot order, sleeps for the smallest
// remaining delay (capped by the maximum sleep), then charges the slept time
// to every slot. Remaining delays may go negative between passes, which the
// next pass treats as due. Slots are few, so a linear scan is used.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/logging"
)

// MaxSlots is the number of indicator slots.
const MaxSlots = 8

// DefaultMaxSleep caps a single sleep so status changes are noticed within a second.
const DefaultMaxSleep = time.Second

// Errors returned by Install.
var (
	ErrSlotRange = errors.New("slot out of range")
	ErrSlotInUse = errors.New("slot already in use")
)

type slot struct {
	ind       indicator.Indicator
	remaining time.Duration
}

// SlotInfo describes one slot for diagnostics.
type SlotInfo struct {
	Slot      int
	Kind      indicator.Kind
	Remaining time.Duration
}

// Scheduler owns a fixed array of indicator slots.
type Scheduler struct {
	slots    [MaxSlots]slot
	sleeper  Sleeper
	maxSleep time.Duration
	now      time.Duration
	passHook func(now time.Duration)
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxSleep overrides DefaultMaxSleep.
func WithMaxSleep(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.maxSleep = d
		}
	}
}

// WithPassHook registers fn to run after every pass.
func WithPassHook(fn func(now time.Duration)) Option {
	return func(s *Scheduler) {
		s.passHook = fn
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates an empty scheduler. A nil sleeper uses the wall clock.
func New(sleeper Sleeper, opts ...Option) *Scheduler {
	if sleeper == nil {
		sleeper = ClockSleeper{}
	}
	s := &Scheduler{
		sleeper:  sleeper,
		maxSleep: DefaultMaxSleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetLogger("scheduler")
	}
	return s
}

// Install places ind in slot n. New indicators are due immediately.
func (s *Scheduler) Install(n int, ind indicator.Indicator) error {
	if n < 0 || n >= MaxSlots {
		return fmt.Errorf("%w: %d (0..%d)", ErrSlotRange, n, MaxSlots-1)
	}
	if ind == nil || ind.Kind() == indicator.KindUnused {
		return fmt.Errorf("slot %d: no indicator", n)
	}
	if s.slots[n].ind != nil {
		return fmt.Errorf("%w: %d", ErrSlotInUse, n)
	}
	s.slots[n] = slot{ind: ind}
	return nil
}

// Active returns the number of occupied slots.
func (s *Scheduler) Active() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].ind != nil {
			n++
		}
	}
	return n
}

// Now returns the virtual clock: the sum of all completed sleeps.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Dispatch steps every due indicator and returns how long to sleep.
func (s *Scheduler) Dispatch() time.Duration {
	sleepFor := s.maxSleep
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.ind == nil {
			continue
		}
		if sl.remaining <= 0 {
			sl.remaining = max(sl.ind.Step(s.now), 0)
		}
		sleepFor = min(sleepFor, sl.remaining)
	}
	return sleepFor
}

// Advance charges d to the clock and to every active slot.
func (s *Scheduler) Advance(d time.Duration) {
	s.now += d
	for i := range s.slots {
		if s.slots[i].ind != nil {
			s.slots[i].remaining -= d
		}
	}
}

// Run loops until ctx is cancelled. It returns nil on cancellation and the
// sleeper's error otherwise.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Scheduler started", "indicators", s.Active(), "max_sleep", s.maxSleep)
	defer s.logger.Info("Scheduler stopped", "uptime", s.now)

	for {
		sleepFor := s.Dispatch()
		if sleepFor > 0 {
			if err := s.sleeper.Sleep(ctx, sleepFor); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("scheduler sleep: %w", err)
			}
		} else if ctx.Err() != nil {
			return nil
		}
		s.Advance(sleepFor)

		if s.passHook != nil {
			s.passHook(s.now)
		}
	}
}

// Snapshot reports the occupied slots in order.
func (s *Scheduler) Snapshot() []SlotInfo {
	var infos []SlotInfo
	for i := range s.slots {
		if s.slots[i].ind == nil {
			continue
		}
		infos = append(infos, SlotInfo{
			Slot:      i,
			Kind:      s.slots[i].ind.Kind(),
			Remaining: s.slots[i].remaining,
		})
	}
	return infos
}
