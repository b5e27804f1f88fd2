// Package override implements the front-panel switch check: report whether
// the switch is held and optionally flash every output until it is released.
package override

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/logging"
)

// DefaultInterval is the flash half-period while the switch is held.
const DefaultInterval = 150 * time.Millisecond

// Config controls the override run.
type Config struct {
	// Blink flashes all outputs in unison while the switch is held.
	Blink bool
	// Interval is the time each level is held. Zero means DefaultInterval.
	Interval time.Duration
	// Restore is the level each output is left at, by position. Missing
	// entries default to on for the first output and off for the rest.
	Restore []bool
}

func (c Config) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return c.Interval
}

func (c Config) restoreLevel(i int) bool {
	if i < len(c.Restore) {
		return c.Restore[i]
	}
	return i == 0
}

// Run samples the switch. It returns false straight away when the switch is
// not pressed. Otherwise it flashes (if configured) until release or ctx is
// done, restores the outputs and returns true.
func Run(ctx context.Context, sw led.Switch, outputs []led.Output, cfg Config) (bool, error) {
	logger := logging.GetLogger("override")

	pressed, err := sw.Pressed()
	if err != nil {
		return false, fmt.Errorf("read switch: %w", err)
	}
	if !pressed {
		return false, nil
	}
	logger.Debug("Switch pressed", "blink", cfg.Blink, "outputs", len(outputs))

	var errs []error
	if cfg.Blink {
		errs = append(errs, flash(ctx, sw, outputs, cfg.interval()))
	}

	for i, out := range outputs {
		if err := out.Set(cfg.restoreLevel(i)); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", out.Name(), err))
		}
	}
	return true, errors.Join(errs...)
}

func flash(ctx context.Context, sw led.Switch, outputs []led.Output, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	on := true
	for {
		pressed, err := sw.Pressed()
		if err != nil {
			return fmt.Errorf("read switch: %w", err)
		}
		if !pressed {
			return nil
		}

		for _, out := range outputs {
			if err := out.Set(on); err != nil {
				return fmt.Errorf("set %s: %w", out.Name(), err)
			}
		}
		on = !on

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
