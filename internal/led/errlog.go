package led

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// FaultFunc observes output health transitions: err is non-nil when an output
// starts failing and nil when it recovers.
type FaultFunc func(output string, err error)

// loggedOutput reports write failures on the first failure and on recovery,
// not on every step.
type loggedOutput struct {
	Output
	logger  *slog.Logger
	onFault FaultFunc
	failing bool
	repeat  rate.Sometimes
}

// WithErrorLog wraps out so that write errors are logged once per outage.
// Set still returns every error to the caller.
func WithErrorLog(out Output, logger *slog.Logger, onFault FaultFunc) Output {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggedOutput{
		Output:  out,
		logger:  logger,
		onFault: onFault,
		repeat:  rate.Sometimes{Interval: time.Minute},
	}
}

func (o *loggedOutput) Set(on bool) error {
	err := o.Output.Set(on)
	switch {
	case err != nil && !o.failing:
		o.failing = true
		o.logger.Warn("LED write failed", "output", o.Name(), "error", err)
		if o.onFault != nil {
			o.onFault(o.Name(), err)
		}
	case err != nil:
		o.repeat.Do(func() {
			o.logger.Debug("LED write still failing", "output", o.Name(), "error", err)
		})
	case o.failing:
		o.failing = false
		o.logger.Info("LED write recovered", "output", o.Name())
		if o.onFault != nil {
			o.onFault(o.Name(), nil)
		}
	}
	return err
}
