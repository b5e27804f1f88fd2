//go:build unix

package control

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/smazurov/statusled/internal/indicator"
)

// rateSignals maps SIGUSR1 to slow and SIGUSR2 to fast.
var rateSignals = map[os.Signal]indicator.Rate{
	unix.SIGUSR1: indicator.RateSlow,
	unix.SIGUSR2: indicator.RateFast,
}

// WatchSignals applies rate signals until ctx is done.
func (r *Rates) WatchSignals(ctx context.Context) error {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, unix.SIGUSR1, unix.SIGUSR2)
	defer signal.Stop(ch)

	r.logger.Debug("Listening for rate signals", "slow", "SIGUSR1", "fast", "SIGUSR2")
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-ch:
			r.handleSignal(sig)
		}
	}
}

func (r *Rates) handleSignal(sig os.Signal) {
	rate, ok := rateSignals[sig]
	if !ok {
		return
	}
	r.Set(rate, SourceSignal)
}
