// Package systemd reports service state to systemd through sd_notify:
// readiness, shutdown and watchdog keep-alives. Outside a systemd unit
// every call is a no-op.
package systemd

import (
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/time/rate"

	"github.com/smazurov/statusled/internal/logging"
)

// sdNotify is replaced in tests.
var sdNotify = daemon.SdNotify

// watchdogEnabled is replaced in tests.
var watchdogEnabled = daemon.SdWatchdogEnabled

// Notifier sends sd_notify messages.
type Notifier struct {
	watchdog time.Duration
	pings    *rate.Sometimes
	logger   *slog.Logger
}

// NewNotifier reads WATCHDOG_USEC. Keep-alives are sent at half the
// configured watchdog interval.
func NewNotifier() *Notifier {
	n := &Notifier{logger: logging.GetLogger("systemd")}

	interval, err := watchdogEnabled(false)
	if err != nil {
		n.logger.Warn("Invalid watchdog configuration, watchdog disabled", "error", err)
	} else if interval > 0 {
		n.watchdog = interval
		n.pings = &rate.Sometimes{Interval: interval / 2}
		n.logger.Info("Watchdog enabled", "interval", interval)
	}
	return n
}

// Watchdog returns the watchdog interval, zero when disabled.
func (n *Notifier) Watchdog() time.Duration {
	return n.watchdog
}

// Ready reports that startup finished.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping reports that shutdown began.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl.
func (n *Notifier) Status(status string) {
	n.send("STATUS=" + status)
}

// Ping sends a watchdog keep-alive, at most once per half interval of wall
// time. It is cheap enough to call from the scheduler pass hook.
func (n *Notifier) Ping() {
	if n.pings == nil {
		return
	}
	n.pings.Do(func() {
		n.send(daemon.SdNotifyWatchdog)
	})
}

func (n *Notifier) send(state string) {
	sent, err := sdNotify(false, state)
	switch {
	case err != nil:
		n.logger.Debug("sd_notify failed", "state", state, "error", err)
	case sent:
		n.logger.Debug("sd_notify sent", "state", state)
	}
}
