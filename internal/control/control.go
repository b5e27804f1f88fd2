// Package control handles asynchronous heartbeat rate requests. Signals, a
// watched rate file and the HTTP API all end up in Rates.Set, which only
// touches the shared RateSelector, so none of them ever blocks the
// scheduler goroutine.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/logging"
)

// Source names what requested a rate change.
type Source string

// Rate change sources.
const (
	SourceConfig Source = "config"
	SourceSignal Source = "signal"
	SourceFile   Source = "file"
	SourceAPI    Source = "api"
)

// Rates owns the runtime-controllable heartbeat rate.
type Rates struct {
	sel    *indicator.RateSelector
	pub    indicator.Publisher
	logger *slog.Logger
}

// NewRates wraps sel. pub may be nil.
func NewRates(sel *indicator.RateSelector, pub indicator.Publisher) *Rates {
	return &Rates{
		sel:    sel,
		pub:    pub,
		logger: logging.GetLogger("control"),
	}
}

// Selector returns the selector handed to heartbeat indicators.
func (r *Rates) Selector() *indicator.RateSelector {
	return r.sel
}

// Current returns the active rate.
func (r *Rates) Current() indicator.Rate {
	return r.sel.Load()
}

// Set stores rate and reports whether it changed. Changes are logged and
// published; repeats are silent.
func (r *Rates) Set(rate indicator.Rate, source Source) bool {
	if !r.sel.Store(rate) {
		return false
	}
	r.logger.Info("Heartbeat rate changed", "rate", rate.String(), "source", string(source))
	if r.pub != nil {
		r.pub.Publish(events.HeartbeatRateEvent{
			Rate:      rate.String(),
			Source:    string(source),
			Timestamp: timestamp(),
		})
	}
	return true
}

// LoadRateFile reads a rate file. Surrounding whitespace is ignored.
func LoadRateFile(path string) (indicator.Rate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return indicator.RateSlow, err
	}
	word := strings.TrimSpace(string(data))
	if word == "" {
		return indicator.RateSlow, fmt.Errorf("rate file %s is empty", path)
	}
	return indicator.ParseRate(word)
}

// WatchFile applies the rate file's contents now and on every change until
// ctx is done.
func (r *Rates) WatchFile(ctx context.Context, path string) error {
	w := config.NewConfigWatcher(path, LoadRateFile, r.logger,
		config.WithInitialLoad[indicator.Rate](),
	)
	w.OnReload(func(rate indicator.Rate) {
		r.Set(rate, SourceFile)
	})
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watch rate file: %w", err)
	}
	<-ctx.Done()
	return w.Stop()
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
