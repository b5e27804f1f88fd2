// Package app assembles the daemon: it opens the LED controller and the
// status sources, builds one indicator per configured slot and runs the
// scheduler next to the control and HTTP goroutines.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smazurov/statusled/internal/api"
	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/control"
	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/exitcode"
	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/logging"
	"github.com/smazurov/statusled/internal/metrics"
	"github.com/smazurov/statusled/internal/metrics/exporters"
	"github.com/smazurov/statusled/internal/pidfile"
	"github.com/smazurov/statusled/internal/priority"
	"github.com/smazurov/statusled/internal/scheduler"
	"github.com/smazurov/statusled/internal/status"
	"github.com/smazurov/statusled/internal/systemd"
)

// Config is the resolved daemon configuration.
type Config struct {
	Slots []config.Slot

	Board         led.Driver
	HeartbeatRate indicator.Rate
	PollInterval  time.Duration
	MaxSleep      time.Duration

	DiskMode  status.DiskMode
	DiskMatch []string
	ProcMount string
	SysMount  string

	Priority priority.Class // empty leaves the scheduler alone
	PIDFile  string
	RateFile string

	Listen       string // empty disables the HTTP API
	Metrics      bool
	AuthUsername string
	AuthPassword string
	CORSOrigin   string
}

// StatusSource is everything the indicators read from the system.
type StatusSource interface {
	status.InterfaceSource
	status.CPUSource
	status.DiskSource
}

// networkChecker is implemented by sources that can verify interface state
// is readable before the scheduler starts.
type networkChecker interface {
	CheckNetwork() error
}

// Option overrides a dependency, mostly for tests.
type Option func(*App)

// WithController uses ctrl instead of opening the configured board driver.
func WithController(ctrl led.Controller) Option {
	return func(a *App) { a.ctrl = ctrl }
}

// WithStatusSource uses src instead of procfs.
func WithStatusSource(src StatusSource) Option {
	return func(a *App) { a.source = src }
}

// WithSleeper replaces the wall-clock sleeper.
func WithSleeper(s scheduler.Sleeper) Option {
	return func(a *App) { a.sleeper = s }
}

// WithListener serves the API on ln instead of listening on Config.Listen.
func WithListener(ln net.Listener) Option {
	return func(a *App) { a.listener = ln }
}

// App is a fully wired daemon, ready to Run.
type App struct {
	cfg    Config
	logger *slog.Logger

	ctrl     led.Controller
	source   StatusSource
	sleeper  scheduler.Sleeper
	listener net.Listener

	bus      *events.Bus
	table    *status.Table
	rates    *control.Rates
	sched    *scheduler.Scheduler
	tracker  *api.StateTracker
	server   *api.Server
	notifier *systemd.Notifier
	outputs  []led.Output
}

// New builds every component. Errors carry an exitcode so main can map them
// to the documented exit status.
func New(cfg Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  logging.GetLogger("main"),
		sleeper: scheduler.ClockSleeper{},
		bus:     events.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(cfg.Slots) == 0 {
		return nil, exitcode.New(exitcode.Config, "no indicators configured", nil)
	}

	if a.ctrl == nil {
		ctrl, err := led.New(cfg.Board, logging.GetLogger("led"))
		if err != nil {
			return nil, exitcode.New(exitcode.OutputAccess, "open LED controller", err)
		}
		a.ctrl = ctrl
	}

	if err := a.build(); err != nil {
		a.ctrl.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	if err := a.openSource(); err != nil {
		return err
	}

	a.table = status.NewTable(a.source, a.cfg.PollInterval,
		status.WithChangeFunc(a.interfaceChanged),
		status.WithTableLogger(logging.GetLogger("status")),
	)
	a.rates = control.NewRates(indicator.NewRateSelector(a.cfg.HeartbeatRate), a.bus)
	a.notifier = systemd.NewNotifier()

	schedOpts := []scheduler.Option{
		scheduler.WithPassHook(a.pass),
		scheduler.WithLogger(logging.GetLogger("scheduler")),
	}
	if a.cfg.MaxSleep > 0 {
		schedOpts = append(schedOpts, scheduler.WithMaxSleep(a.cfg.MaxSleep))
	}
	a.sched = scheduler.New(a.sleeper, schedOpts...)

	infos := make([]api.IndicatorInfo, 0, len(a.cfg.Slots))
	for _, slot := range a.cfg.Slots {
		ind, err := a.buildIndicator(slot)
		if err != nil {
			return err
		}
		if err := a.sched.Install(slot.Index, ind); err != nil {
			return exitcode.New(exitcode.Config, fmt.Sprintf("indicator %d", slot.Index+1), err)
		}
		infos = append(infos, api.IndicatorInfo{
			Slot:   slot.Index,
			Output: slot.Output,
			Kind:   slot.Kind.String(),
		})
	}
	a.tracker = api.NewStateTracker(infos)

	if a.cfg.Listen != "" || a.listener != nil {
		apiOpts := &api.Options{
			AuthUsername: a.cfg.AuthUsername,
			AuthPassword: a.cfg.AuthPassword,
			CORSOrigin:   a.cfg.CORSOrigin,
			Bus:          a.bus,
			Tracker:      a.tracker,
			Rates:        a.rates,
			Driver:       string(a.cfg.Board),
			Outputs:      a.ctrl.Available(),
		}
		if a.cfg.Metrics {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}
		a.server = api.NewServer(apiOpts)
	}
	return nil
}

// openSource opens procfs only when some indicator reads from it.
func (a *App) openSource() error {
	var needSource, needNetwork bool
	for _, slot := range a.cfg.Slots {
		switch slot.Kind {
		case indicator.KindNetwork:
			needSource, needNetwork = true, true
		case indicator.KindCPULoad, indicator.KindDiskActivity:
			needSource = true
		}
	}

	if a.source == nil {
		if !needSource {
			a.source = unavailableSource{}
			return nil
		}
		var procOpts []status.ProcOption
		if a.cfg.DiskMode != "" {
			procOpts = append(procOpts, status.WithDiskMode(a.cfg.DiskMode))
		}
		procOpts = append(procOpts, status.WithDiskMatch(a.cfg.DiskMatch))
		src, err := status.NewProcSource(a.cfg.ProcMount, a.cfg.SysMount, procOpts...)
		if err != nil {
			return exitcode.New(exitcode.StatusChannel, "open status sources", err)
		}
		a.source = src
	}

	if checker, ok := a.source.(networkChecker); ok && needNetwork {
		if err := checker.CheckNetwork(); err != nil {
			return exitcode.New(exitcode.StatusChannel, "interface status unavailable", err)
		}
	}
	return nil
}

func (a *App) buildIndicator(slot config.Slot) (indicator.Indicator, error) {
	raw, err := a.ctrl.Output(slot.Output)
	if err != nil {
		code := exitcode.OutputAccess
		if errors.Is(err, led.ErrUnknownOutput) {
			code = exitcode.Config
		}
		return nil, exitcode.New(code, fmt.Sprintf("open output %s", slot.Output), err)
	}
	out := led.WithErrorLog(raw, logging.GetLogger("led"), a.outputFault)
	a.outputs = append(a.outputs, out)

	opts := []indicator.Option{
		indicator.WithSlot(slot.Index),
		indicator.WithPublisher(a.bus),
		indicator.WithLogger(logging.GetLogger("indicator")),
	}

	switch slot.Kind {
	case indicator.KindNetwork:
		return indicator.NewNetwork(out, a.table, slot.Network, opts...), nil
	case indicator.KindHeartbeat:
		sel := a.rates.Selector()
		if slot.RateSet {
			// pinned rates ignore signals, the rate file and the API
			sel = indicator.NewRateSelector(slot.Rate)
		}
		hb, err := indicator.NewHeartbeat(out, sel, slot.DutyPercent, opts...)
		if err != nil {
			return nil, exitcode.New(exitcode.Config, fmt.Sprintf("indicator %d", slot.Index+1), err)
		}
		return hb, nil
	case indicator.KindCPULoad:
		return indicator.NewCPULoad(out, a.source, opts...), nil
	case indicator.KindDiskActivity:
		return indicator.NewDiskActivity(out, a.source, opts...), nil
	default:
		return nil, exitcode.New(exitcode.Config, fmt.Sprintf("indicator %d: unsupported kind %s", slot.Index+1, slot.Kind), nil)
	}
}

func (a *App) interfaceChanged(name string, previous, current status.InterfaceStatus) {
	a.bus.Publish(events.InterfaceChangedEvent{
		Interface: name,
		Previous:  previous.String(),
		Current:   current.String(),
		Present:   current.Has(status.Present),
		Up:        current.Has(status.AdminUp),
		Link:      current.Has(status.Link),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (a *App) outputFault(output string, err error) {
	ev := events.OutputFaultEvent{
		Output:    output,
		Failing:   err != nil,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.bus.Publish(ev)
}

func (a *App) pass(now time.Duration) {
	a.notifier.Ping()
	if a.cfg.Metrics {
		metrics.ObservePass(now)
	}
}

// Rates exposes the runtime heartbeat rate.
func (a *App) Rates() *control.Rates {
	return a.rates
}

// Bus returns the event bus indicators publish to.
func (a *App) Bus() *events.Bus {
	return a.bus
}

// Snapshot reports the installed slots.
func (a *App) Snapshot() []scheduler.SlotInfo {
	return a.sched.Snapshot()
}

// Run drives everything until ctx is done or a component fails. The LED
// controller is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.ctrl.Close()

	if a.cfg.Priority != "" {
		res, err := priority.Apply(a.cfg.Priority)
		if err != nil {
			a.logger.Warn("Failed to lower scheduling priority", "class", a.cfg.Priority, "error", err)
		} else {
			a.logger.Debug("Scheduling priority applied", "class", res.Class, "policy", res.Policy, "nice", res.Nice)
		}
	}

	if a.cfg.PIDFile != "" {
		pf, err := pidfile.Write(a.cfg.PIDFile)
		if err != nil {
			return exitcode.New(exitcode.Runtime, "write pid file", err)
		}
		defer func() {
			if err := pf.Remove(); err != nil {
				a.logger.Warn("Failed to remove pid file", "path", pf.Path(), "error", err)
			}
		}()
	}

	defer a.tracker.Subscribe(a.bus)()
	if a.cfg.Metrics {
		collector := metrics.NewCollector(a.bus)
		defer collector.Stop()
		defer func() {
			for _, slot := range a.cfg.Slots {
				metrics.DeleteOutput(slot.Output)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.sched.Run(gctx)
	})
	g.Go(func() error {
		return a.rates.WatchSignals(gctx)
	})
	if a.cfg.RateFile != "" {
		g.Go(func() error {
			return a.rates.WatchFile(gctx, a.cfg.RateFile)
		})
	}
	if a.server != nil {
		g.Go(func() error {
			if a.listener != nil {
				return a.server.Serve(gctx, a.listener)
			}
			if err := a.server.ListenAndServe(gctx, a.cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("api server: %w", err)
			}
			return nil
		})
	}

	a.logger.Info("statusled running",
		"indicators", a.sched.Active(),
		"heartbeat_rate", a.rates.Current().String(),
		"listen", a.cfg.Listen,
	)
	a.notifier.Ready()
	a.notifier.Status(fmt.Sprintf("%d indicators", a.sched.Active()))

	err := g.Wait()
	a.notifier.Stopping()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// unavailableSource backs configurations that never read system status.
type unavailableSource struct{}

func (unavailableSource) InterfaceStatus([]string) (map[string]status.InterfaceStatus, error) {
	return nil, status.ErrNoData
}

func (unavailableSource) CPUTimes() (status.CPUTimes, error) {
	return status.CPUTimes{}, status.ErrNoData
}

func (unavailableSource) DiskActivity() (uint64, error) {
	return 0, status.ErrNoData
}
