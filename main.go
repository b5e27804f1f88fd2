package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/statusled/cmd"
	"github.com/smazurov/statusled/internal/app"
	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/exitcode"
	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/logging"
	"github.com/smazurov/statusled/internal/priority"
	"github.com/smazurov/statusled/internal/status"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"/etc/statusled.toml"`

	// Indicators
	Indicators string `help:"Indicator list, e.g. led3=network:physical=eth0,slave=ppp0;led1=heartbeat" short:"i" default:"" toml:"indicators.spec" env:"INDICATORS"`
	Board      string `help:"LED driver (auto, alix, sysfs, noop)" short:"b" default:"auto" toml:"board.driver" env:"BOARD_DRIVER"`

	// Timing
	HeartbeatRate string `help:"Initial heartbeat rate (slow, fast)" default:"slow" toml:"heartbeat.rate" env:"HEARTBEAT_RATE"`
	PollInterval  string `help:"Minimum time between interface status queries" default:"1s" toml:"network.poll_interval" env:"NETWORK_POLL_INTERVAL"`
	MaxSleep      string `help:"Longest single scheduler sleep" default:"1s" toml:"scheduler.max_sleep" env:"SCHEDULER_MAX_SLEEP"`

	// Status sources
	DiskSource string `help:"Disk activity counter (interrupts, diskstats)" default:"interrupts" toml:"disk.source" env:"DISK_SOURCE"`
	DiskMatch  string `help:"Comma-separated interrupt names counted as disk activity" default:"" toml:"disk.match" env:"DISK_MATCH"`
	ProcMount  string `help:"procfs mount point" default:"/proc" toml:"system.proc_mount" env:"SYSTEM_PROC_MOUNT"`
	SysMount   string `help:"sysfs mount point" default:"/sys" toml:"system.sys_mount" env:"SYSTEM_SYS_MOUNT"`

	// Process settings
	Priority string `help:"Scheduling class (idle, low, normal)" default:"idle" toml:"process.priority" env:"PROCESS_PRIORITY"`
	PIDFile  string `help:"Write the process id to this file" default:"" toml:"process.pid_file" env:"PROCESS_PID_FILE"`
	RateFile string `help:"Watch this file for a heartbeat rate (slow, fast)" default:"" toml:"heartbeat.rate_file" env:"HEARTBEAT_RATE_FILE"`

	// API settings
	Listen       string `help:"HTTP API listen address, empty disables the API" default:"" toml:"api.listen" env:"API_LISTEN"`
	Metrics      bool   `help:"Serve Prometheus metrics on /metrics" default:"false" toml:"metrics.enabled" env:"METRICS_ENABLED"`
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`
	CORSOrigin   string `help:"Allowed CORS origins, comma separated (* allows any)" default:"*" toml:"api.cors_origin" env:"API_CORS_ORIGIN"`

	// Logging settings
	LoggingLevel     string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat    string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingScheduler string `help:"Scheduler logging level" default:"info" toml:"logging.scheduler" env:"LOGGING_SCHEDULER"`
	LoggingIndicator string `help:"Indicator logging level" default:"info" toml:"logging.indicator" env:"LOGGING_INDICATOR"`
	LoggingStatus    string `help:"Status source logging level" default:"info" toml:"logging.status" env:"LOGGING_STATUS"`
	LoggingLED       string `help:"LED driver logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingControl   string `help:"Rate control logging level" default:"info" toml:"logging.control" env:"LOGGING_CONTROL"`
	LoggingAPI       string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

// appConfig turns the flat options into the daemon configuration. Every
// problem is reported, not just the first.
func appConfig(opts *Options) (app.Config, error) {
	verr := &config.ValidationError{}

	board, err := led.ParseDriver(opts.Board)
	verr.Add(err)
	rate, err := indicator.ParseRate(opts.HeartbeatRate)
	verr.Add(err)
	diskMode, err := status.ParseDiskMode(opts.DiskSource)
	verr.Add(err)
	class, err := priority.ParseClass(opts.Priority)
	verr.Add(err)
	poll := parseDuration(verr, "poll interval", opts.PollInterval)
	maxSleep := parseDuration(verr, "max sleep", opts.MaxSleep)

	fromFile, err := config.LoadIndicators(opts.Config)
	verr.Add(err)
	configs, err := config.SelectIndicators(opts.Indicators, fromFile)
	verr.Add(err)
	var slots []config.Slot
	if configs != nil {
		slots, err = config.Resolve(configs)
		verr.Add(err)
	}

	if err := verr.Err(); err != nil {
		return app.Config{}, exitcode.New(exitcode.Config, "configuration rejected", err)
	}

	var diskMatch []string
	for m := range strings.SplitSeq(opts.DiskMatch, ",") {
		if m = strings.TrimSpace(m); m != "" {
			diskMatch = append(diskMatch, m)
		}
	}

	return app.Config{
		Slots:         slots,
		Board:         board,
		HeartbeatRate: rate,
		PollInterval:  poll,
		MaxSleep:      maxSleep,
		DiskMode:      diskMode,
		DiskMatch:     diskMatch,
		ProcMount:     opts.ProcMount,
		SysMount:      opts.SysMount,
		Priority:      class,
		PIDFile:       opts.PIDFile,
		RateFile:      opts.RateFile,
		Listen:        opts.Listen,
		Metrics:       opts.Metrics,
		AuthUsername:  opts.AuthUsername,
		AuthPassword:  opts.AuthPassword,
		CORSOrigin:    opts.CORSOrigin,
	}, nil
}

func parseDuration(verr *config.ValidationError, name, value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		verr.Addf("invalid %s %q", name, value)
		return 0
	}
	return d
}

func main() {
	var cli humacli.CLI

	// Create Huma CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"scheduler": opts.LoggingScheduler,
				"indicator": opts.LoggingIndicator,
				"status":    opts.LoggingStatus,
				"led":       opts.LoggingLED,
				"control":   opts.LoggingControl,
				"systemd":   opts.LoggingControl,
				"api":       opts.LoggingAPI,
			},
		})

		logger := logging.GetLogger("main")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		hooks.OnStart(func() {
			defer close(done)

			cfg, err := appConfig(opts)
			if err != nil {
				fail(logger, err)
			}
			daemon, err := app.New(cfg)
			if err != nil {
				fail(logger, err)
			}
			if err := daemon.Run(ctx); err != nil {
				fail(logger, err)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				logger.Warn("Shutdown timed out")
			}
		})
	})

	cli.Root().Use = "statusled"
	cli.Root().Short = "Drive status LEDs from network, CPU and disk activity"

	cli.Root().AddCommand(cmd.CreateSwitchCmd())
	cli.Root().AddCommand(cmd.CreateProbeCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}

func fail(logger *slog.Logger, err error) {
	code := exitcode.From(err)
	logger.Error("statusled failed", "error", err, "exit_code", code)
	if code == exitcode.Config {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
