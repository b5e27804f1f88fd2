package cmd

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/exitcode"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/logging"
	"github.com/smazurov/statusled/internal/override"
	"github.com/spf13/cobra"
)

// SwitchOptions are the flags of the switch command.
type SwitchOptions struct {
	Blink      bool
	Board      string
	GPIO       string
	ActiveLow  bool
	Interval   time.Duration
	Outputs    []string
	ConfigPath string
	LogLevel   string
	controller led.Controller // tests
}

// CreateSwitchCmd creates the switch command. It exits 0 when the switch is
// pressed and 1 when it is not, so it can be used directly in shell tests.
func CreateSwitchCmd() *cobra.Command {
	opts := &SwitchOptions{}

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Check the front-panel switch",
		Long: `Exits 0 if the board switch is pressed, 1 otherwise. ` +
			`With -l every LED flashes until the switch is released; LED1 is left on and the others off.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logCfg := config.LoadLoggingConfig(opts.ConfigPath)
			if cmd.Flags().Changed("log-level") {
				logCfg.Level = opts.LogLevel
			}
			logging.Initialize(logCfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			code := RunSwitch(ctx, opts)
			stop()
			os.Exit(code)
		},
	}

	cmd.Flags().BoolVarP(&opts.Blink, "leds", "l", false, "Flash all LEDs until the switch is released")
	cmd.Flags().StringVar(&opts.Board, "board", "auto", "LED driver: auto, alix, sysfs or noop")
	cmd.Flags().StringVar(&opts.GPIO, "switch-gpio", "", "Read the switch from a sysfs GPIO value file")
	cmd.Flags().BoolVar(&opts.ActiveLow, "active-low", true, "GPIO switch reads 0 when pressed")
	cmd.Flags().DurationVar(&opts.Interval, "interval", override.DefaultInterval, "Flash half-period")
	cmd.Flags().StringSliceVar(&opts.Outputs, "outputs", nil, "Outputs to flash and restore, in order (default: every board output)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "/etc/statusled.toml", "Read [logging] settings from this file")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "warn", "Logging level, overrides the config file")
	return cmd
}

// RunSwitch performs the switch check and returns the process exit code.
func RunSwitch(ctx context.Context, opts *SwitchOptions) int {
	logger := logging.GetLogger("override")

	ctrl := opts.controller
	if ctrl == nil {
		driver, err := led.ParseDriver(opts.Board)
		if err != nil {
			logger.Error("Invalid board", "error", err)
			return exitcode.Config
		}
		ctrl, err = led.New(driver, logging.GetLogger("led"))
		if err != nil {
			logger.Error("Cannot open LED controller", "error", err)
			return exitcode.OutputAccess
		}
	}
	defer ctrl.Close()

	sw, err := led.NewSwitch(ctrl, opts.GPIO, opts.ActiveLow)
	if err != nil {
		logger.Error("No switch input", "error", err)
		return exitcode.StatusChannel
	}

	names := opts.Outputs
	if len(names) == 0 {
		names = ctrl.Available()
		slices.Sort(names)
	}
	outputs := make([]led.Output, 0, len(names))
	for _, name := range names {
		out, err := ctrl.Output(strings.TrimSpace(name))
		if err != nil {
			logger.Error("Cannot open output", "output", name, "error", err)
			if led.IsAccessDenied(err) {
				return exitcode.OutputAccess
			}
			return exitcode.Config
		}
		outputs = append(outputs, out)
	}

	pressed, err := override.Run(ctx, sw, outputs, override.Config{
		Blink:    opts.Blink,
		Interval: opts.Interval,
	})
	if err != nil {
		logger.Error("Switch check failed", "error", err)
		if !pressed {
			return exitcode.StatusChannel
		}
	}
	if !pressed {
		return exitcode.NotPressed
	}
	logger.Debug("Switch was pressed")
	return exitcode.OK
}
