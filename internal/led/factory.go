package led

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Driver selects the LED hardware backend.
type Driver string

// Supported drivers.
const (
	DriverAuto  Driver = "auto"
	DriverALIX  Driver = "alix"
	DriverSysfs Driver = "sysfs"
	DriverNoop  Driver = "noop"
)

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverAuto, DriverALIX, DriverSysfs, DriverNoop:
		return d, nil
	case "":
		return DriverAuto, nil
	default:
		return "", fmt.Errorf("unknown board driver %q (want auto, alix, sysfs or noop)", s)
	}
}

var (
	deviceTreeModelPath = "/proc/device-tree/model"
	dmiBoardPaths       = []string{
		"/sys/class/dmi/id/board_name",
		"/sys/class/dmi/id/product_name",
	}
)

// boardLEDs maps known SBC models to their sysfs LED aliases.
var boardLEDs = []struct {
	model string
	leds  map[string]string
}{
	{"NanoPC-T6", map[string]string{"user": "usr_led", "system": "sys_led"}},
	{"Orange Pi", map[string]string{"blue": "blue_led", "green": "green_led"}},
	{"Raspberry Pi", map[string]string{"act": "ACT", "pwr": "PWR"}},
}

// New creates a LED controller for the requested driver. DriverAuto detects
// the board and falls back to the sysfs LED class, then to a no-op controller.
func New(driver Driver, logger *slog.Logger) (Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch driver {
	case DriverALIX:
		return openALIX()
	case DriverSysfs:
		return newSysfs(sysfsLEDPath, boardAliases(detectBoard())), nil
	case DriverNoop:
		return newNoop(logger), nil
	case DriverAuto, "":
	default:
		return nil, fmt.Errorf("unknown board driver %q", driver)
	}

	boardModel := detectBoard()
	logger.Info("Detecting board for LED control", "board_model", boardModel)

	switch {
	case isALIX(boardModel):
		logger.Info("Detected ALIX, using /dev/port LED controller")
		return openALIX()

	case boardAliases(boardModel) != nil:
		logger.Info("Detected SBC, using sysfs LED controller", "board_model", boardModel)
		return newSysfs(sysfsLEDPath, boardAliases(boardModel)), nil

	case hasSysfsLEDs(sysfsLEDPath):
		logger.Info("Using generic sysfs LED controller")
		return newSysfs(sysfsLEDPath, nil), nil

	default:
		logger.Info("No LED support detected, using no-op controller", "board_model", boardModel)
		return newNoop(logger), nil
	}
}

func openALIX() (Controller, error) {
	pc, err := newPortController(devPortPath, alixOutputs)
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// detectBoard reads DMI data on x86 and the device tree model elsewhere.
func detectBoard() string {
	for _, path := range dmiBoardPaths {
		if data, err := os.ReadFile(path); err == nil {
			if model := strings.TrimSpace(string(data)); model != "" {
				return model
			}
		}
	}

	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	model := strings.TrimRight(string(data), "\x00")
	return model
}

func isALIX(model string) bool {
	return strings.Contains(strings.ToUpper(model), "ALIX")
}

func boardAliases(model string) map[string]string {
	for _, b := range boardLEDs {
		if strings.Contains(model, b.model) {
			return b.leds
		}
	}
	return nil
}

func hasSysfsLEDs(root string) bool {
	entries, err := os.ReadDir(root)
	return err == nil && len(entries) > 0
}
