package led

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSwitch is returned when the board has no known switch input.
var ErrNoSwitch = errors.New("no switch input on this board")

// NewSwitch returns the switch input for a controller. A non-empty gpioPath
// selects a sysfs GPIO value file instead of the board's built-in switch.
func NewSwitch(ctrl Controller, gpioPath string, activeLow bool) (Switch, error) {
	if gpioPath != "" {
		if _, err := os.Stat(gpioPath); err != nil {
			return nil, fmt.Errorf("switch gpio: %w", err)
		}
		return &gpioSwitch{path: gpioPath, activeLow: activeLow}, nil
	}

	if pc, ok := ctrl.(*portController); ok && pc != nil {
		return pc.Switch(), nil
	}
	return nil, ErrNoSwitch
}

// gpioSwitch reads a sysfs GPIO "value" file.
type gpioSwitch struct {
	path      string
	activeLow bool
}

func (s *gpioSwitch) Pressed() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.path, err)
	}

	var high bool
	switch v := strings.TrimSpace(string(data)); v {
	case "1":
		high = true
	case "0":
		high = false
	default:
		return false, fmt.Errorf("unexpected gpio value %q in %s", v, s.path)
	}
	return high != s.activeLow, nil
}
