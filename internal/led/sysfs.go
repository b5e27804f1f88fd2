package led

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs implements Controller using the Linux sysfs LED interface. Outputs are
// addressed either by a board alias ("user") or by the raw sysfs name.
type sysfs struct {
	root string
	leds map[string]string // alias -> sysfs name
}

func newSysfs(root string, leds map[string]string) *sysfs {
	if leds == nil {
		leds = map[string]string{}
	}
	return &sysfs{root: root, leds: leds}
}

// Output takes manual control of the LED by clearing its trigger.
func (s *sysfs) Output(name string) (Output, error) {
	sysfsName := name
	if alias, ok := s.leds[name]; ok {
		sysfsName = alias
	}

	ledPath := filepath.Join(s.root, sysfsName)
	if _, err := os.Stat(ledPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q: not found at %s", ErrUnknownOutput, name, ledPath)
		}
		return nil, fmt.Errorf("stat %s: %w", ledPath, err)
	}

	triggerPath := filepath.Join(ledPath, "trigger")
	if err := os.WriteFile(triggerPath, []byte("none"), 0o644); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to set LED trigger: %w", err)
	}

	out := &sysfsOutput{
		name:           name,
		brightnessPath: filepath.Join(ledPath, "brightness"),
		on:             readMaxBrightness(ledPath),
	}

	// fail now on permission problems instead of on the first blink
	f, err := os.OpenFile(out.brightnessPath, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", out.brightnessPath, err)
	}
	_ = f.Close()

	return out, nil
}

// Available lists board aliases followed by any LEDs the kernel exposes.
func (s *sysfs) Available() []string {
	seen := make(map[string]bool)
	types := make([]string, 0, len(s.leds))
	for ledType, sysfsName := range s.leds {
		types = append(types, ledType)
		seen[ledType] = true
		seen[sysfsName] = true
	}
	sort.Strings(types)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return types
	}
	var raw []string
	for _, e := range entries {
		if !seen[e.Name()] {
			raw = append(raw, e.Name())
		}
	}
	sort.Strings(raw)
	return append(types, raw...)
}

func (s *sysfs) Close() error { return nil }

type sysfsOutput struct {
	name           string
	brightnessPath string
	on             []byte
}

func (o *sysfsOutput) Name() string { return o.name }

func (o *sysfsOutput) Set(on bool) error {
	value := []byte("0")
	if on {
		value = o.on
	}
	if err := os.WriteFile(o.brightnessPath, value, 0o644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}

func readMaxBrightness(ledPath string) []byte {
	data, err := os.ReadFile(filepath.Join(ledPath, "max_brightness"))
	if err != nil {
		return []byte("1")
	}
	v := strings.TrimSpace(string(data))
	if v == "" || v == "0" {
		return []byte("1")
	}
	return []byte(v)
}
