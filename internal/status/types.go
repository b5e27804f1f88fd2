// Package status samples the external health signals the indicators render:
// network interface state, cumulative CPU time and a disk activity counter.
//
// Every source is best-effort. A failed query returns an error and the caller
// treats it as "no data"; nothing in this package retries on its own.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned by sources that have nothing to report.
var ErrNoData = errors.New("no data")

// InterfaceStatus is a bitmask of the checks that currently hold for one
// network interface.
type InterfaceStatus uint8

// Interface status bits.
const (
	Present InterfaceStatus = 1 << iota
	AdminUp
	Link
)

// Has reports whether every bit in flags is set.
func (s InterfaceStatus) Has(flags InterfaceStatus) bool {
	return s&flags == flags
}

func (s InterfaceStatus) String() string {
	if s&Present == 0 {
		return "absent"
	}
	parts := []string{"present"}
	if s&AdminUp != 0 {
		parts = append(parts, "up")
	}
	if s&Link != 0 {
		parts = append(parts, "link")
	}
	return strings.Join(parts, ",")
}

// CheckMode selects which checks an interface must pass to count as up.
type CheckMode uint8

// Check modes.
const (
	CheckPresent CheckMode = iota
	CheckUp
	CheckLink
	CheckBoth
)

var checkNames = map[CheckMode]string{
	CheckPresent: "present",
	CheckUp:      "up",
	CheckLink:    "link",
	CheckBoth:    "both",
}

func (m CheckMode) String() string {
	if name, ok := checkNames[m]; ok {
		return name
	}
	return fmt.Sprintf("check(%d)", m)
}

// ParseCheckMode parses "present", "up", "link" or "both".
func ParseCheckMode(s string) (CheckMode, error) {
	for mode, name := range checkNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown interface check %q (want present, up, link or both)", s)
}

// Required returns the status bits the mode needs.
func (m CheckMode) Required() InterfaceStatus {
	switch m {
	case CheckUp:
		return Present | AdminUp
	case CheckLink:
		return Present | Link
	case CheckBoth:
		return Present | AdminUp | Link
	default:
		return Present
	}
}

// Satisfied reports whether s passes the check.
func (m CheckMode) Satisfied(s InterfaceStatus) bool {
	return s.Has(m.Required())
}

// CPUTimes is a cumulative CPU time sample in USER_HZ ticks since boot.
type CPUTimes struct {
	Total uint64
	Idle  uint64
}

// InterfaceSource reports the status of the named interfaces in one query.
// Names that do not exist map to a zero status.
type InterfaceSource interface {
	InterfaceStatus(names []string) (map[string]InterfaceStatus, error)
}

// CPUSource reports cumulative CPU time.
type CPUSource interface {
	CPUTimes() (CPUTimes, error)
}

// DiskSource reports a cumulative disk activity counter.
type DiskSource interface {
	DiskActivity() (uint64, error)
}
