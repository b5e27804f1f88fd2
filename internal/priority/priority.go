// Package priority lowers the process scheduling priority so status blinking
// never competes with real work.
package priority

import (
	"fmt"
	"strings"
)

// Class is a coarse scheduling class.
type Class string

// Scheduling classes.
const (
	Idle   Class = "idle"   // SCHED_IDLE, falling back to the lowest nice level
	Low    Class = "low"    // nice 10
	Normal Class = "normal" // leave the scheduler alone
)

// Nice levels used by the classes.
const (
	idleNice = 19
	lowNice  = 10
)

// ParseClass parses a class name. The empty string means Idle.
func ParseClass(s string) (Class, error) {
	switch c := Class(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Idle, nil
	case Idle, Low, Normal:
		return c, nil
	default:
		return "", fmt.Errorf("unknown priority class %q (want idle, low or normal)", s)
	}
}

// Result reports what Apply actually did.
type Result struct {
	Class  Class
	Policy string // "idle", "other" or "" when untouched
	Nice   int
}

// Apply applies c to the calling process. Failures are returned but are
// never fatal to the caller.
func Apply(c Class) (Result, error) {
	return apply(c)
}
