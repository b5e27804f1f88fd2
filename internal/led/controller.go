package led

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// ErrUnknownOutput is returned when a board has no output with the requested name.
var ErrUnknownOutput = errors.New("unknown LED output")

// Output is one binary indicator output. Set is synchronous and may be called
// repeatedly with the same level.
type Output interface {
	Name() string
	Set(on bool) error
}

// Controller abstracts LED hardware across boards. Implementations map
// board-specific output names (e.g. "led3", "user", "ACT") to hardware.
type Controller interface {
	// Output returns the named output. Access problems (permissions, missing
	// device) are reported here, once, rather than on every Set.
	Output(name string) (Output, error)

	// Available returns the output names this controller knows about.
	Available() []string

	// Close releases the underlying device.
	Close() error
}

// Switch is a momentary input such as a front-panel push button.
type Switch interface {
	Pressed() (bool, error)
}

// IsAccessDenied reports whether err is a permission problem that will not go
// away while the process runs.
func IsAccessDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES)
}
