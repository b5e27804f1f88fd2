//go:build !linux

package led

import (
	"errors"
	"fmt"
)

var errPortIOUnsupported = errors.New("port I/O is only supported on linux")

type portController struct{}

func newPortController(path string, _ map[string]portAddr) (*portController, error) {
	return nil, fmt.Errorf("open %s: %w", path, errPortIOUnsupported)
}

func (c *portController) Output(name string) (Output, error) {
	return nil, fmt.Errorf("%w %q: %w", ErrUnknownOutput, name, errPortIOUnsupported)
}

func (c *portController) Available() []string { return []string{} }

func (c *portController) Close() error { return nil }

func (c *portController) Switch() Switch { return nil }
