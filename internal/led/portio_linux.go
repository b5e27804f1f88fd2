//go:build linux

package led

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sys/unix"
)

// portController drives GPIO-attached LEDs through /dev/port, the way the
// PC Engines ALIX boards wire them to the CS5536 GPIO block. Every output is
// an opaque (port, mask) pair; writing mask&levelOn lights it.
type portController struct {
	mu      sync.Mutex
	file    *os.File
	outputs map[string]portAddr
}

func newPortController(path string, outputs map[string]portAddr) (*portController, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &portController{
		file:    f,
		outputs: outputs,
	}, nil
}

func (c *portController) Output(name string) (Output, error) {
	addr, ok := c.outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q on this board", ErrUnknownOutput, name)
	}
	return &portOutput{name: name, addr: addr, ctrl: c}, nil
}

func (c *portController) Available() []string {
	names := make([]string, 0, len(c.outputs))
	for name := range c.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *portController) Close() error {
	return c.file.Close()
}

// Switch returns the front-panel switch input.
func (c *portController) Switch() Switch {
	return &portSwitch{ctrl: c, addr: alixSwitch}
}

func (c *portController) outl(port int64, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := unix.Pwrite(int(c.file.Fd()), buf[:], port); err != nil {
		return fmt.Errorf("write port %#x: %w", port, err)
	}
	return nil
}

func (c *portController) inl(port int64) (uint32, error) {
	var buf [4]byte

	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := unix.Pread(int(c.file.Fd()), buf[:], port)
	if err != nil {
		return 0, fmt.Errorf("read port %#x: %w", port, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("read port %#x: short read (%d bytes)", port, n)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

type portOutput struct {
	name string
	addr portAddr
	ctrl *portController
}

func (o *portOutput) Name() string { return o.name }

func (o *portOutput) Set(on bool) error {
	level := levelOn
	if !on {
		level = ^levelOn
	}
	return o.ctrl.outl(o.addr.port, o.addr.mask&level)
}

// portSwitch is active low: the button pulls the input bit to zero.
type portSwitch struct {
	ctrl *portController
	addr portAddr
}

func (s *portSwitch) Pressed() (bool, error) {
	v, err := s.ctrl.inl(s.addr.port)
	if err != nil {
		return false, err
	}
	return v&s.addr.mask == 0, nil
}
