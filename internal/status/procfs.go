package status

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/blockdevice"
	"github.com/prometheus/procfs/sysfs"
	"golang.org/x/sys/unix"
)

// userHZ is the tick rate procfs divides /proc/stat values by.
const userHZ = 100

// DiskMode selects where the disk activity counter comes from.
type DiskMode string

// Disk counter sources.
const (
	DiskInterrupts DiskMode = "interrupts" // /proc/interrupts rows of disk controllers
	DiskStats      DiskMode = "diskstats"  // completed I/Os from /proc/diskstats
)

// DefaultDiskMatch lists the interrupt device names treated as disk controllers.
var DefaultDiskMatch = []string{"ide", "ata", "ahci", "sata", "mmc", "nvme"}

// ParseDiskMode parses a disk counter source name.
func ParseDiskMode(s string) (DiskMode, error) {
	switch mode := DiskMode(strings.ToLower(s)); mode {
	case DiskInterrupts, DiskStats:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown disk source %q (want interrupts or diskstats)", s)
	}
}

// ProcSource implements every source on top of procfs and sysfs.
type ProcSource struct {
	proc      procfs.FS
	sys       sysfs.FS
	block     blockdevice.FS
	diskMode  DiskMode
	diskMatch []string
}

// ProcOption configures a ProcSource.
type ProcOption func(*ProcSource)

// WithDiskMode selects the disk counter source.
func WithDiskMode(mode DiskMode) ProcOption {
	return func(p *ProcSource) {
		p.diskMode = mode
	}
}

// WithDiskMatch sets the interrupt device substrings counted as disk activity.
func WithDiskMatch(match []string) ProcOption {
	return func(p *ProcSource) {
		if len(match) > 0 {
			p.diskMatch = match
		}
	}
}

// NewProcSource opens procfs and sysfs at the given mount points. An error
// here means the status channel itself is missing, not a transient failure.
func NewProcSource(procMount, sysMount string, opts ...ProcOption) (*ProcSource, error) {
	proc, err := procfs.NewFS(procMount)
	if err != nil {
		return nil, fmt.Errorf("open procfs at %s: %w", procMount, err)
	}
	sys, err := sysfs.NewFS(sysMount)
	if err != nil {
		return nil, fmt.Errorf("open sysfs at %s: %w", sysMount, err)
	}
	block, err := blockdevice.NewFS(procMount, sysMount)
	if err != nil {
		return nil, fmt.Errorf("open block device stats: %w", err)
	}

	p := &ProcSource{
		proc:      proc,
		sys:       sys,
		block:     block,
		diskMode:  DiskInterrupts,
		diskMatch: DefaultDiskMatch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CheckNetwork verifies that interface state can be read at all.
func (p *ProcSource) CheckNetwork() error {
	if _, err := p.proc.NetDev(); err != nil {
		return fmt.Errorf("read interface list: %w", err)
	}
	if _, err := p.sys.NetClassDevices(); err != nil {
		return fmt.Errorf("read interface classes: %w", err)
	}
	return nil
}

// InterfaceStatus implements InterfaceSource. Presence comes from
// /proc/net/dev, which does not trigger module autoloading the way an
// interface ioctl does; flags and carrier come from /sys/class/net.
func (p *ProcSource) InterfaceStatus(names []string) (map[string]InterfaceStatus, error) {
	netDev, err := p.proc.NetDev()
	if err != nil {
		return nil, fmt.Errorf("read net/dev: %w", err)
	}

	result := make(map[string]InterfaceStatus, len(names))
	for _, name := range names {
		if _, ok := netDev[name]; !ok {
			result[name] = 0
			continue
		}

		st := Present
		iface, ifaceErr := p.sys.NetClassByIface(name)
		if ifaceErr == nil {
			if iface.Flags != nil && *iface.Flags&unix.IFF_UP != 0 {
				st |= AdminUp
			}
			// carrier is unreadable while the interface is administratively down
			if iface.Carrier != nil && *iface.Carrier == 1 {
				st |= Link
			}
		}
		result[name] = st
	}
	return result, nil
}

// CPUTimes implements CPUSource. Idle includes iowait.
func (p *ProcSource) CPUTimes() (CPUTimes, error) {
	stat, err := p.proc.Stat()
	if err != nil {
		return CPUTimes{}, fmt.Errorf("read stat: %w", err)
	}

	c := stat.CPUTotal
	idle := c.Idle + c.Iowait
	total := c.User + c.Nice + c.System + idle + c.IRQ + c.SoftIRQ + c.Steal
	return CPUTimes{
		Total: ticks(total),
		Idle:  ticks(idle),
	}, nil
}

// DiskActivity implements DiskSource.
func (p *ProcSource) DiskActivity() (uint64, error) {
	if p.diskMode == DiskStats {
		return p.diskStatsCount()
	}
	return p.diskInterruptCount()
}

func (p *ProcSource) diskInterruptCount() (uint64, error) {
	self, err := p.proc.Self()
	if err != nil {
		return 0, fmt.Errorf("open self: %w", err)
	}
	interrupts, err := self.Interrupts()
	if err != nil {
		return 0, fmt.Errorf("read interrupts: %w", err)
	}

	var sum uint64
	matched := false
	for _, irq := range interrupts {
		if !matchesAny(irq.Devices, p.diskMatch) {
			continue
		}
		matched = true
		for _, v := range irq.Values {
			if n, parseErr := strconv.ParseUint(v, 10, 64); parseErr == nil {
				sum += n
			}
		}
	}
	if !matched {
		return 0, ErrNoData
	}
	return sum, nil
}

func (p *ProcSource) diskStatsCount() (uint64, error) {
	whole, err := p.block.SysBlockDevices()
	if err != nil {
		return 0, fmt.Errorf("list block devices: %w", err)
	}
	isWhole := make(map[string]bool, len(whole))
	for _, name := range whole {
		isWhole[name] = true
	}

	stats, err := p.block.ProcDiskstats()
	if err != nil {
		return 0, fmt.Errorf("read diskstats: %w", err)
	}

	var sum uint64
	for _, d := range stats {
		if !isWhole[d.DeviceName] || isVirtualDisk(d.DeviceName) {
			continue
		}
		sum += d.ReadIOs + d.WriteIOs
	}
	return sum, nil
}

func isVirtualDisk(name string) bool {
	for _, prefix := range []string{"loop", "ram", "zram"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func matchesAny(devices string, patterns []string) bool {
	devices = strings.ToLower(devices)
	for _, p := range patterns {
		if p != "" && strings.Contains(devices, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func ticks(seconds float64) uint64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return uint64(math.Round(seconds * userHZ))
}

// IsUnavailable reports whether err means the source has nothing to offer on
// this system, as opposed to a transient read failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNoData)
}

