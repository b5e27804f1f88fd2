package status

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const netDevFixture = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:  1664039   16180    0    0    0     0          0         0  1664039   16180    0    0    0     0       0          0
  eth0: 874354587 1036395    0    0    0     0          0         0 563352563  732147    0    0    0     0       0          0
  eth1:        0       0    0    0    0     0          0         0        0       0    0    0    0     0       0          0
  ppp0:   100000    1000    0    0    0     0          0         0   200000    1500    0    0    0     0       0          0
`

const statFixture = `cpu  301854 612 111922 8979004 3552 2 3944 0 0 0
cpu0 44490 19 21045 1087069 220 1 3410 0 0 0
intr 8885917 17 0 0 0 0 0 0 0 1 79281 0 0 0 0 0 0 0 231237 0 0 0 0 250586 103 0 0 0 0 0 0
ctxt 38014093
btime 1418183276
processes 26442
procs_running 2
procs_blocked 1
softirq 5057579 250191 1481983 1647 211099 186066 0 1783454 622196 12499 508444
`

const interruptsFixture = `           CPU0       CPU1
  0:         31          0   IO-APIC   2-edge      timer
 14:        120         30   IO-APIC  14-edge      ata_piix
 18:       1000       2000   IO-APIC  18-fasteoi   ahci[0000:00:1f.2]
 24:          5          5   PCI-MSI 512000-edge   eth0
NMI:          0          0   Non-maskable interrupts
`

const diskstatsFixture = `   8       0 sda 100 0 800 10 50 0 400 20 0 30 30 0 0 0 0
   8       1 sda1 90 0 700 9 40 0 300 10 0 20 20 0 0 0 0
   7       0 loop0 500 0 4000 1 0 0 0 0 0 1 1 0 0 0 0
 179       0 mmcblk0 20 0 160 2 5 0 40 3 0 5 5 0 0 0 0
`

type fixture struct {
	proc string
	sys  string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		proc: filepath.Join(root, "proc"),
		sys:  filepath.Join(root, "sys"),
	}

	writeFile(t, filepath.Join(f.proc, "net", "dev"), netDevFixture)
	writeFile(t, filepath.Join(f.proc, "stat"), statFixture)
	writeFile(t, filepath.Join(f.proc, "diskstats"), diskstatsFixture)
	writeFile(t, filepath.Join(f.proc, "interrupts"), interruptsFixture)
	writeFile(t, filepath.Join(f.proc, "4242", "interrupts"), interruptsFixture)
	if err := os.Symlink("4242", filepath.Join(f.proc, "self")); err != nil {
		t.Fatal(err)
	}

	// eth0: up with carrier, eth1: up without carrier, ppp0: admin down
	writeFile(t, filepath.Join(f.sys, "class", "net", "eth0", "flags"), "0x1003\n")
	writeFile(t, filepath.Join(f.sys, "class", "net", "eth0", "carrier"), "1\n")
	writeFile(t, filepath.Join(f.sys, "class", "net", "eth1", "flags"), "0x1003\n")
	writeFile(t, filepath.Join(f.sys, "class", "net", "eth1", "carrier"), "0\n")
	writeFile(t, filepath.Join(f.sys, "class", "net", "ppp0", "flags"), "0x1090\n")

	for _, dev := range []string{"sda", "loop0", "mmcblk0"} {
		if err := os.MkdirAll(filepath.Join(f.sys, "block", dev), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func newTestSource(t *testing.T, opts ...ProcOption) *ProcSource {
	t.Helper()
	f := newFixture(t)
	src, err := NewProcSource(f.proc, f.sys, opts...)
	if err != nil {
		t.Fatalf("NewProcSource() error = %v", err)
	}
	return src
}

func TestNewProcSource_MissingMount(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewProcSource(filepath.Join(dir, "nope"), dir); err == nil {
		t.Error("NewProcSource() with missing proc mount should fail")
	}
}

func TestProcSource_InterfaceStatus(t *testing.T) {
	src := newTestSource(t)

	got, err := src.InterfaceStatus([]string{"eth0", "eth1", "ppp0", "tun0"})
	if err != nil {
		t.Fatalf("InterfaceStatus() error = %v", err)
	}

	want := map[string]InterfaceStatus{
		"eth0": Present | AdminUp | Link,
		"eth1": Present | AdminUp,
		"ppp0": Present,
		"tun0": 0,
	}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
	}
}

func TestProcSource_CheckNetwork(t *testing.T) {
	if err := newTestSource(t).CheckNetwork(); err != nil {
		t.Errorf("CheckNetwork() error = %v", err)
	}
}

func TestProcSource_CPUTimes(t *testing.T) {
	src := newTestSource(t)

	got, err := src.CPUTimes()
	if err != nil {
		t.Fatalf("CPUTimes() error = %v", err)
	}

	// user+nice+system+idle+iowait+irq+softirq+steal from the cpu line
	wantTotal := uint64(301854 + 612 + 111922 + 8979004 + 3552 + 2 + 3944 + 0)
	wantIdle := uint64(8979004 + 3552)
	if got.Total != wantTotal {
		t.Errorf("Total = %d, want %d", got.Total, wantTotal)
	}
	if got.Idle != wantIdle {
		t.Errorf("Idle = %d, want %d", got.Idle, wantIdle)
	}
}

func TestProcSource_DiskInterrupts(t *testing.T) {
	src := newTestSource(t)

	got, err := src.DiskActivity()
	if err != nil {
		t.Fatalf("DiskActivity() error = %v", err)
	}
	// ata_piix (120+30) + ahci (1000+2000)
	if got != 3150 {
		t.Errorf("DiskActivity() = %d, want 3150", got)
	}
}

func TestProcSource_DiskInterruptsNoMatch(t *testing.T) {
	src := newTestSource(t, WithDiskMatch([]string{"scsi_xyz"}))

	_, err := src.DiskActivity()
	if !errors.Is(err, ErrNoData) || !IsUnavailable(err) {
		t.Errorf("DiskActivity() error = %v, want ErrNoData", err)
	}
}

func TestProcSource_DiskStats(t *testing.T) {
	src := newTestSource(t, WithDiskMode(DiskStats))

	got, err := src.DiskActivity()
	if err != nil {
		t.Fatalf("DiskActivity() error = %v", err)
	}
	// sda (100+50) + mmcblk0 (20+5); partitions and loop devices are skipped
	if got != 175 {
		t.Errorf("DiskActivity() = %d, want 175", got)
	}
}

func TestParseDiskMode(t *testing.T) {
	if m, err := ParseDiskMode("DiskStats"); err != nil || m != DiskStats {
		t.Errorf("ParseDiskMode(DiskStats) = %v, %v", m, err)
	}
	if _, err := ParseDiskMode("smart"); err == nil {
		t.Error("ParseDiskMode(smart) should fail")
	}
}
