package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/exitcode"
	"github.com/smazurov/statusled/internal/led"
	"github.com/smazurov/statusled/internal/status"
)

type probeFake struct {
	ifaceErr error
	cpuErr   error
}

func (p probeFake) InterfaceStatus(names []string) (map[string]status.InterfaceStatus, error) {
	if p.ifaceErr != nil {
		return nil, p.ifaceErr
	}
	return map[string]status.InterfaceStatus{
		"eth2": status.Present | status.AdminUp | status.Link,
		"ppp0": status.Present,
	}, nil
}

func (p probeFake) CPUTimes() (status.CPUTimes, error) {
	if p.cpuErr != nil {
		return status.CPUTimes{}, p.cpuErr
	}
	return status.CPUTimes{Total: 1000, Idle: 600}, nil
}

func (p probeFake) DiskActivity() (uint64, error) { return 42, nil }

func TestProbe(t *testing.T) {
	var buf bytes.Buffer
	if err := Probe(&buf, probeFake{}, []string{"eth2", "ppp0", "tun0"}); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"eth2", "present=true up=true link=true",
		"ppp0", "present=true up=false link=false",
		"tun0", "absent",
		"total=1000 idle=600",
		"Disk: 42 events",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProbeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Probe(&buf, probeFake{ifaceErr: errors.New("no net/dev")}, []string{"eth0"}); err == nil {
		t.Error("Probe() should fail when interfaces cannot be read")
	}

	buf.Reset()
	if err := Probe(&buf, probeFake{cpuErr: errors.New("no stat")}, nil); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !strings.Contains(buf.String(), "CPU:  unavailable (no stat)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestIndicatorInterfaces(t *testing.T) {
	names, err := indicatorInterfaces(config.DefaultIndicators)
	if err != nil {
		t.Fatalf("indicatorInterfaces() error = %v", err)
	}
	if want := []string{"eth2", "ppp0", "tun0"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	names, err = indicatorInterfaces("led1=heartbeat;led2=network:physical=eth0+eth1,slave=eth0")
	if err != nil {
		t.Fatalf("indicatorInterfaces() error = %v", err)
	}
	if want := []string{"eth0", "eth1"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	if _, err := indicatorInterfaces("led1=bogus"); err == nil {
		t.Error("indicatorInterfaces() should reject unknown kinds")
	}
}

func switchOptions(t *testing.T, value string) *SwitchOptions {
	t.Helper()
	ctrl, err := led.New(led.DriverNoop, nil)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "value")
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		t.Fatal(err)
	}
	return &SwitchOptions{
		GPIO:       path,
		ActiveLow:  true,
		Outputs:    []string{"led1", "led2", "led3"},
		controller: ctrl,
	}
}

func TestRunSwitch(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"pressed", "0\n", exitcode.OK},
		{"released", "1\n", exitcode.NotPressed},
		{"garbage", "x\n", exitcode.StatusChannel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunSwitch(context.Background(), switchOptions(t, tt.value)); got != tt.want {
				t.Errorf("RunSwitch() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunSwitchNoInput(t *testing.T) {
	opts := switchOptions(t, "0")
	opts.GPIO = ""
	if got := RunSwitch(context.Background(), opts); got != exitcode.StatusChannel {
		t.Errorf("RunSwitch() = %d, want %d", got, exitcode.StatusChannel)
	}
}

func TestRunSwitchBadBoard(t *testing.T) {
	if got := RunSwitch(context.Background(), &SwitchOptions{Board: "vax"}); got != exitcode.Config {
		t.Errorf("RunSwitch() = %d, want %d", got, exitcode.Config)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := CreateVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--verbose"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "platform:") {
		t.Errorf("output = %q", buf.String())
	}
}
