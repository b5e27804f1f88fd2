package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/smazurov/statusled/internal/config"
	"github.com/smazurov/statusled/internal/exitcode"
	"github.com/smazurov/statusled/internal/indicator"
	"github.com/smazurov/statusled/internal/status"
	"github.com/spf13/cobra"
)

// ProbeSource is what the probe command reads.
type ProbeSource interface {
	status.InterfaceSource
	status.CPUSource
	status.DiskSource
}

// CreateProbeCmd creates the probe command, a one-shot dump of every status
// channel the indicators read.
func CreateProbeCmd() *cobra.Command {
	var procMount, sysMount, diskSource, indicators string
	var diskMatch []string

	cmd := &cobra.Command{
		Use:   "probe [interface...]",
		Short: "Print interface, CPU and disk status once",
		Long: `Reads the same status channels the indicators use and prints them. ` +
			`Without arguments the interfaces of the configured network indicators are shown.`,
		Run: func(cmd *cobra.Command, args []string) {
			mode, err := status.ParseDiskMode(diskSource)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				os.Exit(exitcode.Config)
			}
			src, err := status.NewProcSource(procMount, sysMount,
				status.WithDiskMode(mode),
				status.WithDiskMatch(diskMatch),
			)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				os.Exit(exitcode.StatusChannel)
			}

			names := args
			if len(names) == 0 {
				names, err = indicatorInterfaces(indicators)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					os.Exit(exitcode.Config)
				}
			}
			if err := Probe(cmd.OutOrStdout(), src, names); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				os.Exit(exitcode.StatusChannel)
			}
		},
	}

	cmd.Flags().StringVar(&procMount, "proc-mount", "/proc", "procfs mount point")
	cmd.Flags().StringVar(&sysMount, "sys-mount", "/sys", "sysfs mount point")
	cmd.Flags().StringVar(&diskSource, "disk-source", string(status.DiskInterrupts), "Disk counter: interrupts or diskstats")
	cmd.Flags().StringSliceVar(&diskMatch, "disk-match", nil, "Interrupt names counted as disk activity")
	cmd.Flags().StringVar(&indicators, "indicators", config.DefaultIndicators, "Indicator list whose interfaces are probed")
	return cmd
}

// indicatorInterfaces returns the interface names referenced by spec, in
// order of first appearance.
func indicatorInterfaces(spec string) ([]string, error) {
	configs, err := config.ParseIndicators(spec)
	if err != nil {
		return nil, err
	}
	slots, err := config.Resolve(configs)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, slot := range slots {
		for _, group := range [][]indicator.Member{slot.Network.Physical, slot.Network.Slave, slot.Network.Tunnel} {
			for _, m := range group {
				if !slices.Contains(names, m.Name) {
					names = append(names, m.Name)
				}
			}
		}
	}
	return names, nil
}

// Probe prints the status of names plus the CPU and disk counters. Interface
// failures abort; CPU and disk failures are printed inline.
func Probe(w io.Writer, src ProbeSource, names []string) error {
	if len(names) > 0 {
		statuses, err := src.InterfaceStatus(names)
		if err != nil {
			return fmt.Errorf("interface status: %w", err)
		}
		fmt.Fprintln(w, "Interfaces:")
		for _, name := range names {
			st := statuses[name]
			fmt.Fprintf(w, "  %-15s %-18s present=%t up=%t link=%t\n",
				name, st, st.Has(status.Present), st.Has(status.AdminUp), st.Has(status.Link))
		}
	}

	if cpu, err := src.CPUTimes(); err != nil {
		fmt.Fprintf(w, "CPU:  unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(w, "CPU:  total=%d idle=%d ticks\n", cpu.Total, cpu.Idle)
	}

	if disk, err := src.DiskActivity(); err != nil {
		fmt.Fprintf(w, "Disk: unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(w, "Disk: %d events\n", disk)
	}
	return nil
}
