// Package metrics provides Prometheus metrics for indicators, outputs and
// the scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statusled"

var (
	networkLimit = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "network",
		Name:      "pattern_limit",
		Help:      "Steps per cycle the network indicator keeps its output lit",
	}, []string{"output"})

	networkRoleUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "network",
		Name:      "role_up",
		Help:      "Whether a network role group is up (1) or down (0)",
	}, []string{"output", "role"})

	interfaceStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "interface",
		Name:      "status",
		Help:      "Interface status flags (present, up, link) as 0 or 1",
	}, []string{"interface", "flag"})

	cpuUsage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cpu",
		Name:      "usage_percent",
		Help:      "CPU usage last rendered by a CPU load indicator",
	}, []string{"output"})

	diskPulses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "disk",
		Name:      "pulses_total",
		Help:      "Disk activity pulses rendered",
	}, []string{"output"})

	heartbeatFast = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "heartbeat",
		Name:      "fast",
		Help:      "1 when the heartbeat runs at the fast rate",
	})

	heartbeatChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "heartbeat",
		Name:      "rate_changes_total",
		Help:      "Heartbeat rate changes by source",
	}, []string{"source"})

	outputFailing = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "failing",
		Help:      "1 while writes to the output fail",
	}, []string{"output"})

	outputFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "faults_total",
		Help:      "Transitions of an output into the failing state",
	}, []string{"output"})

	schedulerPasses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "passes_total",
		Help:      "Completed scheduler passes",
	})

	schedulerClock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "clock_seconds",
		Help:      "Scheduler virtual clock: the sum of all completed sleeps",
	})
)

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// SetNetworkPattern records the pattern rendered on output.
func SetNetworkPattern(output string, limit int, physical, slave, tunnel bool) {
	networkLimit.WithLabelValues(output).Set(float64(limit))
	networkRoleUp.WithLabelValues(output, "physical").Set(boolValue(physical))
	networkRoleUp.WithLabelValues(output, "slave").Set(boolValue(slave))
	networkRoleUp.WithLabelValues(output, "tunnel").Set(boolValue(tunnel))
}

// SetInterfaceStatus records one interface's flags.
func SetInterfaceStatus(name string, present, up, link bool) {
	interfaceStatus.WithLabelValues(name, "present").Set(boolValue(present))
	interfaceStatus.WithLabelValues(name, "up").Set(boolValue(up))
	interfaceStatus.WithLabelValues(name, "link").Set(boolValue(link))
}

// SetCPUUsage records the usage a CPU load indicator rendered.
func SetCPUUsage(output string, usage int) {
	cpuUsage.WithLabelValues(output).Set(float64(usage))
}

// IncDiskPulses counts one disk pulse.
func IncDiskPulses(output string) {
	diskPulses.WithLabelValues(output).Inc()
}

// SetHeartbeatRate records a rate change.
func SetHeartbeatRate(fast bool, source string) {
	heartbeatFast.Set(boolValue(fast))
	heartbeatChanges.WithLabelValues(source).Inc()
}

// SetOutputFailing records an output fault transition.
func SetOutputFailing(output string, failing bool) {
	outputFailing.WithLabelValues(output).Set(boolValue(failing))
	if failing {
		outputFaults.WithLabelValues(output).Inc()
	}
}

// ObservePass is a scheduler pass hook.
func ObservePass(now time.Duration) {
	schedulerPasses.Inc()
	schedulerClock.Set(now.Seconds())
}

// DeleteOutput removes every per-output series.
func DeleteOutput(output string) {
	networkLimit.DeleteLabelValues(output)
	for _, role := range []string{"physical", "slave", "tunnel"} {
		networkRoleUp.DeleteLabelValues(output, role)
	}
	cpuUsage.DeleteLabelValues(output)
	diskPulses.DeleteLabelValues(output)
	outputFailing.DeleteLabelValues(output)
	outputFaults.DeleteLabelValues(output)
}
