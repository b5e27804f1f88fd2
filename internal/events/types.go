package events

// Event type constants for kelindar/event.
const (
	TypeNetworkPattern uint32 = iota + 1
	TypeInterfaceChanged
	TypeCPULoad
	TypeDiskPulse
	TypeHeartbeatRate
	TypeOutputFault
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// NetworkPatternEvent is published when a network indicator changes the
// pattern it renders.
type NetworkPatternEvent struct {
	Slot      int    `json:"slot" example:"0" doc:"Scheduler slot"`
	Output    string `json:"output" example:"led3" doc:"Output driven by the indicator"`
	Physical  bool   `json:"physical" doc:"Physical role group is up"`
	Slave     bool   `json:"slave" doc:"Slave role group is up"`
	Tunnel    bool   `json:"tunnel" doc:"Tunnel role group is up"`
	Limit     int    `json:"limit" example:"2" doc:"Steps per cycle the output is lit"`
	Flash     string `json:"flash" example:"double" doc:"Flash modifier: none or double"`
	Edge      bool   `json:"edge" doc:"A role group changed since the last cycle"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for NetworkPatternEvent.
func (e NetworkPatternEvent) Type() uint32 { return TypeNetworkPattern }

// InterfaceChangedEvent is published when a tracked interface changes status.
type InterfaceChangedEvent struct {
	Interface string `json:"interface" example:"eth0" doc:"Interface name"`
	Previous  string `json:"previous" example:"present,up" doc:"Previous status"`
	Current   string `json:"current" example:"present,up,link" doc:"Current status"`
	Present   bool   `json:"present" doc:"Interface exists"`
	Up        bool   `json:"up" doc:"Administratively up"`
	Link      bool   `json:"link" doc:"Carrier detected"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for InterfaceChangedEvent.
func (e InterfaceChangedEvent) Type() uint32 { return TypeInterfaceChanged }

// CPULoadEvent is published on every successful CPU resample.
type CPULoadEvent struct {
	Slot       int    `json:"slot" example:"1" doc:"Scheduler slot"`
	Output     string `json:"output" example:"led2" doc:"Output driven by the indicator"`
	Usage      int    `json:"usage" example:"42" doc:"CPU usage percent"`
	Fast       bool   `json:"fast" doc:"Usage jumped by ten points or more"`
	IntervalMs int64  `json:"interval_ms" example:"685" doc:"Time until next resample"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CPULoadEvent.
func (e CPULoadEvent) Type() uint32 { return TypeCPULoad }

// DiskPulseEvent is published for every disk activity pulse.
type DiskPulseEvent struct {
	Slot      int    `json:"slot" example:"2" doc:"Scheduler slot"`
	Output    string `json:"output" example:"led1" doc:"Output driven by the indicator"`
	Delta     uint64 `json:"delta" example:"12" doc:"Counter increase since last sample"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DiskPulseEvent.
func (e DiskPulseEvent) Type() uint32 { return TypeDiskPulse }

// HeartbeatRateEvent is published when the heartbeat rate is changed.
type HeartbeatRateEvent struct {
	Rate      string `json:"rate" example:"fast" doc:"New rate: slow or fast"`
	Source    string `json:"source" example:"signal" doc:"What requested the change: signal, file, api"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for HeartbeatRateEvent.
func (e HeartbeatRateEvent) Type() uint32 { return TypeHeartbeatRate }

// OutputFaultEvent is published when an output starts failing or recovers.
type OutputFaultEvent struct {
	Output    string `json:"output" example:"led3" doc:"Output name"`
	Failing   bool   `json:"failing" doc:"Output writes are failing"`
	Error     string `json:"error,omitempty" example:"write port 0x6180: input/output error" doc:"Last write error"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for OutputFaultEvent.
func (e OutputFaultEvent) Type() uint32 { return TypeOutputFault }
