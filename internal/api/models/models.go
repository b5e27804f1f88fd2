// Package models holds the request and response bodies of the HTTP API.
package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"12345" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Indicator models
type NetworkState struct {
	Physical bool   `json:"physical" doc:"Physical role group is up"`
	Slave    bool   `json:"slave" doc:"Slave role group is up"`
	Tunnel   bool   `json:"tunnel" doc:"Tunnel role group is up"`
	Limit    int    `json:"limit" example:"2" doc:"Steps per cycle the output is lit"`
	Flash    string `json:"flash" example:"none" doc:"Flash modifier: none or double"`
	Edge     bool   `json:"edge" doc:"A role group changed in the last cycle"`
}

type IndicatorData struct {
	Slot       int           `json:"slot" example:"0" doc:"Scheduler slot"`
	Output     string        `json:"output" example:"led3" doc:"Output driven by the indicator"`
	Kind       string        `json:"kind" example:"network" doc:"Indicator kind: network, heartbeat, cpu or disk"`
	Network    *NetworkState `json:"network,omitempty" doc:"Last rendered network pattern"`
	CPUUsage   *int          `json:"cpu_usage,omitempty" example:"42" doc:"Last sampled CPU usage percent"`
	DiskPulses uint64        `json:"disk_pulses,omitempty" example:"17" doc:"Disk pulses rendered since start"`
	Failing    bool          `json:"failing" doc:"Writes to the output are failing"`
	Error      string        `json:"error,omitempty" doc:"Last output write error"`
	UpdatedAt  string        `json:"updated_at,omitempty" example:"2025-01-27T10:30:00Z" doc:"Time of the last observation"`
}

type IndicatorListData struct {
	Indicators []IndicatorData `json:"indicators" doc:"Configured indicators in slot order"`
	Count      int             `json:"count" example:"1" doc:"Number of indicators"`
}

type IndicatorListResponse struct {
	Body IndicatorListData
}

// Interface models
type InterfaceData struct {
	Name    string `json:"name" example:"eth0" doc:"Interface name"`
	Status  string `json:"status" example:"present,up,link" doc:"Status flags"`
	Present bool   `json:"present" doc:"Interface exists"`
	Up      bool   `json:"up" doc:"Administratively up"`
	Link    bool   `json:"link" doc:"Carrier detected"`
}

type InterfaceListData struct {
	Interfaces []InterfaceData `json:"interfaces" doc:"Interfaces referenced by network indicators, by name"`
	Count      int             `json:"count" example:"3" doc:"Number of interfaces"`
}

type InterfaceListResponse struct {
	Body InterfaceListData
}

// Heartbeat models
type HeartbeatRateData struct {
	Rate string `json:"rate" enum:"slow,fast" example:"fast" doc:"Heartbeat rate"`
}

type HeartbeatRateRequest struct {
	Body HeartbeatRateData
}

type HeartbeatRateResponse struct {
	Body HeartbeatRateData
}

// Output models
type OutputListData struct {
	Driver  string   `json:"driver" example:"alix" doc:"Active output driver"`
	Outputs []string `json:"outputs" doc:"Outputs the driver can address"`
}

type OutputListResponse struct {
	Body OutputListData
}
