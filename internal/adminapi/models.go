package adminapi

import "time"

// HealthResponse is the /healthz response body.
type HealthResponse struct {
	Status     string    `json:"status"`
	InstanceID string    `json:"instance_id"`
	StartTime  time.Time `json:"start_time"`
	Uptime     string    `json:"uptime"`
}

// CPUStats mirrors the system CPU usage gopsutil reports.
type CPUStats struct {
	NumCPU      int     `json:"num_cpu"`
	UsedPercent float64 `json:"used_percent"`
}

// MemoryStats mirrors the system memory usage gopsutil reports.
type MemoryStats struct {
	TotalMB     float64 `json:"total_mb"`
	UsedMB      float64 `json:"used_mb"`
	UsedPercent float64 `json:"used_percent"`
}

// QueryStats is the relay engines' query counters.
type QueryStats struct {
	QueriesUDP     uint64 `json:"queries_udp"`
	QueriesTCP     uint64 `json:"queries_tcp"`
	LocalAnswered  uint64 `json:"local_answered"`
	Forwarded      uint64 `json:"forwarded"`
	RepliesDropped uint64 `json:"replies_dropped"`
}

// StatsResponse is the /stats response body.
type StatsResponse struct {
	Uptime             string      `json:"uptime"`
	CPU                CPUStats    `json:"cpu"`
	Memory             MemoryStats `json:"memory"`
	Queries            QueryStats  `json:"queries"`
	CorrelationEntries int         `json:"correlation_entries"`
}

// HostsResponse is the /hosts response body: the loaded local-entry
// table, domain name to the dotted-IPv4 strings it answers with.
type HostsResponse struct {
	Entries map[string][]string `json:"entries"`
}
