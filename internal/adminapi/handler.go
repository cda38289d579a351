// Package adminapi implements the read-only admin HTTP surface
// (SPEC_FULL.md §6): /healthz, /stats, /hosts, and a swagger-doc'd
// /swagger/*any UI. It only reads the relay.CorrelationTable's length
// (which briefly takes the table's mutex), the relay.Stats atomic
// counters, and the relay.LocalTable handed to it at startup.
//
// @title HydraRelay Admin API
// @version 1.0
// @description Read-only observability surface for the DNS relay.
//
// @license.name MIT
//
// @BasePath /
package adminapi

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jroosing/hydrarelay/internal/relay"
)

// Handler holds the dependencies the admin endpoints read.
type Handler struct {
	instanceID  string
	startTime   time.Time
	table       relay.LocalTable
	correlation *relay.CorrelationTable
	stats       *relay.Stats
}

// New builds a Handler. table/correlation/stats may be observed
// concurrently with the relay engines; none of them require any lock
// beyond what they already provide internally.
func New(instanceID string, table relay.LocalTable, correlation *relay.CorrelationTable, stats *relay.Stats) *Handler {
	return &Handler{
		instanceID:  instanceID,
		startTime:   time.Now(),
		table:       table,
		correlation: correlation,
		stats:       stats,
	}
}

// Healthz godoc
// @Summary Health check
// @Description Reports the instance id and uptime
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		InstanceID: h.instanceID,
		StartTime:  h.startTime,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Stats godoc
// @Summary Runtime statistics
// @Description Query counters, correlation-table occupancy, and system resource usage
// @Tags system
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	memStats := MemoryStats{}
	if vm, err := mem.VirtualMemory(); err == nil {
		memStats.TotalMB = float64(vm.Total) / 1024 / 1024
		memStats.UsedMB = float64(vm.Used) / 1024 / 1024
		memStats.UsedPercent = vm.UsedPercent
	}

	cpuStats := CPUStats{NumCPU: runtime.NumCPU()}
	if pcts, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pcts) > 0 {
		cpuStats.UsedPercent = pcts[0]
	}

	snap := h.stats.Snapshot()
	entries := 0
	if h.correlation != nil {
		entries = h.correlation.Len()
	}

	c.JSON(http.StatusOK, StatsResponse{
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		CPU:    cpuStats,
		Memory: memStats,
		Queries: QueryStats{
			QueriesUDP:     snap.QueriesUDP,
			QueriesTCP:     snap.QueriesTCP,
			LocalAnswered:  snap.LocalAnswered,
			Forwarded:      snap.Forwarded,
			RepliesDropped: snap.RepliesDropped,
		},
		CorrelationEntries: entries,
	})
}

// Hosts godoc
// @Summary Loaded local hosts table
// @Description Returns every domain the relay answers locally, with its A-record IPs
// @Tags system
// @Produce json
// @Success 200 {object} HostsResponse
// @Router /hosts [get]
func (h *Handler) Hosts(c *gin.Context) {
	entries := make(map[string][]string, len(h.table))
	for name, records := range h.table {
		ips := make([]string, 0, len(records))
		for _, rr := range records {
			if ip, ok := rr.IPv4(); ok {
				ips = append(ips, ip)
			}
		}
		entries[name] = ips
	}
	c.JSON(http.StatusOK, HostsResponse{Entries: entries})
}
