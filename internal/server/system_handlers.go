package server

import (
	"context"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// systemStatusResponse reports host and dependency health for
// operational dashboards.
type systemStatusResponse struct {
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	DatabaseSizeKB   float64 `json:"database_size_kb"`
	DatabaseHealthy  bool    `json:"database_healthy"`
	AdvisorReachable bool    `json:"advisor_reachable"`
}

// handleSystemStatus reports CPU/memory usage, database health, and
// whether the advisory backend answers its health endpoint.
// GET /api/system/status
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := s.getSystemStats()

	resp := systemStatusResponse{
		CPUPercent:    cpuPct,
		MemoryPercent: memPct,
	}

	if stats, err := s.db.GetStats(); err == nil {
		resp.DatabaseSizeKB = float64(stats.SizeBytes+stats.WALSizeBytes) / 1024.0
	} else {
		s.log.Warn().Err(err).Msg("Failed to get database stats")
	}

	dbCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	resp.DatabaseHealthy = s.db.HealthCheck(dbCtx) == nil

	probeCtx, cancelProbe := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancelProbe()
	resp.AdvisorReachable = s.client.HealthCheck(probeCtx) == nil

	s.writeJSON(w, http.StatusOK, resp)
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a short sampling interval (100ms) so the status endpoint stays
// responsive.
func (s *Server) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}
