package monitoring

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemStatus struct {
	DatabaseStatus string  `json:"database_status"`
	ResponseTimeMS int64   `json:"response_time_ms"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	MemoryUsedMB   uint64  `json:"memory_used_mb"`
	MemoryTotalMB  uint64  `json:"memory_total_mb"`
	DiskPercent    float64 `json:"disk_percent"`
	CheckedAt      string  `json:"checked_at"`
}

// CollectStatus gathers host stats and a database round-trip time for the
// admin infrastructure view.
func CollectStatus(ctx context.Context, pool *pgxpool.Pool) *SystemStatus {
	status := &SystemStatus{
		DatabaseStatus: "down",
		CheckedAt:      time.Now().Format(time.RFC3339),
	}

	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err == nil {
		status.DatabaseStatus = "healthy"
		status.ResponseTimeMS = time.Since(start).Milliseconds()
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsedMB = vm.Used / 1024 / 1024
		status.MemoryTotalMB = vm.Total / 1024 / 1024
	}

	if du, err := disk.Usage("/"); err == nil {
		status.DiskPercent = du.UsedPercent
	}

	return status
}
