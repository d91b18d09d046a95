package monitoring

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats carries the host figures reported by the health endpoint.
type HostStats struct {
	CPUPercent      float64 `json:"cpuPercent"`
	MemUsedPercent  float64 `json:"memUsedPercent"`
	MemTotalBytes   uint64  `json:"memTotalBytes"`
	DiskUsedPercent float64 `json:"diskUsedPercent"`
}

// HostSnapshot gathers CPU, memory and disk usage. A failed probe leaves its
// fields zero; the health endpoint never fails because of a stats error.
func HostSnapshot() HostStats {
	var stats HostStats

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Debug().Err(err).Msg("CPU probe failed")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
		stats.MemTotalBytes = vm.Total
	} else {
		log.Debug().Err(err).Msg("Memory probe failed")
	}

	if du, err := disk.Usage("/"); err == nil {
		stats.DiskUsedPercent = du.UsedPercent
	} else {
		log.Debug().Err(err).Msg("Disk probe failed")
	}

	return stats
}
