package services

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"student-records/internal/store"
)

type HealthSample struct {
	Status            string    `json:"status"`
	Backend           string    `json:"backend"`
	Students          int       `json:"students"`
	CapturedAt        time.Time `json:"capturedAt"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	ProcessCpuLoad    float64   `json:"processCpuLoad"`
	SystemCpuLoad     float64   `json:"systemCpuLoad"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
}

// CaptureHealth samples the host and counts the records in the store.
// Host probes are best effort; only a store failure is returned.
func CaptureHealth(ctx context.Context, s store.Store, backend, diskPath string) (HealthSample, error) {
	students, err := s.List(ctx)
	if err != nil {
		return HealthSample{}, WrapError(err, "count students")
	}
	sample := HealthSample{
		Status:     "ok",
		Backend:    backend,
		Students:   len(students),
		CapturedAt: time.Now().UTC(),
	}
	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfoWithContext(ctx); err == nil && rss != nil {
			sample.ProcessRSSBytes = int64(rss.RSS)
		}
		if load, err := proc.CPUPercentWithContext(ctx); err == nil {
			sample.ProcessCpuLoad = load / 100.0
		}
	}
	if loads, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(loads) > 0 {
		sample.SystemCpuLoad = loads[0] / 100.0
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sample.SystemMemoryTotal = int64(vm.Total)
		sample.SystemMemoryUsed = int64(vm.Total - vm.Available)
	}
	usage, err := disk.UsageWithContext(ctx, diskPath)
	if err != nil {
		usage, err = disk.UsageWithContext(ctx, "/")
	}
	if err == nil {
		sample.DiskTotalBytes = int64(usage.Total)
		sample.DiskUsedBytes = int64(usage.Used)
	}
	return sample, nil
}
