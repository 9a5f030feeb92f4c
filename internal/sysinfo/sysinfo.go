// Package sysinfo samples host metrics for the dashboard side panel. It is
// independent of the simulated monitoring loop: these are real readings for
// the machine serving the demo.
package sysinfo

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const sampleInterval = 5 * time.Second

// Telemetry is one host metrics snapshot.
type Telemetry struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsed    uint64    `json:"memory_used"`
	MemoryTotal   uint64    `json:"memory_total"`
	UptimeSeconds uint64    `json:"uptime_seconds"`
	HealthPercent float64   `json:"health_percent"`
	SampledAt     time.Time `json:"sampled_at"`
}

// Sampler refreshes host metrics on a fixed interval.
type Sampler struct {
	mu     sync.RWMutex
	latest *Telemetry

	lastCPUTotal float64
	lastCPUIdle  float64

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSampler returns an idle sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Start launches the background sampling loop. Calling Start on a running
// sampler is a no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		ctx := context.Background()
		s.refresh(ctx)
		for {
			select {
			case <-ticker.C:
				s.refresh(ctx)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the sampling loop and waits for it to exit.
func (s *Sampler) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	s.wg.Wait()
}

// Snapshot returns a copy of the last sample, or nil before the first one.
func (s *Sampler) Snapshot() *Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil
	}
	copy := *s.latest
	return &copy
}

func (s *Sampler) refresh(ctx context.Context) {
	timesStats, err := cpu.TimesWithContext(ctx, false)
	if err != nil || len(timesStats) == 0 {
		return
	}
	total := cpuTotal(timesStats[0])
	idle := timesStats[0].Idle + timesStats[0].Iowait
	deltaTotal, deltaIdle, hasPrev := s.updateCPUSample(total, idle)

	var cpuPercent float64
	if hasPrev && deltaTotal > 0 {
		used := deltaTotal - deltaIdle
		if used < 0 {
			used = 0
		}
		cpuPercent = clampFloat((used/deltaTotal)*100, 0, 100)
	}

	memoryStats, _ := mem.VirtualMemoryWithContext(ctx)
	var memPercent float64
	var memUsed, memTotal uint64
	if memoryStats != nil {
		memPercent = clampFloat(memoryStats.UsedPercent, 0, 100)
		memUsed = memoryStats.Used
		memTotal = memoryStats.Total
	}

	hostInfo, _ := host.InfoWithContext(ctx)
	var uptimeSeconds uint64
	if hostInfo != nil {
		uptimeSeconds = hostInfo.Uptime
	}

	snapshot := &Telemetry{
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		MemoryUsed:    memUsed,
		MemoryTotal:   memTotal,
		UptimeSeconds: uptimeSeconds,
		HealthPercent: computeHealth(cpuPercent, memPercent),
		SampledAt:     time.Now(),
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()
}

func (s *Sampler) updateCPUSample(total, idle float64) (float64, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deltaTotal := total - s.lastCPUTotal
	deltaIdle := idle - s.lastCPUIdle
	hasPrev := s.lastCPUTotal > 0
	s.lastCPUTotal = total
	s.lastCPUIdle = idle
	return deltaTotal, deltaIdle, hasPrev
}

func cpuTotal(stat cpu.TimesStat) float64 {
	return stat.User + stat.System + stat.Nice + stat.Idle + stat.Iowait +
		stat.Irq + stat.Softirq + stat.Steal + stat.Guest + stat.GuestNice
}

func computeHealth(usages ...float64) float64 {
	maxUsage := 0.0
	for _, v := range usages {
		if v <= 0 {
			continue
		}
		if v > maxUsage {
			maxUsage = v
		}
	}
	if maxUsage == 0 {
		return 100
	}
	return clampFloat(100-maxUsage, 0, 100)
}

func clampFloat(val, min, max float64) float64 {
	if math.IsNaN(val) {
		return min
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
