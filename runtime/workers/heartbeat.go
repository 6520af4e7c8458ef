package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"dm-relay/contract"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs process health (CPU, RSS, goroutines)
// together with the number of online sessions.
type HeartbeatWorker struct {
	log            *slog.Logger
	registry       contract.IRegistry
	metricInterval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, registry contract.IRegistry,
	metricInterval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, registry: registry, metricInterval: metricInterval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting relay heartbeat worker")
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("heartbeat",
				"online_sessions", len(w.registry.Snapshot()),
				"cpu_percent", cpu,
				"rss_bytes", rss,
				"goroutines", runtime.NumGoroutine(),
			)
		}
	}
}

// getSelfStats retrieves memory and CPU usage for the given process.
func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
