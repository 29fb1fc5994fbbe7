package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/ctop/internal/monitor"
)

// NodeRecord is the machine-readable form of one node's sample.
type NodeRecord struct {
	ID             int        `json:"id"`
	Host           string     `json:"host"`
	State          string     `json:"state"`
	CPUUtilization float64    `json:"cpu_utilization"`
	MemoryUsed     float64    `json:"memory_used"`
	RxBytesPerSec  float64    `json:"rx_bytes_per_sec"`
	TxBytesPerSec  float64    `json:"tx_bytes_per_sec"`
	LastSample     *time.Time `json:"last_sample,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// Records converts samples for JSON output, preserving table order.
func Records(samples []monitor.NodeSample) []NodeRecord {
	out := make([]NodeRecord, len(samples))
	for i, s := range samples {
		r := NodeRecord{
			ID:             s.Node.ID,
			Host:           s.Node.Host,
			State:          s.Valid.String(),
			CPUUtilization: s.Derived.CPUUtilization,
			MemoryUsed:     s.Derived.MemoryUsed,
			RxBytesPerSec:  s.Derived.RxRate,
			TxBytesPerSec:  s.Derived.TxRate,
			LastError:      s.LastError,
		}
		if s.HasBaseline() {
			t := s.LastSampleTime
			r.LastSample = &t
		}
		out[i] = r
	}
	return out
}

// TickLine summarizes one tick on a single line for plain output:
//
//	2026-01-02 15:04:05 46/48 ok cpu 41.2% mem 63.0% took 1.204s
func TickLine(stats monitor.TickStats, samples []monitor.NodeSample) string {
	cpu, mem, _ := FleetAverages(samples)
	return fmt.Sprintf("%s %d/%d ok cpu %.1f%% mem %.1f%% took %s",
		stats.Started.Format(HeaderTimeLayout),
		stats.OK, stats.OK+stats.Failed,
		cpu*100, mem*100,
		stats.Duration.Round(time.Millisecond))
}
