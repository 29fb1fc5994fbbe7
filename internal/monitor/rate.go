package monitor

import (
	"time"

	"github.com/rileyhilliard/ctop/internal/monitor/parsers"
)

// CPUUtilization returns busy/total over the delta between two CPU samples.
// A zero total delta returns previous unchanged. A counter that went
// backwards (reboot, wrap) yields 0.
func CPUUtilization(prev, cur parsers.CPUTicks, previous float64) float64 {
	if cpuReset(prev, cur) {
		return 0
	}

	busy := cur.Busy() - prev.Busy()
	total := busy + (cur.Idle - prev.Idle)
	if total == 0 {
		return previous
	}
	return float64(busy) / float64(total)
}

// Rate returns the per-second increase from prev to cur over elapsed.
// Non-positive elapsed time and decreasing counters both yield 0.
func Rate(prev, cur uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 || cur < prev {
		return 0
	}
	return float64(cur-prev) / elapsed.Seconds()
}

// MemoryFraction returns (total - free - buffers - cached) / total.
// An empty snapshot yields 0.
func MemoryFraction(m parsers.MemInfo) float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used()) / float64(m.Total)
}

// Derive computes the metrics for a new sample given the previous state.
// Callers pass a zero prevAt when there is no baseline; rates and CPU
// utilization are then 0.
func Derive(prev Counters, prevAt time.Time, prevDerived Derived, cur Counters, curAt time.Time) Derived {
	d := Derived{MemoryUsed: MemoryFraction(cur.Mem)}
	if prevAt.IsZero() {
		return d
	}

	elapsed := curAt.Sub(prevAt)
	d.CPUUtilization = CPUUtilization(prev.CPU, cur.CPU, prevDerived.CPUUtilization)
	d.RxRate = Rate(prev.Net.RxBytes, cur.Net.RxBytes, elapsed)
	d.TxRate = Rate(prev.Net.TxBytes, cur.Net.TxBytes, elapsed)
	return d
}

// counterReset reports whether any cumulative counter went backwards.
func counterReset(prev, cur Counters) bool {
	return cpuReset(prev.CPU, cur.CPU) ||
		cur.Net.RxBytes < prev.Net.RxBytes ||
		cur.Net.TxBytes < prev.Net.TxBytes
}

// cpuReset reports whether any CPU tick counter went backwards.
func cpuReset(prev, cur parsers.CPUTicks) bool {
	return cur.User < prev.User || cur.Nice < prev.Nice || cur.System < prev.System || cur.Idle < prev.Idle
}
