package monitor

import (
	"time"

	"github.com/rileyhilliard/ctop/internal/monitor/parsers"
)

// Node is one monitored host. Its identity never changes while the engine runs.
type Node struct {
	ID   int
	Host string
}

// Validity is the freshness/health flag of a node's latest sample.
type Validity int

const (
	// NoData means the node has never been sampled successfully.
	NoData Validity = iota
	// OK means the last fetch and parse succeeded.
	OK
	// Error means the last fetch or parse failed; counters and derived
	// values still hold the last successful sample.
	Error
)

// String returns a human-readable validity label.
func (v Validity) String() string {
	switch v {
	case NoData:
		return "no_data"
	case OK:
		return "ok"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Counters is the raw state read from one snapshot. CPU and network values
// are cumulative; memory values are instantaneous.
type Counters struct {
	CPU parsers.CPUTicks
	Mem parsers.MemInfo
	Net parsers.NetCounters
}

// Derived holds the point-in-time metrics computed from two samples.
type Derived struct {
	CPUUtilization float64 // fraction in [0,1]
	MemoryUsed     float64 // fraction of MemTotal, from the latest snapshot
	RxRate         float64 // bytes/second
	TxRate         float64 // bytes/second
}

// NodeSample is the live state of one node. The engine mutates it in place;
// readers receive copies through Table.Snapshot.
type NodeSample struct {
	Node           Node
	Valid          Validity
	Cumulative     Counters
	Derived        Derived
	LastSampleTime time.Time
	LastError      string
	Schema         parsers.NetSchema
}

// HasBaseline reports whether a previous successful sample exists to diff against.
func (s *NodeSample) HasBaseline() bool {
	return !s.LastSampleTime.IsZero()
}

// MemoryFraction returns the used-memory fraction of the latest snapshot.
func (s NodeSample) MemoryFraction() float64 {
	return MemoryFraction(s.Cumulative.Mem)
}

// TickStats summarizes one pass over the fleet.
type TickStats struct {
	Started  time.Time
	Duration time.Duration
	OK       int
	Failed   int
}
