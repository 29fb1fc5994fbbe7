package dashboard

import (
	"strings"

	"github.com/rileyhilliard/ctop/internal/monitor"
)

// DefaultHistorySize is the number of ticks of fleet averages kept for the
// footer sparklines.
const DefaultHistorySize = 60

// History records fleet-wide averages over the last ticks. It is owned by
// the Bubble Tea model and is not safe for concurrent use.
type History struct {
	cpu *ringBuffer
	mem *ringBuffer
}

// NewHistory creates a history holding size ticks.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		cpu: newRingBuffer(size),
		mem: newRingBuffer(size),
	}
}

// Push records the averages over the nodes that are ok. A tick with no ok
// nodes records nothing.
func (h *History) Push(samples []monitor.NodeSample) {
	cpu, mem, n := FleetAverages(samples)
	if n == 0 {
		return
	}
	h.cpu.push(cpu)
	h.mem.push(mem)
}

// CPU returns up to count CPU averages, oldest first.
func (h *History) CPU(count int) []float64 {
	return h.cpu.getLast(count)
}

// Memory returns up to count memory averages, oldest first.
func (h *History) Memory(count int) []float64 {
	return h.mem.getLast(count)
}

// Len returns the number of recorded ticks.
func (h *History) Len() int {
	return h.cpu.count
}

// FleetAverages returns mean CPU utilization and memory fractions over ok
// nodes, and how many nodes were ok.
func FleetAverages(samples []monitor.NodeSample) (cpu, mem float64, n int) {
	for _, s := range samples {
		if s.Valid != monitor.OK {
			continue
		}
		cpu += s.Derived.CPUUtilization
		mem += s.Derived.MemoryUsed
		n++
	}
	if n > 0 {
		cpu /= float64(n)
		mem /= float64(n)
	}
	return cpu, mem, n
}

// sparklineBlocks are the eight block heights used for sparklines.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders fractions in [0,1] as one row of block characters,
// keeping the last width values.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var b strings.Builder
	top := len(sparklineBlocks) - 1
	for _, v := range data {
		idx := int(clampFraction(v) * float64(top))
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size)}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	count = min(count, r.count)

	size := len(r.data)
	start := (r.head - count + size) % size
	out := make([]float64, count)
	for i := range out {
		out[i] = r.data[(start+i)%size]
	}
	return out
}
