package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/rileyhilliard/ctop/internal/monitor"
)

// Gauge geometry. A cell is CellWidth columns wide; percentage gauges get a
// longer bar than rate gauges because their label sits inside the bar.
const (
	CellWidth      = 35
	percentBarLen  = 18
	rateBarLen     = 15
	cellIndent     = "    "
	bytesPerMiB    = 1 << 20
	errorGaugeText = "[ error: no data ]"
	waitGaugeText  = "[ waiting ]"
)

// DefaultNICFullScale is the rate drawn as a full RX/TX gauge, 128 MiB/s.
const DefaultNICFullScale = 128 * bytesPerMiB

// gaugeNames are the four gauges of every cell, top to bottom.
var gaugeNames = [4]string{"CPU", "MEM", "RX", "TX"}

// bar returns width characters with the first int(width*fraction) filled.
// fraction is clamped to [0,1].
func bar(width int, fraction float64) string {
	if width < 1 {
		return ""
	}
	fraction = clampFraction(fraction)

	filled := int(float64(width) * fraction)
	if filled > width {
		filled = width
	}
	return strings.Repeat("|", filled) + strings.Repeat(" ", width-filled)
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// PercentGauge renders a CPU or MEM gauge: [||||      42.0%]CPU
func PercentGauge(name string, fraction float64) string {
	fraction = clampFraction(fraction)
	inner := bar(percentBarLen, fraction) + fmt.Sprintf("%5.1f%%", fraction*100)
	return GaugeFrameStyle.Render("[") +
		GaugeStyle(fraction).Render(inner) +
		GaugeFrameStyle.Render("]"+name)
}

// RateGauge renders an RX or TX gauge scaled by fullScale bytes/second and
// capped at a full bar: [|||            ]RX 12.5 MB/s
func RateGauge(name string, bytesPerSec, fullScale float64) string {
	fraction := 1.0
	if fullScale > 0 && bytesPerSec < fullScale {
		fraction = bytesPerSec / fullScale
	}
	fraction = clampFraction(fraction)
	return GaugeFrameStyle.Render("[") +
		GaugeStyle(fraction).Render(bar(rateBarLen, fraction)) +
		GaugeFrameStyle.Render("]"+name) +
		fmt.Sprintf("%5.1f MB/s", bytesPerSec/bytesPerMiB)
}

// RenderCell draws the four gauges of one node, prefixed by its id.
func RenderCell(s monitor.NodeSample, fullScale float64) string {
	var gauges [4]string
	switch s.Valid {
	case monitor.OK:
		gauges = [4]string{
			PercentGauge(gaugeNames[0], s.Derived.CPUUtilization),
			PercentGauge(gaugeNames[1], s.Derived.MemoryUsed),
			RateGauge(gaugeNames[2], s.Derived.RxRate, fullScale),
			RateGauge(gaugeNames[3], s.Derived.TxRate, fullScale),
		}
	case monitor.NoData:
		for i, name := range gaugeNames {
			gauges[i] = WaitingStyle.Render(waitGaugeText + name)
		}
	default:
		for i, name := range gaugeNames {
			gauges[i] = ErrorStyle.Render(errorGaugeText + name)
		}
	}

	lines := make([]string, len(gauges))
	for i, g := range gauges {
		prefix := cellIndent
		if i == 0 {
			prefix = NodeIDStyle.Render(fmt.Sprintf("%2d: ", s.Node.ID))
		}
		lines[i] = prefix + g
	}
	return strings.Join(lines, "\n")
}
