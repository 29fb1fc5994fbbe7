package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/ctop/internal/monitor"
)

// HeaderTimeLayout formats the header clock.
const HeaderTimeLayout = "2006-01-02 15:04:05"

// sparklineWidth is the number of ticks drawn in each footer sparkline.
const sparklineWidth = 20

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.gridInit {
		b.WriteString(m.grid.View())
	} else {
		b.WriteString(m.renderGrid())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Header returns the title line for a tick that started at t.
func Header(t time.Time) string {
	return fmt.Sprintf("Cluster top %s, type q to quit", t.Format(HeaderTimeLayout))
}

func (m Model) renderHeader() string {
	t := m.stats.Started
	if t.IsZero() {
		t = m.opts.Now()
	}
	return HeaderStyle.Render(Header(t))
}

func (m Model) renderGrid() string {
	return RenderGrid(m.samples, m.opts.Columns, m.opts.NICFullScale)
}

// RenderGrid lays node cells out in rows of columns cells, in table order.
func RenderGrid(samples []monitor.NodeSample, columns int, fullScale float64) string {
	if columns < 1 {
		columns = 1
	}
	cell := lipgloss.NewStyle().Width(CellWidth)

	var rows []string
	for start := 0; start < len(samples); start += columns {
		end := min(start+columns, len(samples))
		cells := make([]string, 0, end-start)
		for _, s := range samples[start:end] {
			cells = append(cells, cell.Render(RenderCell(s, fullScale)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderFooter() string {
	status := m.renderStatus()
	return FooterStyle.Render(status) + "\n" + m.help.View(keys)
}

func (m Model) renderStatus() string {
	if m.ticks == 0 {
		return "waiting for the first tick"
	}

	cpu, mem, ok := FleetAverages(m.samples)
	parts := []string{
		fmt.Sprintf("%d/%d ok", ok, len(m.samples)),
		fmt.Sprintf("cpu %s %5.1f%%", m.sparkline(m.history.CPU(sparklineWidth)), cpu*100),
		fmt.Sprintf("mem %s %5.1f%%", m.sparkline(m.history.Memory(sparklineWidth)), mem*100),
		"took " + m.stats.Duration.Round(time.Millisecond).String(),
	}
	if m.collecting {
		parts = append(parts, "refreshing")
	}
	return strings.Join(parts, " | ")
}

func (m Model) sparkline(data []float64) string {
	return lipgloss.NewStyle().Foreground(ColorGraph).Render(Sparkline(data, sparklineWidth))
}
