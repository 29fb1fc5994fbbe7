package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/ctop/internal/monitor"
)

var snapshotColumns = []table.Column{
	{Title: "ID", Width: 4},
	{Title: "HOST", Width: 12},
	{Title: "STATE", Width: 8},
	{Title: "CPU", Width: 7},
	{Title: "MEM", Width: 7},
	{Title: "RX MB/s", Width: 9},
	{Title: "TX MB/s", Width: 9},
	{Title: "ERROR", Width: 40},
}

// RenderTable renders samples as a static table for headless output.
// Nodes without an ok sample show dashes instead of numbers.
func RenderTable(samples []monitor.NodeSample) string {
	if len(samples) == 0 {
		return "No nodes configured"
	}

	rows := make([]table.Row, len(samples))
	for i, s := range samples {
		rows[i] = tableRow(s)
	}

	t := table.New(
		table.WithColumns(snapshotColumns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorTextPrimary)
	st.Cell = st.Cell.Foreground(ColorTextPrimary)
	// Unfocused tables still mark row 0 as selected; render it like the rest.
	st.Selected = st.Cell
	t.SetStyles(st)

	return t.View()
}

func tableRow(s monitor.NodeSample) table.Row {
	row := table.Row{
		fmt.Sprintf("%d", s.Node.ID),
		s.Node.Host,
		s.Valid.String(),
		"-", "-", "-", "-",
		s.LastError,
	}
	if s.Valid != monitor.OK {
		return row
	}
	row[3] = fmt.Sprintf("%.1f%%", s.Derived.CPUUtilization*100)
	row[4] = fmt.Sprintf("%.1f%%", s.Derived.MemoryUsed*100)
	row[5] = fmt.Sprintf("%.1f", s.Derived.RxRate/bytesPerMiB)
	row[6] = fmt.Sprintf("%.1f", s.Derived.TxRate/bytesPerMiB)
	return row
}
