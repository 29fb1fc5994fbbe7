package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette.
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Gauge color thresholds, as fractions of full scale.
const (
	WarningThreshold  = 0.5
	CriticalThreshold = 0.7
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	NodeIDStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	GaugeFrameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	WaitingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// GaugeColor returns the color for a gauge filled to fraction:
// green below 0.5, yellow below 0.7, red otherwise.
func GaugeColor(fraction float64) lipgloss.Color {
	switch {
	case fraction < WarningThreshold:
		return ColorHealthy
	case fraction < CriticalThreshold:
		return ColorWarning
	default:
		return ColorCritical
	}
}

// GaugeStyle returns a foreground style for a gauge filled to fraction.
func GaugeStyle(fraction float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GaugeColor(fraction))
}
