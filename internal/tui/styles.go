package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorWarn     lipgloss.Color = "#f9e2af"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

var columnColors = map[string]lipgloss.Color{
	"TO DO":       colorAccent,
	"IN PROGRESS": colorWarn,
	"DONE":        colorSuccess,
	"EMERGENCY":   colorError,
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	columnFocusStyle = columnStyle.BorderForeground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Foreground(colorText)
	cardCursorStyle = cardStyle.BorderForeground(colorAccent).Bold(true)
	ghostStyle      = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorWarn).
			Foreground(colorWarn)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	focusStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusBarStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0)
	footerStyle       = lipgloss.NewStyle().Background(colorMantle)
)
