package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorText   = lipgloss.Color("#cdd6f4")
	colorMuted  = lipgloss.Color("#7f849c")
	colorDanger = lipgloss.Color("#f38ba8")
	colorBase   = lipgloss.Color("#1e1e2e")

	digitStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 3).
			Margin(0, 1).
			Foreground(colorBase)

	disabledButtonStyle = lipgloss.NewStyle().
				Padding(0, 3).
				Margin(0, 1).
				Foreground(colorMuted)

	stateStyle  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorDanger)
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)
