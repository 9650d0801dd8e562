package render

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for terminal output.
var (
	// Section heading styles.
	queryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
	responseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	metricsStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	modelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red

	// Frame and hint styles.
	ruleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
)

const ruleWidth = 80
