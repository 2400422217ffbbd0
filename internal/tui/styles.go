package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	barStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 2)

	// bar background per state
	syncingColor = lipgloss.Color("33")
	offlineColor = lipgloss.Color("244")
	pendingColor = lipgloss.Color("178")
	syncedColor  = lipgloss.Color("34")
)
