// Package render formats apps and categories for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#06B6D4")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	CategoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Warning)

	AppNameStyle = lipgloss.NewStyle()

	CountStyle = lipgloss.NewStyle().
			Foreground(Muted)

	PathStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	BusyStyle    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
)
