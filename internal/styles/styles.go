// Package styles holds the shared lipgloss palette for the terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette colors.
var (
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("252")
	Dim       = lipgloss.Color("240")
	Star      = lipgloss.Color("220")
	Danger    = lipgloss.Color("203")
	Good      = lipgloss.Color("78")
)

// Common styles.
var (
	Title    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Normal   = lipgloss.NewStyle().Foreground(Secondary)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Muted    = lipgloss.NewStyle().Foreground(Dim)
	Starred  = lipgloss.NewStyle().Foreground(Star)
	Error    = lipgloss.NewStyle().Foreground(Danger)
	Success  = lipgloss.NewStyle().Foreground(Good)
	Branch   = lipgloss.NewStyle().Foreground(Dim).Italic(true)
)
