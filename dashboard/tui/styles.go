package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "#E8590C"
	colorOK     = "#2F9E44"
	colorFail   = "#E03131"
	colorMuted  = "#868E96"
	colorLight  = "#F8F9FA"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			MarginTop(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorOK))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFail))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(0, 1)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorLight)).
			Background(lipgloss.Color(colorOK)).
			Padding(0, 1)
)
