package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorError   = "#FF5F5F"
	colorDim     = "#626262"
	colorText    = "#FAFAFA"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDim))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorPrimary))

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorPrimary)).
			Padding(0, 1)
)
