package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	bulletStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	textStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimTextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	spinnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	originalStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	overrideStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	matchStyle       = lipgloss.NewStyle().Reverse(true)
	modeStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	transportStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	createdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
