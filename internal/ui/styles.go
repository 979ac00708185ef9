package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the confirmation summary heading.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SuccessStyle is used for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarnStyle is used for partial-failure notices.
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // Orange
			Bold(true)

	// NoticeStyle is used for informational notices.
	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray

	// PromptStyle is used for prompt labels.
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Light blue

	// LabelStyle is used for summary field names.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")). // Light gray
			Bold(true)

	// SelectedItemStyle is used for the highlighted picker item.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected picker items.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// HelpStyle is used for picker help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)
)
