package ui

import (
	"github.com/charmbracelet/lipgloss"

	"expertbook/internal/ui/components"
)

var (
	bg = lipgloss.Color("#1F2937")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(components.Text).
			Background(components.Primary).
			Padding(0, 2)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(components.TextDim).
			Padding(0, 2).
			MarginBottom(1)

	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.Muted).
			Padding(1, 2).
			MarginLeft(2)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(components.Secondary).
			Width(18)

	FocusedLabelStyle = FieldLabelStyle.
				Bold(true).
				Foreground(components.Primary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(components.Success)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(components.Muted).
				Italic(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(components.Success).
			Padding(1, 2).
			MarginLeft(2).
			Width(60)

	CardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(components.Success)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(components.TextDim).
			Background(bg).
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(components.Secondary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(components.Muted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(components.Primary)
)
