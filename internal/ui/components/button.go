package components

import "github.com/charmbracelet/lipgloss"

// Button renders a single push button.
func Button(label string, enabled, focused bool) string {
	style := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case !enabled:
		style = style.Foreground(Muted).Background(lipgloss.Color("#374151"))
	case focused:
		style = style.Bold(true).Foreground(Text).Background(Primary)
	default:
		style = style.Foreground(Text).Background(lipgloss.Color("#4B5563"))
	}
	return style.Render(label)
}

// ButtonRow renders buttons side by side, highlighting the one at selected.
func ButtonRow(labels []string, selected int) string {
	rendered := make([]string, 0, len(labels)*2)
	for i, label := range labels {
		if i > 0 {
			rendered = append(rendered, "  ")
		}
		rendered = append(rendered, Button(label, true, i == selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
