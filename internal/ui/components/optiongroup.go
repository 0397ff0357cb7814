package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Option is one choice in an OptionGroup.
type Option struct {
	Label string
	Value string
}

// OptionGroup is a horizontal single-choice selector, the terminal form of a
// radio group or select box. Nothing is chosen until Choose is called.
type OptionGroup struct {
	options  []Option
	cursor   int
	selected int
	focused  bool
	disabled bool
}

func NewOptionGroup(options []Option) OptionGroup {
	return OptionGroup{options: options, selected: -1}
}

func (g *OptionGroup) Focus() {
	g.focused = true
}

func (g *OptionGroup) Blur() {
	g.focused = false
}

// SetDisabled freezes the group; a disabled group ignores input.
func (g *OptionGroup) SetDisabled(disabled bool) {
	g.disabled = disabled
}

// Update moves the cursor. Choosing is left to the caller via Choose.
func (g OptionGroup) Update(msg tea.Msg) (OptionGroup, tea.Cmd) {
	if !g.focused || g.disabled || len(g.options) == 0 {
		return g, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if g.cursor > 0 {
				g.cursor--
			}
		case "right", "l":
			if g.cursor < len(g.options)-1 {
				g.cursor++
			}
		}
	}
	return g, nil
}

// Choose selects the option under the cursor and returns its value.
func (g *OptionGroup) Choose() (string, bool) {
	if g.disabled || len(g.options) == 0 {
		return "", false
	}
	g.selected = g.cursor
	return g.options[g.selected].Value, true
}

// Value returns the chosen value, or "" when nothing is chosen.
func (g OptionGroup) Value() string {
	if g.selected < 0 || g.selected >= len(g.options) {
		return ""
	}
	return g.options[g.selected].Value
}

func (g OptionGroup) View() string {
	parts := make([]string, 0, len(g.options))
	for i, opt := range g.options {
		prefix := "○ "
		if i == g.selected {
			prefix = "● "
		}

		style := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case g.disabled:
			style = style.Foreground(Muted)
		case g.focused && i == g.cursor:
			style = style.Bold(true).Foreground(Text).Background(Primary)
		case i == g.selected:
			style = style.Bold(true).Foreground(Primary)
		default:
			style = style.Foreground(Text)
		}
		parts = append(parts, style.Render(prefix+opt.Label))
	}
	return strings.Join(parts, " ")
}
