package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Modal is a centered dialog drawn over the whole screen. Everything outside
// its box is backdrop.
type Modal struct {
	Title    string
	Body     string
	Buttons  []string
	Selected int
	Accent   lipgloss.Color
}

func (m Modal) box() string {
	accent := m.Accent
	if accent == "" {
		accent = Primary
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	bodyStyle := lipgloss.NewStyle().Foreground(Text).Width(46)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(m.Body))
	if len(m.Buttons) > 0 {
		b.WriteString("\n\n")
		b.WriteString(ButtonRow(m.Buttons, m.Selected))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(50).
		Render(b.String())
}

// Bounds is the area the dialog box occupies on a width x height screen.
func (m Modal) Bounds(width, height int) Rect {
	box := m.box()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return Rect{X: max(0, (width-w)/2), Y: max(0, (height-h)/2), W: w, H: h}
}

// View draws the dialog positioned at Bounds on an empty backdrop.
func (m Modal) View(width, height int) string {
	r := m.Bounds(width, height)
	return lipgloss.NewStyle().
		MarginLeft(r.X).
		MarginTop(r.Y).
		Render(m.box())
}
