package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"expertbook/internal/i18n"
)

// DatePickerField represents which field is currently focused
type DatePickerField int

const (
	FieldYear DatePickerField = iota
	FieldMonth
	FieldDay
)

var monthNames = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DatePicker is a scrollable date picker that never moves before its
// minimum date. Dates are calendar days, held in UTC.
type DatePicker struct {
	year       int
	month      int // 1-12
	day        int // 1-31
	min        time.Time
	blocked    func(time.Time) bool
	focused    bool
	disabled   bool
	focusField DatePickerField
}

// NewDatePicker creates a picker positioned on min, which is also the
// earliest date it will show. blocked marks dates that cannot be booked;
// they can still be scrolled past.
func NewDatePicker(min time.Time, blocked func(time.Time) bool) DatePicker {
	min = time.Date(min.Year(), min.Month(), min.Day(), 0, 0, 0, 0, time.UTC)
	d := DatePicker{
		min:        min,
		blocked:    blocked,
		focusField: FieldDay,
	}
	d.SetDate(min)
	return d
}

// Focus sets the picker as focused
func (d *DatePicker) Focus() {
	d.focused = true
}

// Blur removes focus from the picker
func (d *DatePicker) Blur() {
	d.focused = false
}

// SetDisabled freezes the picker; a disabled picker ignores input.
func (d *DatePicker) SetDisabled(disabled bool) {
	d.disabled = disabled
}

// SetDate moves the picker to t, or to the minimum date if t is earlier.
func (d *DatePicker) SetDate(t time.Time) {
	d.year = t.Year()
	d.month = int(t.Month())
	d.day = t.Day()
	d.clampMin()
}

// Value returns the date as a time.Time
func (d DatePicker) Value() time.Time {
	return time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, time.UTC)
}

// ValueString returns the date in "2006-01-02" format
func (d DatePicker) ValueString() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Blocked reports whether the shown date is marked as unbookable.
func (d DatePicker) Blocked() bool {
	return d.blocked != nil && d.blocked(d.Value())
}

func (d DatePicker) daysInMonth() int {
	t := time.Date(d.year, time.Month(d.month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

func (d *DatePicker) clampDay() {
	maxDay := d.daysInMonth()
	if d.day > maxDay {
		d.day = maxDay
	}
	if d.day < 1 {
		d.day = 1
	}
}

func (d *DatePicker) clampMin() {
	if d.min.IsZero() || !d.Value().Before(d.min) {
		return
	}
	d.year = d.min.Year()
	d.month = int(d.min.Month())
	d.day = d.min.Day()
}

// Update handles key messages for the date picker
func (d DatePicker) Update(msg tea.Msg) (DatePicker, tea.Cmd) {
	if !d.focused || d.disabled {
		return d, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			d.increment()
		case "down", "j":
			d.decrement()
		case "left", "h":
			d.prevField()
		case "right", "l":
			d.nextField()
		case "t":
			d.SetDate(d.min)
		}
	}

	return d, nil
}

func (d *DatePicker) increment() {
	switch d.focusField {
	case FieldYear:
		d.year++
		d.clampDay()
	case FieldMonth:
		d.month++
		if d.month > 12 {
			d.month = 1
			d.year++
		}
		d.clampDay()
	case FieldDay:
		d.SetDate(d.Value().AddDate(0, 0, 1))
	}
}

func (d *DatePicker) decrement() {
	switch d.focusField {
	case FieldYear:
		d.year--
		d.clampDay()
	case FieldMonth:
		d.month--
		if d.month < 1 {
			d.month = 12
			d.year--
		}
		d.clampDay()
	case FieldDay:
		d.SetDate(d.Value().AddDate(0, 0, -1))
	}
	d.clampMin()
}

func (d *DatePicker) nextField() {
	d.focusField = (d.focusField + 1) % 3
}

func (d *DatePicker) prevField() {
	if d.focusField == 0 {
		d.focusField = FieldDay
	} else {
		d.focusField--
	}
}

// View renders the date as "Mon Jan 15, 2025", flagging blocked days.
func (d DatePicker) View() string {
	normalStyle := lipgloss.NewStyle().Foreground(Text)
	focusedStyle := lipgloss.NewStyle().Foreground(Text).Background(Primary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(Muted)

	part := func(s string, f DatePickerField) string {
		switch {
		case !d.focused || d.disabled:
			return dimStyle.Render(s)
		case d.focusField == f:
			return focusedStyle.Render(s)
		default:
			return normalStyle.Render(s)
		}
	}

	weekday := dimStyle.Render(d.Value().Weekday().String()[:3])
	view := weekday + " " + part(monthNames[d.month], FieldMonth) + " " +
		part(fmt.Sprintf("%2d", d.day), FieldDay) + normalStyle.Render(", ") +
		part(fmt.Sprintf("%d", d.year), FieldYear)

	if d.Blocked() {
		view += " " + lipgloss.NewStyle().Foreground(Danger).Render("("+i18n.T("datepicker.blocked")+")")
	}
	return view
}
