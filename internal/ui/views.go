package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"expertbook/internal/booking"
	"expertbook/internal/client"
	"expertbook/internal/i18n"
	"expertbook/internal/ui/components"
	"expertbook/internal/ui/utils"
)

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	// Dialogs take the whole screen so mouse coordinates line up with
	// the dialog bounds.
	switch {
	case a.alert != nil:
		return a.alertModal().View(a.width, a.height)
	case a.ctrl.ErrorModal().Visible:
		return a.errorModal().View(a.width, a.height)
	case a.ctrl.ConfirmationVisible():
		return a.confirmModal().View(a.width, a.height)
	}

	sections := []string{
		TitleStyle.Render(i18n.T("app.title")),
		SubtitleStyle.Render(i18n.T("app.subtitle")),
		a.renderForm(),
	}
	if result := a.renderResult(); result != "" {
		sections = append(sections, "", result)
	}
	sections = append(sections, "", a.renderStatus(), a.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) alertModal() components.Modal {
	return components.Modal{
		Title:   i18n.T("alert.title"),
		Body:    a.alert.message,
		Buttons: []string{i18n.T("alert.ok")},
		Accent:  components.Warning,
	}
}

func (a App) errorModal() components.Modal {
	msg := a.ctrl.ErrorModal().Message
	if msg == client.DefaultErrorMessage {
		msg = i18n.T("error.network")
	}
	return components.Modal{
		Title:   i18n.T("error.title"),
		Body:    msg,
		Buttons: []string{i18n.T("error.close")},
		Accent:  components.Danger,
	}
}

func (a App) confirmModal() components.Modal {
	name := ""
	if m := a.ctrl.Match(); m != nil {
		name = m.Name
	}
	return components.Modal{
		Title:    i18n.T("confirm.title"),
		Body:     i18n.T("confirm.question", map[string]interface{}{"Name": name}),
		Buttons:  []string{i18n.T("confirm.yes"), i18n.T("confirm.no")},
		Selected: a.confirmSel,
	}
}

func (a App) renderForm() string {
	sel := a.ctrl.Selection()
	locked := a.ctrl.Locked()

	row := func(f focus, label, widget string) string {
		marker, style := "  ", FieldLabelStyle
		if a.focus == f && !locked {
			marker, style = "› ", FocusedLabelStyle
		}
		return marker + style.Render(label) + widget
	}

	dateValue := PlaceholderStyle.Render(i18n.T("form.unset"))
	if sel.Date != "" {
		dateValue = ValueStyle.Render("✓ " + sel.Date)
	}

	var b strings.Builder
	b.WriteString(row(focusDate, i18n.T("form.date"), a.datePicker.View()+"   "+dateValue))
	if a.focus == focusDate && !locked {
		b.WriteString("\n" + strings.Repeat(" ", 20) + PlaceholderStyle.Render(i18n.T("datepicker.hint")))
	}
	b.WriteString("\n\n")
	b.WriteString(row(focusTimeSlot, i18n.T("form.time_slot"), a.timeSlots.View()))
	b.WriteString("\n\n")
	b.WriteString(row(focusVolume, i18n.T("form.volume"), a.volumes.View()))
	b.WriteString("\n\n")
	b.WriteString(row(focusService, i18n.T("form.service"), a.services.View()))
	b.WriteString("\n\n")

	tr := a.ctrl.Trigger()
	trigger := "  " + components.Button(i18n.T(string(tr.Label)), tr.Enabled, a.focus == focusTrigger && !locked)
	if a.ctrl.State() == booking.StateAwaitingMatch {
		trigger += " " + a.spinner.View()
	}
	if locked {
		trigger += "  " + PlaceholderStyle.Render(i18n.T("form.locked"))
	}
	b.WriteString(trigger)

	return FormStyle.Render(b.String())
}

func (a App) renderResult() string {
	m := a.ctrl.Match()
	if m == nil {
		if a.hasAction() {
			return "  " + components.Button(i18n.T("confirm.no"), true, a.focus == focusAction)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(CardTitleStyle.Render(i18n.T("match.title")))
	b.WriteString("\n\n")
	b.WriteString(FieldLabelStyle.Render(i18n.T("match.name")) + m.Name + "\n")
	b.WriteString(FieldLabelStyle.Render(i18n.T("match.email")) + m.Email + "\n")
	if team := m.Extra("team"); team != "" {
		b.WriteString(FieldLabelStyle.Render(i18n.T("match.team")) + team + "\n")
	}
	b.WriteString(FieldLabelStyle.Render(i18n.T("match.link")) + utils.TruncateStr(m.CalendarLink, 36))
	if a.ctrl.State() == booking.StateMatchedLocked {
		b.WriteString("\n\n")
		b.WriteString(components.Button(i18n.T("match.book"), true, a.focus == focusAction))
	}
	return CardStyle.Render(b.String())
}

func (a App) renderStatus() string {
	if a.busy() {
		label := i18n.T(string(a.ctrl.Trigger().Label))
		if a.ctrl.State() == booking.StateConfirmed {
			label = i18n.T("confirm.title")
		}
		return StatusBarStyle.Render(a.spinner.View() + " " + label)
	}
	if a.statusMsg != "" {
		return StatusBarStyle.Render(a.statusMsg)
	}
	return ""
}

func (a App) renderHelp() string {
	type hint struct{ key, desc string }
	hints := []hint{{"tab", i18n.T("help.navigate")}}
	if !a.ctrl.Locked() {
		hints = append(hints,
			hint{"←/→", i18n.T("help.change")},
			hint{"enter", i18n.T("help.select")},
			hint{"ctrl+s", i18n.T("help.submit")},
		)
	} else if a.hasAction() {
		hints = append(hints, hint{"enter", i18n.T("help.book")})
	}
	hints = append(hints,
		hint{"ctrl+r", i18n.T("help.reset")},
		hint{"q", i18n.T("help.quit")},
	)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = HelpKeyStyle.Render(h.key) + " " + HelpDescStyle.Render(h.desc)
	}
	return "  " + strings.Join(parts, HelpDescStyle.Render(" • "))
}
