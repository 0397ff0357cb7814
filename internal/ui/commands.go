package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"expertbook/internal/booking"
	"expertbook/internal/client"
)

// Results carry the session they were started in; anything arriving after
// a reset is dropped.

type matchResultMsg struct {
	session string
	match   *client.Match
	err     error
}

type linkOpenedMsg struct {
	session string
	link    string
	err     error
}

type promptConfirmMsg struct {
	session string
}

type confirmDoneMsg struct {
	session string
	outcome booking.Outcome
}

// findMatch runs one match request. The HTTP client's timeout bounds it.
func (a App) findMatch(req client.MatchRequest) tea.Cmd {
	backend, session := a.backend, a.sessionID
	return func() tea.Msg {
		m, err := backend.FindMatch(context.Background(), req)
		return matchResultMsg{session: session, match: m, err: err}
	}
}

func (a App) openLink(link string) tea.Cmd {
	session := a.sessionID
	if !a.cfg.OpenBrowser {
		return func() tea.Msg {
			return linkOpenedMsg{session: session, link: link}
		}
	}
	open := a.openURL
	return func() tea.Msg {
		return linkOpenedMsg{session: session, link: link, err: open(link)}
	}
}

// promptAfter shows the confirmation prompt once d has passed, giving the
// browser time to take focus first.
func (a App) promptAfter(d time.Duration) tea.Cmd {
	session := a.sessionID
	return tea.Tick(d, func(time.Time) tea.Msg {
		return promptConfirmMsg{session: session}
	})
}

func (a App) confirmBooking(m *client.Match) tea.Cmd {
	backend, logger, session := a.backend, a.logger, a.sessionID
	return func() tea.Msg {
		return confirmDoneMsg{session: session, outcome: booking.ConfirmBooking(context.Background(), backend, logger, m)}
	}
}

func (a App) sendNotification(title, message string) tea.Cmd {
	if !a.cfg.Notify {
		return nil
	}
	notify, logger := a.notify, a.logger
	return func() tea.Msg {
		booking.BestEffort(context.Background(), logger, "notify", func(context.Context) error {
			return notify(title, message)
		})
		return nil
	}
}
