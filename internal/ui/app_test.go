package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expertbook/config"
	"expertbook/internal/booking"
	"expertbook/internal/client"
	"expertbook/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Friday 16 October 2026.
var fixedNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu         sync.Mutex
	requests   []client.MatchRequest
	results    []matchResultMsg
	confirmed  []*client.Match
	confirmErr error
}

func (f *fakeBackend) FindMatch(_ context.Context, req client.MatchRequest) (*client.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.results) == 0 {
		return nil, errors.New("no scripted result")
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next.match, next.err
}

func (f *fakeBackend) ConfirmBooking(_ context.Context, m *client.Match) (*client.ConfirmResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, m)
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &client.ConfirmResponse{Message: "ok"}, nil
}

func (f *fakeBackend) respond(m *client.Match, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, matchResultMsg{match: m, err: err})
}

func (f *fakeBackend) excludes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Exclude
	}
	return out
}

func expert(t *testing.T, name string) *client.Match {
	t.Helper()
	var m client.Match
	raw := fmt.Sprintf(`{"name":%q,"email":"%s@example.com","calendar_link":"https://cal.example/%s","team":"enterprise"}`, name, name, name)
	require.NoError(t, m.UnmarshalJSON([]byte(raw)))
	return &m
}

type harness struct {
	backend  *fakeBackend
	sessions []string
	opened   []string
	notified []string
}

func newHarness(t *testing.T) (*harness, App) {
	t.Helper()
	h := &harness{backend: &fakeBackend{}}

	cfg := config.DefaultConfig()

	n := 0
	app := NewApp(&cfg,
		func(id string) booking.Backend {
			h.sessions = append(h.sessions, id)
			return h.backend
		},
		zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
		WithConfirmDelay(time.Millisecond),
		WithSessionIDs(func() string {
			n++
			return fmt.Sprintf("session-%d", n)
		}),
		WithOpener(func(link string) error {
			h.opened = append(h.opened, link)
			return nil
		}),
		WithNotifier(func(title, message string) error {
			h.notified = append(h.notified, message)
			return nil
		}),
	)

	app = send(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, app
}

// send feeds msg to the app, runs the commands it returns and feeds their
// results back until nothing is left. Spinner ticks are dropped.
func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		model, cmd := a.Update(next)
		a = model.(App)
		queue = append(queue, run(cmd)...)
	}
	return a
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		a = send(t, a, keyPress(k))
	}
	return a
}

// fillForm picks today, the first time slot, the first volume and the
// first service, leaving focus on the trigger.
func fillForm(t *testing.T, a App) App {
	t.Helper()
	a = press(t, a, "enter", "enter", "enter", "enter")
	require.True(t, a.Controller().CanSubmit())
	require.Equal(t, focusTrigger, a.focus)
	return a
}

func TestTriggerEnablesOnlyWhenComplete(t *testing.T) {
	_, a := newHarness(t)
	ctrl := a.Controller()

	assert.False(t, ctrl.Trigger().Enabled)
	a = press(t, a, "enter")
	assert.Equal(t, "2026-10-16", ctrl.Selection().Date)
	assert.False(t, ctrl.Trigger().Enabled)

	a = press(t, a, "right", "enter", "enter")
	assert.Equal(t, "11:00", ctrl.Selection().TimeSlot)
	assert.False(t, ctrl.Trigger().Enabled)

	a = press(t, a, "enter")
	assert.True(t, ctrl.Trigger().Enabled)
	assert.Contains(t, a.View(), "Find available expert")
}

func TestBlockedDateAlertsAndClears(t *testing.T) {
	h, a := newHarness(t)

	// Friday -> Sunday 18th.
	a = press(t, a, "up", "up", "enter")
	require.NotNil(t, a.alert)
	assert.Equal(t, "This date falls on a blocked weekend (2nd/4th Saturday or Sunday). Please select another date.", a.alert.message)
	assert.Equal(t, "", a.Controller().Selection().Date)

	a = press(t, a, "esc")
	assert.Nil(t, a.alert)
	assert.Equal(t, []string{"session-1"}, h.sessions, "closing the date alert keeps the session")
	assert.Equal(t, focusDate, a.focus)
}

func TestIncompleteSubmitAlerts(t *testing.T) {
	h, a := newHarness(t)

	a = press(t, a, "ctrl+s")
	require.NotNil(t, a.alert)
	assert.Equal(t, "Please fill in all fields before submitting.", a.alert.message)
	assert.Empty(t, h.backend.excludes())
}

func TestMatchConfirmAndReset(t *testing.T) {
	h, a := newHarness(t)
	h.backend.respond(expert(t, "Alice"), nil)

	a = fillForm(t, a)
	a = press(t, a, "enter")

	ctrl := a.Controller()
	require.Equal(t, booking.StateMatchedLocked, ctrl.State())
	assert.True(t, ctrl.Locked())
	assert.Equal(t, booking.Trigger{Label: booking.LabelMatchFound, Enabled: false}, ctrl.Trigger())
	assert.Equal(t, []string{""}, h.backend.excludes())
	assert.Equal(t, focusAction, a.focus)

	view := a.View()
	assert.Contains(t, view, "Alice@example.com")
	assert.Contains(t, view, "Match Found!")
	assert.Contains(t, a.renderResult(), "enterprise", "team from the backend shows on the card")

	// Inputs ignore keys once locked.
	a = press(t, a, "tab")
	assert.Equal(t, focusAction, a.focus)

	// Book: link opens, prompt follows.
	a = press(t, a, "enter")
	assert.Equal(t, []string{"https://cal.example/Alice"}, h.opened)
	require.True(t, ctrl.ConfirmationVisible())
	assert.Equal(t, "Did you successfully book a meeting with Alice?", a.confirmModal().Body)

	a = press(t, a, "enter")
	require.Len(t, h.backend.confirmed, 1)
	out, err := h.backend.confirmed[0].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","email":"Alice@example.com","calendar_link":"https://cal.example/Alice","team":"enterprise"}`, string(out))

	require.NotNil(t, a.alert)
	assert.Equal(t, "Booking confirmed! Refreshing to book a new meeting...", a.alert.message)
	assert.Equal(t, []string{"Booking confirmed! Refreshing to book a new meeting..."}, h.notified)

	a = press(t, a, "enter")
	assert.Equal(t, []string{"session-1", "session-2"}, h.sessions)
	assert.Equal(t, booking.StateIdle, a.Controller().State())
	assert.False(t, a.Controller().Locked())
	assert.Equal(t, booking.Selection{}, a.Controller().Selection())
	assert.Empty(t, a.Controller().Exclusions())
}

func TestConfirmFailureStillResets(t *testing.T) {
	h, a := newHarness(t)
	h.backend.respond(expert(t, "Alice"), nil)
	h.backend.confirmErr = errors.New("boom")

	a = fillForm(t, a)
	a = press(t, a, "enter", "enter", "y")

	require.NotNil(t, a.alert)
	assert.Equal(t, "Booking recorded. Refreshing page...", a.alert.message)

	a = press(t, a, "esc")
	assert.Len(t, h.sessions, 2)
	assert.Equal(t, booking.StateIdle, a.Controller().State())
}

func TestRejectGrowsExclusions(t *testing.T) {
	h, a := newHarness(t)
	h.backend.respond(expert(t, "Alice"), nil)
	h.backend.respond(expert(t, "Bob"), nil)
	h.backend.respond(expert(t, "Carol"), nil)

	a = fillForm(t, a)
	a = press(t, a, "enter")
	// Book Alice, then turn her down.
	a = press(t, a, "enter", "n")
	ctrl := a.Controller()
	assert.Equal(t, "Bob", ctrl.Match().Name)
	assert.True(t, ctrl.Locked())
	assert.Equal(t, booking.Trigger{Label: booking.LabelFind, Enabled: true}, ctrl.Trigger())

	// The trigger is enabled but the form stays locked.
	a = press(t, a, "ctrl+s")
	assert.Len(t, h.backend.excludes(), 2)

	// Book Bob, then pick the second button.
	a = press(t, a, "enter", "right", "enter")
	assert.Equal(t, "Carol", ctrl.Match().Name)
	assert.Equal(t, []string{"", "Alice", "Alice,Bob"}, h.backend.excludes())
	assert.Equal(t, []string{"Alice", "Bob"}, ctrl.Exclusions())
}

func TestMatchErrorModalDismissal(t *testing.T) {
	h, a := newHarness(t)
	h.backend.respond(nil, &client.APIError{StatusCode: 404, Message: "No experts available"})
	h.backend.respond(nil, errors.New("dial tcp: connection refused"))

	a = fillForm(t, a)
	a = press(t, a, "enter")

	ctrl := a.Controller()
	require.True(t, ctrl.ErrorModal().Visible)
	assert.Contains(t, a.View(), "No experts available")
	assert.False(t, ctrl.Locked())
	assert.Equal(t, booking.Trigger{Label: booking.LabelFind, Enabled: true}, ctrl.Trigger())

	bounds := a.errorModal().Bounds(a.width, a.height)
	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	a = send(t, a, click(bounds.X+1, bounds.Y+1))
	assert.True(t, ctrl.ErrorModal().Visible, "click inside the dialog keeps it open")

	a = send(t, a, click(0, 0))
	assert.False(t, ctrl.ErrorModal().Visible, "backdrop click closes the dialog")

	// Transport failure shows the generic message; esc closes it.
	a = press(t, a, "enter")
	require.True(t, ctrl.ErrorModal().Visible)
	assert.Contains(t, a.View(), "Network error")
	a = press(t, a, "esc")
	assert.False(t, ctrl.ErrorModal().Visible)
}

func TestFailedFindAnotherOffersRetry(t *testing.T) {
	h, a := newHarness(t)
	h.backend.respond(expert(t, "Alice"), nil)
	h.backend.respond(nil, &client.APIError{StatusCode: 404, Message: "No other experts"})
	h.backend.respond(expert(t, "Bob"), nil)

	a = fillForm(t, a)
	a = press(t, a, "enter", "enter", "n")

	ctrl := a.Controller()
	require.True(t, ctrl.ErrorModal().Visible)
	a = press(t, a, "esc")
	assert.Nil(t, ctrl.Match())
	assert.Equal(t, focusAction, a.focus)
	assert.Contains(t, a.View(), "No, find another expert")

	a = press(t, a, "enter")
	assert.Equal(t, "Bob", ctrl.Match().Name)
	assert.Equal(t, []string{"", "Alice", "Alice"}, h.backend.excludes())
}

func TestResultFromOldSessionIsDropped(t *testing.T) {
	h, a := newHarness(t)
	a = fillForm(t, a)

	model, _ := a.Update(keyPress("enter"))
	a = model.(App)
	require.Equal(t, booking.StateAwaitingMatch, a.Controller().State())

	a = press(t, a, "ctrl+r")
	a = send(t, a, matchResultMsg{session: "session-1", match: expert(t, "Alice")})

	assert.Equal(t, []string{"session-1", "session-2"}, h.sessions)
	assert.Equal(t, booking.StateIdle, a.Controller().State())
	assert.Nil(t, a.Controller().Match())
}

func TestConfirmPromptDelayIsFixed(t *testing.T) {
	cfg := config.DefaultConfig()
	a := NewApp(&cfg, func(string) booking.Backend { return &fakeBackend{} }, nil)
	assert.Equal(t, 300*time.Millisecond, a.confirmDelay)
}
