package ui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"expertbook/config"
	"expertbook/internal/booking"
	"expertbook/internal/desktop"
	"expertbook/internal/i18n"
	"expertbook/internal/ui/components"
)

type focus int

const (
	focusDate focus = iota
	focusTimeSlot
	focusVolume
	focusService
	focusTrigger
	focusAction // book the shown match, or retry after a failed re-request
)

type alert struct {
	message      string
	resetOnClose bool
}

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Select    key.Binding
	Close     key.Binding
	Submit    key.Binding
	Reset     key.Binding
	Yes       key.Binding
	No        key.Binding
	Left      key.Binding
	Right     key.Binding
}

var keys = keyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:      key.NewBinding(key.WithKeys("q")),
	Next:      key.NewBinding(key.WithKeys("tab")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab")),
	Select:    key.NewBinding(key.WithKeys("enter", " ")),
	Close:     key.NewBinding(key.WithKeys("esc")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s")),
	Reset:     key.NewBinding(key.WithKeys("ctrl+r")),
	Yes:       key.NewBinding(key.WithKeys("y")),
	No:        key.NewBinding(key.WithKeys("n")),
	Left:      key.NewBinding(key.WithKeys("left", "h")),
	Right:     key.NewBinding(key.WithKeys("right", "l")),
}

// App is the booking form. One App runs many sessions: confirming a booking
// or pressing ctrl+r throws the current session away and starts a fresh one.
type App struct {
	cfg        *config.Config
	backendFor func(sessionID string) booking.Backend
	baseLogger *zap.Logger

	openURL      func(string) error
	notify       func(title, message string) error
	now          func() time.Time
	newSessionID func() string
	confirmDelay time.Duration

	sessionID string
	backend   booking.Backend
	logger    *zap.Logger
	ctrl      *booking.Controller

	datePicker components.DatePicker
	timeSlots  components.OptionGroup
	volumes    components.OptionGroup
	services   components.OptionGroup
	spinner    spinner.Model

	focus      focus
	confirmSel int
	alert      *alert
	statusMsg  string
	width      int
	height     int
}

// Option customises an App.
type Option func(*App)

func WithOpener(fn func(string) error) Option {
	return func(a *App) { a.openURL = fn }
}

func WithNotifier(fn func(title, message string) error) Option {
	return func(a *App) { a.notify = fn }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func WithSessionIDs(fn func() string) Option {
	return func(a *App) { a.newSessionID = fn }
}

// WithConfirmDelay replaces booking.ConfirmDelay.
func WithConfirmDelay(d time.Duration) Option {
	return func(a *App) { a.confirmDelay = d }
}

// NewApp builds the form. backendFor is called once per session with the
// new session id.
func NewApp(cfg *config.Config, backendFor func(sessionID string) booking.Backend, logger *zap.Logger, opts ...Option) App {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	a := App{
		cfg:          cfg,
		backendFor:   backendFor,
		baseLogger:   logger,
		openURL:      desktop.OpenURL,
		notify:       desktop.Notify,
		now:          time.Now,
		newSessionID: uuid.NewString,
		confirmDelay: booking.ConfirmDelay,
		spinner:      s,
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.startSession()
	return a
}

// SessionID returns the id of the running session.
func (a App) SessionID() string {
	return a.sessionID
}

// Controller exposes the session state, mainly for tests.
func (a App) Controller() *booking.Controller {
	return a.ctrl
}

func (a *App) startSession() {
	a.sessionID = a.newSessionID()
	a.backend = a.backendFor(a.sessionID)
	a.logger = a.baseLogger.With(zap.String("session", a.sessionID))
	a.ctrl = booking.NewController(booking.WithClock(a.now))

	a.datePicker = components.NewDatePicker(a.ctrl.MinDate(), booking.IsBlockedWeekend)
	a.timeSlots = components.NewOptionGroup(toOptions(a.cfg.TimeSlots))
	a.volumes = components.NewOptionGroup(toOptions(a.cfg.Volumes))
	a.services = components.NewOptionGroup(toOptions(a.cfg.Services))

	a.focus = focusDate
	a.confirmSel = 0
	a.alert = nil
	a.statusMsg = ""
	a.syncFocus()

	a.logger.Info("session started")
}

func toOptions(opts []config.Option) []components.Option {
	out := make([]components.Option, len(opts))
	for i, o := range opts {
		out[i] = components.Option{Label: o.Label, Value: o.Value}
	}
	return out
}

func (a App) Init() tea.Cmd {
	return tea.SetWindowTitle(i18n.T("app.title"))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case matchResultMsg:
		if msg.session != a.sessionID {
			return a, nil
		}
		return a.handleMatchResult(msg)

	case linkOpenedMsg:
		if msg.session != a.sessionID {
			return a, nil
		}
		if msg.err != nil {
			a.logger.Warn("could not open calendar link", zap.String("link", msg.link), zap.Error(msg.err))
		}
		a.statusMsg = i18n.T("match.opened", map[string]interface{}{"Link": msg.link})
		return a, nil

	case promptConfirmMsg:
		if msg.session != a.sessionID {
			return a, nil
		}
		if err := a.ctrl.PromptConfirmation(); err == nil {
			a.confirmSel = 0
		}
		return a, nil

	case confirmDoneMsg:
		if msg.session != a.sessionID {
			return a, nil
		}
		text := i18n.T(msg.outcome.MessageID())
		a.alert = &alert{message: text, resetOnClose: true}
		return a, a.sendNotification(i18n.T("notify.title"), text)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.alert != nil {
		if key.Matches(msg, keys.Close, keys.Select) {
			return a.closeAlert()
		}
		return a, nil
	}

	if a.ctrl.ErrorModal().Visible {
		if key.Matches(msg, keys.Close, keys.Select) {
			a.ctrl.DismissError(booking.TargetCloseButton)
		}
		return a, nil
	}

	if a.ctrl.ConfirmationVisible() {
		switch {
		case key.Matches(msg, keys.Yes):
			return a.confirm()
		case key.Matches(msg, keys.No):
			return a.reject()
		case key.Matches(msg, keys.Left):
			a.confirmSel = 0
		case key.Matches(msg, keys.Right):
			a.confirmSel = 1
		case key.Matches(msg, keys.Next, keys.Prev):
			a.confirmSel = 1 - a.confirmSel
		case key.Matches(msg, keys.Select):
			if a.confirmSel == 0 {
				return a.confirm()
			}
			return a.reject()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Reset):
		a.startSession()
		return a, nil
	case key.Matches(msg, keys.Submit):
		return a.submit()
	case key.Matches(msg, keys.Next):
		a.moveFocus(1)
		return a, nil
	case key.Matches(msg, keys.Prev):
		a.moveFocus(-1)
		return a, nil
	case key.Matches(msg, keys.Select):
		return a.activate()
	}

	var cmd tea.Cmd
	switch a.focus {
	case focusDate:
		a.datePicker, cmd = a.datePicker.Update(msg)
	case focusTimeSlot:
		a.timeSlots, cmd = a.timeSlots.Update(msg)
	case focusVolume:
		a.volumes, cmd = a.volumes.Update(msg)
	case focusService:
		a.services, cmd = a.services.Update(msg)
	}
	return a, cmd
}

// handleMouse treats a left click outside the error dialog as a click on
// its backdrop.
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if a.alert != nil || !a.ctrl.ErrorModal().Visible {
		return a, nil
	}

	target := booking.TargetBackdrop
	if a.errorModal().Bounds(a.width, a.height).Contains(msg.X, msg.Y) {
		target = booking.TargetContent
	}
	a.ctrl.DismissError(target)
	return a, nil
}

func (a App) activate() (tea.Model, tea.Cmd) {
	switch a.focus {
	case focusDate:
		a.commitDate()
	case focusTimeSlot, focusVolume, focusService:
		a.chooseOption()
	case focusTrigger:
		if a.ctrl.Trigger().Enabled {
			return a.submit()
		}
	case focusAction:
		if a.ctrl.Match() == nil {
			return a.reject()
		}
		return a.book()
	}
	return a, nil
}

func (a *App) commitDate() {
	err := a.ctrl.SetDate(a.datePicker.ValueString())
	switch {
	case err == nil:
		a.moveFocus(1)
	case errors.Is(err, booking.ErrBlockedWeekend):
		a.alert = &alert{message: i18n.T("alert.blocked_weekend")}
	case errors.Is(err, booking.ErrPastDate):
		a.alert = &alert{message: i18n.T("alert.past_date")}
	case errors.Is(err, booking.ErrInvalidDate):
		a.alert = &alert{message: i18n.T("alert.invalid_date")}
	}
}

func (a *App) chooseOption() {
	var (
		v   string
		ok  bool
		err error
	)
	switch a.focus {
	case focusTimeSlot:
		if v, ok = a.timeSlots.Choose(); ok {
			err = a.ctrl.SetTimeSlot(v)
		}
	case focusVolume:
		if v, ok = a.volumes.Choose(); ok {
			err = a.ctrl.SetVolume(v)
		}
	case focusService:
		if v, ok = a.services.Choose(); ok {
			err = a.ctrl.SetService(v)
		}
	}
	if ok && err == nil {
		a.moveFocus(1)
	}
}

func (a App) submit() (tea.Model, tea.Cmd) {
	req, err := a.ctrl.BeginSubmit()
	if errors.Is(err, booking.ErrIncomplete) {
		a.alert = &alert{message: i18n.T("alert.incomplete")}
		return a, nil
	}
	if err != nil {
		// Locked form or a request already in flight: nothing to do.
		return a, nil
	}

	a.logger.Info("finding expert",
		zap.String("date", req.Date),
		zap.String("time_slot", req.TimeSlot),
		zap.String("volume", req.Volume),
		zap.String("service", req.Service),
	)
	return a, tea.Batch(a.spinner.Tick, a.findMatch(req))
}

func (a App) handleMatchResult(msg matchResultMsg) (tea.Model, tea.Cmd) {
	if err := a.ctrl.CompleteMatch(msg.match, msg.err); err != nil {
		return a, nil
	}

	if msg.err != nil {
		a.logger.Warn("match request failed", zap.Error(msg.err))
	} else if msg.match != nil {
		a.logger.Info("expert matched", zap.String("name", msg.match.Name))
	}

	if a.ctrl.Locked() {
		a.datePicker.SetDisabled(true)
		a.timeSlots.SetDisabled(true)
		a.volumes.SetDisabled(true)
		a.services.SetDisabled(true)
	}
	if a.hasAction() {
		a.focus = focusAction
	}
	a.syncFocus()
	return a, nil
}

func (a App) book() (tea.Model, tea.Cmd) {
	link, err := a.ctrl.BeginBooking()
	if err != nil {
		return a, nil
	}
	a.logger.Info("opening calendar link", zap.String("link", link))
	return a, tea.Batch(a.openLink(link), a.promptAfter(a.confirmDelay))
}

func (a App) confirm() (tea.Model, tea.Cmd) {
	m, err := a.ctrl.Confirm()
	if err != nil {
		return a, nil
	}
	a.logger.Info("booking confirmed", zap.String("name", m.Name))
	return a, tea.Batch(a.spinner.Tick, a.confirmBooking(m))
}

func (a App) reject() (tea.Model, tea.Cmd) {
	req, err := a.ctrl.Reject()
	if err != nil {
		return a, nil
	}
	a.statusMsg = ""
	a.logger.Info("finding another expert", zap.String("exclude", req.Exclude))
	return a, tea.Batch(a.spinner.Tick, a.findMatch(req))
}

func (a App) closeAlert() (tea.Model, tea.Cmd) {
	reset := a.alert.resetOnClose
	a.alert = nil
	if reset {
		a.startSession()
	}
	return a, nil
}

// busy reports whether a backend call is outstanding.
func (a App) busy() bool {
	switch a.ctrl.State() {
	case booking.StateAwaitingMatch:
		return true
	case booking.StateConfirmed:
		return a.alert == nil
	}
	return false
}

// hasAction reports whether the result area offers a button: book for a
// shown match, or retry when a re-request failed.
func (a App) hasAction() bool {
	return a.ctrl.Locked() && a.ctrl.State() == booking.StateMatchedLocked
}

func (a App) focusables() []focus {
	var f []focus
	if !a.ctrl.Locked() {
		f = append(f, focusDate, focusTimeSlot, focusVolume, focusService, focusTrigger)
	}
	if a.hasAction() {
		f = append(f, focusAction)
	}
	return f
}

func (a *App) moveFocus(delta int) {
	items := a.focusables()
	if len(items) == 0 {
		return
	}
	idx := -1
	for i, f := range items {
		if f == a.focus {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.focus = items[0]
	} else {
		a.focus = items[(idx+delta+len(items))%len(items)]
	}
	a.syncFocus()
}

func (a *App) syncFocus() {
	a.datePicker.Blur()
	a.timeSlots.Blur()
	a.volumes.Blur()
	a.services.Blur()

	switch a.focus {
	case focusDate:
		a.datePicker.Focus()
	case focusTimeSlot:
		a.timeSlots.Focus()
	case focusVolume:
		a.volumes.Focus()
	case focusService:
		a.services.Focus()
	}
}
