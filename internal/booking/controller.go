package booking

import (
	"errors"
	"time"

	"expertbook/internal/client"
)

// ConfirmDelay is how long after opening the calendar link the
// confirmation prompt appears, so the browser is in front first.
const ConfirmDelay = 300 * time.Millisecond

var (
	ErrIncomplete              = errors.New("all fields are required")
	ErrFormLocked              = errors.New("form is locked")
	ErrRequestInFlight         = errors.New("a match request is already in flight")
	ErrNoRequestInFlight       = errors.New("no match request in flight")
	ErrNoMatch                 = errors.New("no match to book")
	ErrNoPromptPending         = errors.New("no booking awaiting a prompt")
	ErrNotAwaitingConfirmation = errors.New("not awaiting confirmation")
)

// State is the position of the controller in the booking flow.
type State int

const (
	StateIdle State = iota
	StateAwaitingMatch
	StateMatchedLocked
	StateAwaitingConfirmation
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingMatch:
		return "awaiting_match"
	case StateMatchedLocked:
		return "matched_locked"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// TriggerLabel names the text on the submit control. Values double as
// message ids in the i18n catalogue.
type TriggerLabel string

const (
	LabelFind             TriggerLabel = "trigger.find"
	LabelSearching        TriggerLabel = "trigger.searching"
	LabelSearchingAnother TriggerLabel = "trigger.searching_another"
	LabelMatchFound       TriggerLabel = "trigger.match_found"
)

// Trigger is the visual state of the submit control.
type Trigger struct {
	Label   TriggerLabel
	Enabled bool
}

// Controller owns the client-side state of one booking session.
//
// Input setters are refused once the form is locked; the lock is set by
// the first successful match and is only cleared by Reset. A rejected match
// re-requests with the same selection and a grown exclusion set.
//
// Controller is not safe for concurrent use.
type Controller struct {
	now func() time.Time

	selection  Selection
	exclusions ExclusionSet
	match      *client.Match
	locked     bool
	state      State

	trigger      Trigger
	restoreLabel TriggerLabel
	findAnother  bool

	promptPending  bool
	confirmVisible bool
	errModal       Modal
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClock replaces time.Now, used to decide the minimum date.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset starts a new session: selection, exclusions, match and lock are
// all cleared.
func (c *Controller) Reset() {
	now := c.now
	*c = Controller{now: now}
	c.refreshTrigger()
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Locked() bool { return c.locked }
func (c *Controller) Selection() Selection { return c.selection }
func (c *Controller) Trigger() Trigger { return c.trigger }
func (c *Controller) Match() *client.Match { return c.match }
func (c *Controller) Exclusions() []string { return c.exclusions.Names() }
func (c *Controller) ErrorModal() Modal { return c.errModal }
func (c *Controller) ConfirmationVisible() bool { return c.confirmVisible }

// MinDate is the earliest selectable date, today's calendar day.
func (c *Controller) MinDate() time.Time {
	return CivilDate(c.now())
}

// SetDate validates and stores a date. A blocked, past or malformed date
// clears the field and the error is returned so the caller can warn the
// user. An empty string clears the field without error.
func (c *Controller) SetDate(s string) error {
	if c.locked {
		return ErrFormLocked
	}
	if s == "" {
		c.selection.Date = ""
		c.refreshTrigger()
		return nil
	}
	if _, err := ValidateDate(s, c.now()); err != nil {
		c.selection.Date = ""
		c.refreshTrigger()
		return err
	}
	c.selection.Date = s
	c.refreshTrigger()
	return nil
}

func (c *Controller) SetTimeSlot(v string) error { return c.setOption(FieldTimeSlot, v) }
func (c *Controller) SetVolume(v string) error { return c.setOption(FieldVolume, v) }
func (c *Controller) SetService(v string) error { return c.setOption(FieldService, v) }

func (c *Controller) setOption(f Field, v string) error {
	if c.locked {
		return ErrFormLocked
	}
	c.selection.set(f, v)
	c.refreshTrigger()
	return nil
}

// CanSubmit is the completeness gate.
func (c *Controller) CanSubmit() bool {
	return c.state == StateIdle && !c.locked && c.selection.Complete()
}

// refreshTrigger re-derives the trigger while the form is still editable.
func (c *Controller) refreshTrigger() {
	if c.locked || c.state != StateIdle {
		return
	}
	c.trigger = Trigger{Label: LabelFind, Enabled: c.selection.Complete()}
}

// BeginSubmit starts the first match request and returns its body.
func (c *Controller) BeginSubmit() (client.MatchRequest, error) {
	if c.locked {
		return client.MatchRequest{}, ErrFormLocked
	}
	if c.state == StateAwaitingMatch {
		return client.MatchRequest{}, ErrRequestInFlight
	}
	if !c.selection.Complete() {
		return client.MatchRequest{}, ErrIncomplete
	}

	c.restoreLabel = c.trigger.Label
	c.trigger = Trigger{Label: LabelSearching, Enabled: false}
	c.findAnother = false
	c.state = StateAwaitingMatch
	return c.selection.Request(c.exclusions), nil
}

// CompleteMatch records the outcome of the request in flight.
//
// On the first successful match the form locks for the rest of the
// session. A successful "find another" leaves the lock as it is and
// re-enables the trigger. A failure opens the error modal and restores the
// trigger to its pre-submission label.
func (c *Controller) CompleteMatch(m *client.Match, err error) error {
	if c.state != StateAwaitingMatch {
		return ErrNoRequestInFlight
	}
	if err == nil && m == nil {
		err = errors.New("empty match response")
	}

	if err != nil {
		c.errModal.Show(client.UserMessage(err))
		c.trigger = Trigger{Label: c.restoreLabel, Enabled: true}
		if c.findAnother {
			c.state = StateMatchedLocked
		} else {
			c.state = StateIdle
		}
		return nil
	}

	c.match = m
	c.state = StateMatchedLocked
	if c.findAnother {
		c.trigger = Trigger{Label: c.restoreLabel, Enabled: true}
	} else {
		c.locked = true
		c.trigger = Trigger{Label: LabelMatchFound, Enabled: false}
	}
	return nil
}

// BeginBooking returns the calendar link of the shown match. The caller
// opens it and, after a short delay, calls PromptConfirmation.
func (c *Controller) BeginBooking() (string, error) {
	if c.state != StateMatchedLocked || c.match == nil {
		return "", ErrNoMatch
	}
	c.promptPending = true
	return c.match.CalendarLink, nil
}

// PromptConfirmation shows the "did you book?" prompt.
func (c *Controller) PromptConfirmation() error {
	if !c.promptPending || c.state != StateMatchedLocked || c.match == nil {
		return ErrNoPromptPending
	}
	c.promptPending = false
	c.confirmVisible = true
	c.state = StateAwaitingConfirmation
	return nil
}

// Confirm ends the session in the confirmed state and returns the match to
// report to the backend.
func (c *Controller) Confirm() (*client.Match, error) {
	if c.state != StateAwaitingConfirmation {
		return nil, ErrNotAwaitingConfirmation
	}
	c.confirmVisible = false
	c.state = StateConfirmed
	return c.match, nil
}

// Reject excludes the shown representative and returns the request for
// another match. It is also accepted after a failed "find another", when
// no match is shown, to retry with the current exclusions.
func (c *Controller) Reject() (client.MatchRequest, error) {
	switch {
	case c.state == StateAwaitingConfirmation:
	case c.state == StateMatchedLocked && c.match == nil:
	default:
		return client.MatchRequest{}, ErrNotAwaitingConfirmation
	}

	if c.match != nil {
		c.exclusions.Add(c.match.Name)
	}
	c.confirmVisible = false
	c.promptPending = false
	c.match = nil
	c.restoreLabel = LabelFind
	c.trigger = Trigger{Label: LabelSearchingAnother, Enabled: false}
	c.findAnother = true
	c.state = StateAwaitingMatch
	return c.selection.Request(c.exclusions), nil
}

// DismissError closes the error modal for a close or backdrop gesture.
func (c *Controller) DismissError(target ModalTarget) bool {
	return c.errModal.Dismiss(target)
}
