package client

import (
	"encoding/json"
)

// Backend endpoints
const (
	PathCreateEvent    = "/eshopbox_create_event"
	PathConfirmBooking = "/confirm_booking"
)

// MatchRequest is the body sent to the matching endpoint.
// Exclude is a comma-joined list of representative names, possibly empty.
type MatchRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Volume   string `json:"volume"`
	Service  string `json:"service"`
	Exclude  string `json:"exclude"`
}

// Match is the representative proposed by the backend.
//
// The backend may return more fields than the three the client reads
// (date, team, ...). The original object is kept and sent back unchanged
// when the booking is confirmed.
type Match struct {
	Name         string
	Email        string
	CalendarLink string

	raw json.RawMessage
}

type matchFields struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CalendarLink string `json:"calendar_link"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	var f matchFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	m.Name = f.Name
	m.Email = f.Email
	m.CalendarLink = f.CalendarLink
	m.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (m Match) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return json.Marshal(matchFields{
		Name:         m.Name,
		Email:        m.Email,
		CalendarLink: m.CalendarLink,
	})
}

// Extra returns a string field of the original response that the client
// does not model, such as "team".
func (m Match) Extra(key string) string {
	if len(m.raw) == 0 {
		return ""
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(m.raw, &all); err != nil {
		return ""
	}
	v, ok := all[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// ErrorResponse is the optional body of a failed matching request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConfirmResponse is the body returned by the confirmation endpoint.
type ConfirmResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
