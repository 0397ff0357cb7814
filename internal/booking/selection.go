package booking

import (
	"strings"

	"expertbook/internal/client"
)

// Field identifies one input of the scheduling form.
type Field int

const (
	FieldDate Field = iota
	FieldTimeSlot
	FieldVolume
	FieldService
)

// Fields lists the inputs in form order.
var Fields = []Field{FieldDate, FieldTimeSlot, FieldVolume, FieldService}

func (f Field) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldTimeSlot:
		return "time_slot"
	case FieldVolume:
		return "volume"
	case FieldService:
		return "service"
	}
	return "unknown"
}

// Selection is what the user has chosen on the form.
type Selection struct {
	Date     string
	TimeSlot string
	Volume   string
	Service  string
}

// Get returns the value of one field.
func (s Selection) Get(f Field) string {
	switch f {
	case FieldDate:
		return s.Date
	case FieldTimeSlot:
		return s.TimeSlot
	case FieldVolume:
		return s.Volume
	case FieldService:
		return s.Service
	}
	return ""
}

func (s *Selection) set(f Field, v string) {
	switch f {
	case FieldDate:
		s.Date = v
	case FieldTimeSlot:
		s.TimeSlot = v
	case FieldVolume:
		s.Volume = v
	case FieldService:
		s.Service = v
	}
}

// Complete reports whether every field holds a value.
func (s Selection) Complete() bool {
	for _, f := range Fields {
		if strings.TrimSpace(s.Get(f)) == "" {
			return false
		}
	}
	return true
}

// Missing returns the empty fields in form order.
func (s Selection) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if strings.TrimSpace(s.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Request builds the matching request body.
func (s Selection) Request(exclusions ExclusionSet) client.MatchRequest {
	return client.MatchRequest{
		Date:     s.Date,
		TimeSlot: s.TimeSlot,
		Volume:   s.Volume,
		Service:  s.Service,
		Exclude:  exclusions.String(),
	}
}
