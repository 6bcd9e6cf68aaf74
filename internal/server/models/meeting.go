package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Meeting is a governance meeting held for a System.
type Meeting struct {
	ID        string    `json:"id" db:"id"`
	SystemID  string    `json:"systemId" db:"system_id"`
	Title     string    `json:"title" db:"title"`
	Date      time.Time `json:"date" db:"date"`
	Agenda    *string   `json:"agenda" db:"agenda"`
	Summary   *string   `json:"summary" db:"summary"`
	Attendees Attendees `json:"attendees" db:"attendees"`

	System *SystemRef `json:"system,omitempty" db:"-"`
}

// MeetingDetail is a Meeting with the Points raised in it.
type MeetingDetail struct {
	Meeting
	Points []*Point `json:"points"`
}

// NewMeeting holds the fields needed to schedule a Meeting.
type NewMeeting struct {
	SystemID string
	Title    string
	Date     time.Time
	Agenda   *string
}

// MeetingUpdate is a partial update; nil fields are left untouched.
type MeetingUpdate struct {
	Title     *string
	Date      *time.Time
	Agenda    *string
	Summary   *string
	Attendees *Attendees
}

// Attendees is the ordered list of attendee names, stored as a JSON array.
type Attendees []string

func (a Attendees) Value() (driver.Value, error) {
	if a == nil {
		a = Attendees{}
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attendees) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attendees{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("attendees: unsupported type %T", src)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("attendees: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*a = list
	return nil
}
