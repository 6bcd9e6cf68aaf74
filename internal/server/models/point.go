package models

import "time"

// Point is a need or proposal raised against a System.
type Point struct {
	ID             string       `json:"id" db:"id"`
	SystemID       string       `json:"systemId" db:"system_id"`
	MeetingID      *string      `json:"meetingId" db:"meeting_id"`
	Title          string       `json:"title" db:"title"`
	Description    *string      `json:"description" db:"description"`
	Origin         *string      `json:"origin" db:"origin"`
	Priority       Priority     `json:"priority" db:"priority"`
	Status         PointStatus  `json:"status" db:"status"`
	Relevance      *int         `json:"relevance" db:"relevance"`
	Feasibility    *Feasibility `json:"feasibility" db:"feasibility"`
	Benefit        *string      `json:"benefit" db:"benefit"`
	Risk           *string      `json:"risk" db:"risk"`
	CostEstimate   *string      `json:"costEstimate" db:"cost_estimate"`
	ManagerComment *string      `json:"managerComment" db:"manager_comment"`
	DecisionDate   *time.Time   `json:"decisionDate" db:"decision_date"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`

	Action *Action    `json:"action,omitempty" db:"-"`
	System *SystemRef `json:"system,omitempty" db:"-"`
}

// NewPoint holds the fields required to raise a Point.
type NewPoint struct {
	SystemID    string
	MeetingID   *string
	Title       string
	Description string
	Origin      string
	Priority    Priority
}

// PointUpdate is a partial update; nil fields are left untouched.
type PointUpdate struct {
	MeetingID      *string
	Title          *string
	Description    *string
	Origin         *string
	Priority       *Priority
	Status         *PointStatus
	Relevance      *int
	Feasibility    *Feasibility
	Benefit        *string
	Risk           *string
	CostEstimate   *string
	ManagerComment *string
	DecisionDate   *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u PointUpdate) IsEmpty() bool {
	return u == PointUpdate{}
}
