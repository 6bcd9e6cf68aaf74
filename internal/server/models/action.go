package models

import "time"

// Action is the execution work item derived from an approved Point.
type Action struct {
	ID          string       `json:"id" db:"id"`
	PointID     string       `json:"pointId" db:"point_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description" db:"description"`
	Notes       *string      `json:"notes" db:"notes"`
	AssignedTo  *string      `json:"assignedTo" db:"assigned_to"`
	StartDate   *time.Time   `json:"startDate" db:"start_date"`
	DueDate     *time.Time   `json:"dueDate" db:"due_date"`
	Status      ActionStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`

	Point *Point `json:"point,omitempty" db:"-"`
}

// NewAction holds the fields needed to start executing a Point.
type NewAction struct {
	PointID    string
	Title      string
	AssignedTo *string
	StartDate  *time.Time
	DueDate    *time.Time
}

// ActionUpdate is a partial update; nil fields are left untouched.
type ActionUpdate struct {
	Status      *ActionStatus
	Notes       *string
	AssignedTo  *string
	DueDate     *time.Time
	Description *string
}
