package models

import "time"

// Upgrade is a planned version change of a System.
type Upgrade struct {
	ID           string        `json:"id" db:"id"`
	SystemID     string        `json:"systemId" db:"system_id"`
	Version      string        `json:"version" db:"version"`
	Title        string        `json:"title" db:"title"`
	Description  *string       `json:"description" db:"description"`
	PlannedDate  *time.Time    `json:"plannedDate" db:"planned_date"`
	Downtime     bool          `json:"downtime" db:"downtime"`
	Status       UpgradeStatus `json:"status" db:"status"`
	DecisionDate *time.Time    `json:"decisionDate" db:"decision_date"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
}

type NewUpgrade struct {
	SystemID    string
	Version     string
	Title       string
	Description *string
	PlannedDate *time.Time
	Downtime    bool
}

// UpgradeUpdate is a partial update; nil fields are left untouched.
type UpgradeUpdate struct {
	Version      *string
	Title        *string
	Description  *string
	PlannedDate  *time.Time
	Downtime     *bool
	Status       *UpgradeStatus
	DecisionDate *time.Time
}
