package models

import "time"

// System is the governed application. It owns Points, Meetings and Upgrades.
type System struct {
	ID              string       `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Description     *string      `json:"description" db:"description"`
	OwnerName       *string      `json:"ownerName" db:"owner_name"`
	OwnerEmail      *string      `json:"ownerEmail" db:"owner_email"`
	OwnerUsername   *string      `json:"ownerUsername" db:"owner_username"`
	ManagerName     *string      `json:"managerName" db:"manager_name"`
	ManagerUsername *string      `json:"managerUsername" db:"manager_username"`
	ResourceGroup   *string      `json:"resourceGroup" db:"resource_group"`
	Status          SystemStatus `json:"status" db:"status"`
	IsArchived      bool         `json:"isArchived" db:"is_archived"`
	UserID          string       `json:"userId" db:"user_id"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`

	// OpenPoints is filled by list queries.
	OpenPoints int `json:"openPoints" db:"open_points"`
}

// SystemDetail is a System with its children, as shown on the detail page.
type SystemDetail struct {
	System
	Points   []*Point   `json:"points"`
	Meetings []*Meeting `json:"meetings"`
	Upgrades []*Upgrade `json:"upgrades"`
}

// SystemFields are the editable descriptive fields of a System.
type SystemFields struct {
	Name            *string
	Description     *string
	OwnerName       *string
	OwnerEmail      *string
	OwnerUsername   *string
	ManagerName     *string
	ManagerUsername *string
	ResourceGroup   *string
	Status          *SystemStatus
}

// SystemRef is the short form of a System embedded in dashboard rows.
type SystemRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
