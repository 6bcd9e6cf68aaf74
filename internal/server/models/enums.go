// Package models defines the server-side data models persisted in the
// database and exchanged over the JSON API.
package models

// Role is the access level of a User.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

func (r Role) IsValid() bool { return r == RoleAdmin || r == RoleManager }

// SystemStatus is the lifecycle state of a governed System.
type SystemStatus string

const (
	SystemActive      SystemStatus = "ACTIVE"
	SystemMaintenance SystemStatus = "MAINTENANCE"
	SystemRetired     SystemStatus = "RETIRED"
)

func (s SystemStatus) IsValid() bool {
	switch s {
	case SystemActive, SystemMaintenance, SystemRetired:
		return true
	}
	return false
}

// Priority ranks a Point.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Feasibility is the assessed implementation effort of a Point.
type Feasibility string

const (
	FeasibilityEasy   Feasibility = "EASY"
	FeasibilityMedium Feasibility = "MEDIUM"
	FeasibilityHard   Feasibility = "HARD"
)

func (f Feasibility) IsValid() bool {
	switch f {
	case FeasibilityEasy, FeasibilityMedium, FeasibilityHard:
		return true
	}
	return false
}

// PointStatus is the primary workflow state of a Point.
type PointStatus string

const (
	PointNew             PointStatus = "NEW"
	PointAssessed        PointStatus = "ASSESSED"
	PointRecommended     PointStatus = "RECOMMENDED"
	PointPendingApproval PointStatus = "PENDING_APPROVAL"
	PointApproved        PointStatus = "APPROVED"
	PointRejected        PointStatus = "REJECTED"
	PointInProgress      PointStatus = "IN_PROGRESS"
	PointDone            PointStatus = "DONE"
)

func (s PointStatus) IsValid() bool {
	switch s {
	case PointNew, PointAssessed, PointRecommended, PointPendingApproval,
		PointApproved, PointRejected, PointInProgress, PointDone:
		return true
	}
	return false
}

// ActionStatus is the execution state of an Action.
type ActionStatus string

const (
	ActionPending    ActionStatus = "PENDING"
	ActionInProgress ActionStatus = "IN_PROGRESS"
	ActionDone       ActionStatus = "DONE"
)

func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionPending, ActionInProgress, ActionDone:
		return true
	}
	return false
}

// UpgradeStatus is the workflow state of an Upgrade.
type UpgradeStatus string

const (
	UpgradePlanned         UpgradeStatus = "PLANNED"
	UpgradePendingApproval UpgradeStatus = "PENDING_APPROVAL"
	UpgradeApproved        UpgradeStatus = "APPROVED"
	UpgradeRejected        UpgradeStatus = "REJECTED"
	UpgradeDone            UpgradeStatus = "DONE"
)

func (s UpgradeStatus) IsValid() bool {
	switch s {
	case UpgradePlanned, UpgradePendingApproval, UpgradeApproved, UpgradeRejected, UpgradeDone:
		return true
	}
	return false
}

// ContextType tells which entity a MagicLink decides on.
type ContextType string

const (
	ContextPointDecision   ContextType = "POINT_DECISION"
	ContextUpgradeDecision ContextType = "UPGRADE_DECISION"
)

func (c ContextType) IsValid() bool {
	return c == ContextPointDecision || c == ContextUpgradeDecision
}

// DecisionTarget is the entity kind named in a decision request and echoed
// back as dataType when the decision page loads.
type DecisionTarget string

const (
	TargetPoint   DecisionTarget = "POINT"
	TargetUpgrade DecisionTarget = "UPGRADE"
)

// ContextType maps the target to the MagicLink context it produces. Anything
// other than UPGRADE is a point decision.
func (t DecisionTarget) ContextType() ContextType {
	if t == TargetUpgrade {
		return ContextUpgradeDecision
	}
	return ContextPointDecision
}
