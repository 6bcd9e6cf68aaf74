// Package workflow holds the status machines of Points, Upgrades and Actions
// and the rules that tie them together.
package workflow

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/server/models"
)

// Policy decides whether the transition tables are enforced.
type Policy int

const (
	// Permissive accepts any valid status over any current status.
	Permissive Policy = iota
	// Strict only accepts transitions listed in the tables.
	Strict
)

// PolicyFor returns Strict when strict is set.
func PolicyFor(strict bool) Policy {
	if strict {
		return Strict
	}
	return Permissive
}

var pointTransitions = map[models.PointStatus][]models.PointStatus{
	models.PointNew:             {models.PointAssessed, models.PointRecommended, models.PointPendingApproval},
	models.PointAssessed:        {models.PointRecommended, models.PointPendingApproval},
	models.PointRecommended:     {models.PointPendingApproval},
	models.PointPendingApproval: {models.PointApproved, models.PointRejected},
	models.PointApproved:        {models.PointInProgress, models.PointDone},
	models.PointInProgress:      {models.PointDone},
	models.PointRejected:        {},
	models.PointDone:            {},
}

var upgradeTransitions = map[models.UpgradeStatus][]models.UpgradeStatus{
	models.UpgradePlanned:         {models.UpgradePendingApproval},
	models.UpgradePendingApproval: {models.UpgradeApproved, models.UpgradeRejected},
	models.UpgradeApproved:        {models.UpgradeDone},
	models.UpgradeRejected:        {},
	models.UpgradeDone:            {},
}

var actionTransitions = map[models.ActionStatus][]models.ActionStatus{
	models.ActionPending:    {models.ActionInProgress, models.ActionDone},
	models.ActionInProgress: {models.ActionPending, models.ActionDone},
	models.ActionDone:       {models.ActionPending, models.ActionInProgress},
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	if from == to {
		return true
	}
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidatePoint checks that a Point may move from one status to another.
func (p Policy) ValidatePoint(from, to models.PointStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown point status %q", common.ErrorValidation, to)
	}
	if p == Strict && !allowed(pointTransitions, from, to) {
		return fmt.Errorf("%w: point %s -> %s", common.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateUpgrade checks that an Upgrade may move from one status to another.
func (p Policy) ValidateUpgrade(from, to models.UpgradeStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown upgrade status %q", common.ErrorValidation, to)
	}
	if p == Strict && !allowed(upgradeTransitions, from, to) {
		return fmt.Errorf("%w: upgrade %s -> %s", common.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateAction checks that an Action may move from one status to another.
func (p Policy) ValidateAction(from, to models.ActionStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown action status %q", common.ErrorValidation, to)
	}
	if p == Strict && !allowed(actionTransitions, from, to) {
		return fmt.Errorf("%w: action %s -> %s", common.ErrInvalidTransition, from, to)
	}
	return nil
}

// CanRequestPointDecision reports whether a decision may be requested for a
// Point in the given status.
func (p Policy) CanRequestPointDecision(from models.PointStatus) error {
	return p.ValidatePoint(from, models.PointPendingApproval)
}

// CanRequestUpgradeDecision is the Upgrade counterpart of
// CanRequestPointDecision.
func (p Policy) CanRequestUpgradeDecision(from models.UpgradeStatus) error {
	return p.ValidateUpgrade(from, models.UpgradePendingApproval)
}

// CanDeletePoint returns ErrNotDeletable when the policy is Strict and the
// Point has already been decided on.
func (p Policy) CanDeletePoint(status models.PointStatus) error {
	if p == Strict && !PointDeletable(status) {
		return fmt.Errorf("%w: point is %s", common.ErrNotDeletable, status)
	}
	return nil
}

// CanStartAction checks that work may start on a Point in the given status.
// Under Strict only approved or already running points qualify.
func (p Policy) CanStartAction(pointStatus models.PointStatus) error {
	if p != Strict {
		return nil
	}
	if pointStatus == models.PointApproved || pointStatus == models.PointInProgress {
		return nil
	}
	return fmt.Errorf("%w: point is %s", common.ErrInvalidTransition, pointStatus)
}

// DecidePoint maps a submitted decision onto a Point status. Only APPROVED
// approves; every other value rejects.
func DecidePoint(decision string) models.PointStatus {
	if decision == string(models.PointApproved) {
		return models.PointApproved
	}
	return models.PointRejected
}

// DecideUpgrade maps a submitted decision onto an Upgrade status.
func DecideUpgrade(decision string) (models.UpgradeStatus, error) {
	switch models.UpgradeStatus(decision) {
	case models.UpgradeApproved, models.UpgradeRejected:
		return models.UpgradeStatus(decision), nil
	}
	return "", fmt.Errorf("%w: decision must be APPROVED or REJECTED", common.ErrorValidation)
}

// PointStatusOnActionCreated is the Point status after an Action is created
// for it. Finished points keep their status.
func PointStatusOnActionCreated(current models.PointStatus) models.PointStatus {
	if current == models.PointDone || current == models.PointRejected {
		return current
	}
	return models.PointInProgress
}

// PointStatusForAction is the Point status implied by its Action's status.
func PointStatusForAction(s models.ActionStatus) models.PointStatus {
	if s == models.ActionDone {
		return models.PointDone
	}
	return models.PointInProgress
}

// PointDeletable reports whether a Point has not been decided on yet.
func PointDeletable(s models.PointStatus) bool {
	switch s {
	case models.PointApproved, models.PointRejected, models.PointInProgress, models.PointDone:
		return false
	}
	return true
}

// ClosedPointStatuses are the terminal Point states. Every other Point counts
// as open.
var ClosedPointStatuses = []models.PointStatus{models.PointDone, models.PointRejected}

// IsOpenPoint reports whether a Point still needs attention.
func IsOpenPoint(s models.PointStatus) bool {
	return !slices.Contains(ClosedPointStatuses, s)
}
