package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/server/auth"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"
)

var (
	owner   = &auth.Claims{ID: "user-owner", Role: models.RoleManager}
	other   = &auth.Claims{ID: "user-other", Role: models.RoleManager}
	admin   = &auth.Claims{ID: "user-admin", Role: models.RoleAdmin}
	bgCtx   = context.Background()
	nowTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func seedSystem(t *testing.T, store *memStore, userID string) *models.System {
	t.Helper()
	s, err := fakeSystems{store}.Create(bgCtx, &models.System{Name: "Ekonomi", Status: models.SystemActive, UserID: userID})
	require.NoError(t, err)
	return s
}

func seedPoint(t *testing.T, store *memStore, systemID string, status models.PointStatus) *models.Point {
	t.Helper()
	p, err := fakePoints{store}.Create(bgCtx, models.NewPoint{SystemID: systemID, Title: "T", Description: "D", Origin: "O", Priority: models.PriorityLow})
	require.NoError(t, err)
	store.points[p.ID].Status = status
	p.Status = status
	return p
}

func TestSystemService_CreateDefaultsAndValidation(t *testing.T) {
	store := newMemStore()
	s := NewSystemService(nil, store)

	sys, err := s.Create(bgCtx, owner, models.SystemFields{Name: ptr("Ekonomi")})
	require.NoError(t, err)
	assert.Equal(t, models.SystemActive, sys.Status)
	assert.Equal(t, owner.ID, sys.UserID)

	_, err = s.Create(bgCtx, owner, models.SystemFields{Name: ptr("  ")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	bad := models.SystemStatus("GONE")
	_, err = s.Create(bgCtx, owner, models.SystemFields{Name: ptr("X"), Status: &bad})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestSystemService_OwnerOrAdmin(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	s := NewSystemService(nil, store)

	_, err := s.Get(bgCtx, other, sys.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.ErrorIs(t, s.Delete(bgCtx, other, sys.ID), common.ErrorForbidden)

	_, err = s.Update(bgCtx, admin, sys.ID, models.SystemFields{Name: ptr("Renamed")})
	require.NoError(t, err)

	_, err = s.Get(bgCtx, owner, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSystemService_GetDetailAttachesActions(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p1 := seedPoint(t, store, sys.ID, models.PointApproved)
	seedPoint(t, store, sys.ID, models.PointNew)
	_, err := fakeActions{store}.Create(bgCtx, models.NewAction{PointID: p1.ID, Title: "Do"})
	require.NoError(t, err)
	_, err = fakeMeetings{store}.Create(bgCtx, models.NewMeeting{SystemID: sys.ID, Title: "M", Date: nowTime})
	require.NoError(t, err)

	d, err := NewSystemService(nil, store).Get(bgCtx, owner, sys.ID)
	require.NoError(t, err)
	require.Len(t, d.Points, 2)
	assert.NotNil(t, d.Points[0].Action)
	assert.Nil(t, d.Points[1].Action)
	assert.Len(t, d.Meetings, 1)
	assert.NotNil(t, d.Upgrades)
}

func TestSystemService_ToggleArchiveAndList(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	s := NewSystemService(nil, store)

	got, err := s.ToggleArchive(bgCtx, owner, sys.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	list, err := s.List(bgCtx, owner, false)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.List(bgCtx, owner, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err = s.ToggleArchive(bgCtx, owner, sys.ID)
	require.NoError(t, err)
	assert.False(t, got.IsArchived)
}

func TestPointService_Create(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	s := NewPointService(nil, store, workflow.Permissive)

	p, err := s.Create(bgCtx, models.NewPoint{SystemID: sys.ID, MeetingID: ptr(""), Title: "T", Description: "D", Origin: "O", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, models.PointNew, p.Status)
	assert.Nil(t, p.MeetingID)

	_, err = s.Create(bgCtx, models.NewPoint{SystemID: sys.ID, Title: "T", Description: "D", Origin: "O", Priority: "URGENT"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(bgCtx, models.NewPoint{SystemID: sys.ID, Title: "T", Origin: "O", Priority: models.PriorityLow})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(bgCtx, models.NewPoint{SystemID: "missing", Title: "T", Description: "D", Origin: "O", Priority: models.PriorityLow})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Create(bgCtx, models.NewPoint{SystemID: sys.ID, MeetingID: ptr("missing"), Title: "T", Description: "D", Origin: "O", Priority: models.PriorityLow})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPointService_UpdatePolicies(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p := seedPoint(t, store, sys.ID, models.PointNew)

	done := models.PointDone
	_, err := NewPointService(nil, store, workflow.Strict).Update(bgCtx, p.ID, models.PointUpdate{Status: &done})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := NewPointService(nil, store, workflow.Permissive).Update(bgCtx, p.ID, models.PointUpdate{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.PointDone, got.Status)

	bogus := models.PointStatus("MAYBE")
	_, err = NewPointService(nil, store, workflow.Permissive).Update(bgCtx, p.ID, models.PointUpdate{Status: &bogus})
	assert.ErrorIs(t, err, common.ErrorValidation)

	feas := models.Feasibility("TRIVIAL")
	_, err = NewPointService(nil, store, workflow.Permissive).Update(bgCtx, p.ID, models.PointUpdate{Feasibility: &feas})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPointService_DeleteGuardOnlyWhenStrict(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p := seedPoint(t, store, sys.ID, models.PointApproved)

	err := NewPointService(nil, store, workflow.Strict).Delete(bgCtx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotDeletable)

	require.NoError(t, NewPointService(nil, store, workflow.Permissive).Delete(bgCtx, p.ID))
	assert.ErrorIs(t, NewPointService(nil, store, workflow.Permissive).Delete(bgCtx, p.ID), common.ErrorNotFound)
}

func TestActionService_CreateCascades(t *testing.T) {
	tests := []struct {
		name   string
		status models.PointStatus
		want   models.PointStatus
	}{
		{"approved moves to in progress", models.PointApproved, models.PointInProgress},
		{"new moves to in progress", models.PointNew, models.PointInProgress},
		{"done is kept", models.PointDone, models.PointDone},
		{"rejected is kept", models.PointRejected, models.PointRejected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			sys := seedSystem(t, store, owner.ID)
			p := seedPoint(t, store, sys.ID, tc.status)
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectCommit()

			a, err := NewActionService(db, store, workflow.Permissive).Create(bgCtx, models.NewAction{PointID: p.ID, Title: "Do it"})
			require.NoError(t, err)
			assert.Equal(t, models.ActionPending, a.Status)
			assert.Equal(t, tc.want, store.points[p.ID].Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActionService_CreateDuplicateAndStrict(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p := seedPoint(t, store, sys.ID, models.PointApproved)
	db, mock := newMockDB(t)
	s := NewActionService(db, store, workflow.Permissive)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := s.Create(bgCtx, models.NewAction{PointID: p.ID, Title: "A"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = s.Create(bgCtx, models.NewAction{PointID: p.ID, Title: "B"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	fresh := seedPoint(t, store, sys.ID, models.PointNew)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = NewActionService(db, store, workflow.Strict).Create(bgCtx, models.NewAction{PointID: fresh.ID, Title: "C"})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	_, err = s.Create(bgCtx, models.NewAction{PointID: p.ID})
	assert.ErrorIs(t, err, common.ErrorValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActionService_UpdateCascadesToPoint(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p := seedPoint(t, store, sys.ID, models.PointInProgress)
	a, err := fakeActions{store}.Create(bgCtx, models.NewAction{PointID: p.ID, Title: "A"})
	require.NoError(t, err)
	db, mock := newMockDB(t)
	s := NewActionService(db, store, workflow.Permissive)

	mock.ExpectBegin()
	mock.ExpectCommit()
	done := models.ActionDone
	got, err := s.Update(bgCtx, a.ID, models.ActionUpdate{Status: &done, Notes: ptr("klart")})
	require.NoError(t, err)
	assert.Equal(t, models.ActionDone, got.Status)
	assert.Equal(t, models.PointDone, store.points[p.ID].Status)

	mock.ExpectBegin()
	mock.ExpectCommit()
	pending := models.ActionPending
	_, err = s.Update(bgCtx, a.ID, models.ActionUpdate{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.PointInProgress, store.points[p.ID].Status)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = s.Update(bgCtx, a.ID, models.ActionUpdate{Notes: ptr("only notes")})
	require.NoError(t, err)
	assert.Equal(t, models.PointInProgress, store.points[p.ID].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActionService_UpdateRollsBackWhenCascadeFails(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	p := seedPoint(t, store, sys.ID, models.PointInProgress)
	a, err := fakeActions{store}.Create(bgCtx, models.NewAction{PointID: p.ID, Title: "A"})
	require.NoError(t, err)
	store.failOn["points.Update"] = errors.New("boom")

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	done := models.ActionDone
	_, err = NewActionService(db, store, workflow.Permissive).Update(bgCtx, a.ID, models.ActionUpdate{Status: &done})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpgradeService(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	s := NewUpgradeService(nil, store, workflow.Strict)

	u, err := s.Create(bgCtx, models.NewUpgrade{SystemID: sys.ID, Version: "2.0", Title: "Major", Downtime: true})
	require.NoError(t, err)
	assert.Equal(t, models.UpgradePlanned, u.Status)

	_, err = s.Create(bgCtx, models.NewUpgrade{SystemID: sys.ID, Title: "No version"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	done := models.UpgradeDone
	_, err = s.Update(bgCtx, u.ID, models.UpgradeUpdate{Status: &done})
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := NewUpgradeService(nil, store, workflow.Permissive).Update(bgCtx, u.ID, models.UpgradeUpdate{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.UpgradeDone, got.Status)

	require.NoError(t, s.Delete(bgCtx, u.ID))
	assert.ErrorIs(t, s.Delete(bgCtx, u.ID), common.ErrorNotFound)
}

func TestMeetingService(t *testing.T) {
	store := newMemStore()
	sys := seedSystem(t, store, owner.ID)
	s := NewMeetingService(nil, store)

	m, err := s.Create(bgCtx, models.NewMeeting{SystemID: sys.ID, Title: "Förvaltningsmöte", Date: nowTime})
	require.NoError(t, err)
	require.NotNil(t, m.Agenda)
	assert.Equal(t, DefaultAgenda, *m.Agenda)

	p := seedPoint(t, store, sys.ID, models.PointNew)
	store.points[p.ID].MeetingID = &m.ID

	d, err := s.Get(bgCtx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.SystemRef{ID: sys.ID, Name: "Ekonomi"}, d.System)
	require.Len(t, d.Points, 1)
	assert.Equal(t, p.ID, d.Points[0].ID)

	att := models.Attendees{"Anna", "Bo"}
	got, err := s.Update(bgCtx, m.ID, models.MeetingUpdate{Summary: ptr("ok"), Attendees: &att})
	require.NoError(t, err)
	assert.Equal(t, att, got.Attendees)

	_, err = s.Create(bgCtx, models.NewMeeting{SystemID: sys.ID, Title: "No date"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, s.Delete(bgCtx, m.ID))
	_, err = s.Get(bgCtx, m.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
