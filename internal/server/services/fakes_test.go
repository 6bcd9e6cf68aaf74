package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	actionsrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/actions"
	dashboardrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/dashboard"
	magiclinksrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/magiclinks"
	meetingsrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/meetings"
	pointsrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/points"
	refreshtokensrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/refreshtokens"
	systemsrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/systems"
	upgradesrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/upgrades"
	usersrepo "github.com/dmitrijs2005/waulty/internal/server/repositories/users"
)

// --- helpers ---

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func ptr[T any](v T) *T { return &v }

// memStore is an in-memory stand-in for the database shared by all fake
// repositories. failOn injects an error for a "repo.Method" key.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	tokens   map[string]*models.RefreshToken
	systems  map[string]*models.System
	points   map[string]*models.Point
	actions  map[string]*models.Action
	upgrades map[string]*models.Upgrade
	meetings map[string]*models.Meeting
	links    map[string]*models.MagicLink
	failOn   map[string]error

	dash *fakeDashboardRepo
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		tokens:   map[string]*models.RefreshToken{},
		systems:  map[string]*models.System{},
		points:   map[string]*models.Point{},
		actions:  map[string]*models.Action{},
		upgrades: map[string]*models.Upgrade{},
		meetings: map[string]*models.Meeting{},
		links:    map[string]*models.MagicLink{},
		failOn:   map[string]error{},
		dash:     &fakeDashboardRepo{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) fail(key string) error { return m.failOn[key] }

func (m *memStore) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository                 { return fakeUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return fakeTokens{m} }
func (m *memStore) Systems(dbx.DBTX) systemsrepo.Repository             { return fakeSystems{m} }
func (m *memStore) Points(dbx.DBTX) pointsrepo.Repository               { return fakePoints{m} }
func (m *memStore) Actions(dbx.DBTX) actionsrepo.Repository             { return fakeActions{m} }
func (m *memStore) Upgrades(dbx.DBTX) upgradesrepo.Repository           { return fakeUpgrades{m} }
func (m *memStore) Meetings(dbx.DBTX) meetingsrepo.Repository           { return fakeMeetings{m} }
func (m *memStore) MagicLinks(dbx.DBTX) magiclinksrepo.Repository       { return fakeLinks{m} }
func (m *memStore) Dashboard(dbx.DBTX) dashboardrepo.Repository         { return m.dash }

// --- users ---

type fakeUsers struct{ m *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, x := range f.m.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = f.m.nextID("user")
	f.m.users[c.ID] = &c
	return &c, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, u := range f.m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f fakeUsers) List(context.Context) ([]*models.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.m.users {
		out = append(out, u)
	}
	return out, nil
}

func (f fakeUsers) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	c := *u
	return &c, nil
}

func (f fakeUsers) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.users, id)
	return nil
}

func (f fakeUsers) Count(context.Context) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.fail("users.Count"); err != nil {
		return 0, err
	}
	return len(f.m.users), nil
}

// --- refresh tokens ---

type fakeTokens struct{ m *memStore }

func (f fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.fail("tokens.Create"); err != nil {
		return err
	}
	f.m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	t, ok := f.m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f fakeTokens) Delete(_ context.Context, token string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	delete(f.m.tokens, token)
	return nil
}

func (f fakeTokens) DeleteForUser(_ context.Context, userID string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for k, t := range f.m.tokens {
		if t.UserID == userID {
			delete(f.m.tokens, k)
		}
	}
	return nil
}

// --- systems ---

type fakeSystems struct{ m *memStore }

func (f fakeSystems) Create(_ context.Context, s *models.System) (*models.System, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := *s
	c.ID = f.m.nextID("sys")
	f.m.systems[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeSystems) GetByID(_ context.Context, id string) (*models.System, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	s, ok := f.m.systems[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	return &c, nil
}

func (f fakeSystems) ListByUser(_ context.Context, userID string, includeArchived bool) ([]*models.System, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.System{}
	for _, s := range f.m.systems {
		if s.UserID == userID && (includeArchived || !s.IsArchived) {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeSystems) Update(_ context.Context, id string, fl models.SystemFields) (*models.System, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	s, ok := f.m.systems[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if fl.Name != nil {
		s.Name = *fl.Name
	}
	if fl.Description != nil {
		s.Description = fl.Description
	}
	if fl.OwnerEmail != nil {
		s.OwnerEmail = fl.OwnerEmail
	}
	if fl.Status != nil {
		s.Status = *fl.Status
	}
	c := *s
	return &c, nil
}

func (f fakeSystems) SetArchived(_ context.Context, id string, archived bool) (*models.System, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	s, ok := f.m.systems[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.IsArchived = archived
	c := *s
	return &c, nil
}

func (f fakeSystems) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.systems[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.systems, id)
	return nil
}

// --- points ---

type fakePoints struct{ m *memStore }

func (f fakePoints) Create(_ context.Context, np models.NewPoint) (*models.Point, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p := &models.Point{
		ID:          f.m.nextID("point"),
		SystemID:    np.SystemID,
		MeetingID:   np.MeetingID,
		Title:       np.Title,
		Description: ptr(np.Description),
		Origin:      ptr(np.Origin),
		Priority:    np.Priority,
		Status:      models.PointNew,
	}
	f.m.points[p.ID] = p
	c := *p
	return &c, nil
}

func (f fakePoints) GetByID(_ context.Context, id string) (*models.Point, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.points[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (f fakePoints) GetByIDForUpdate(ctx context.Context, id string) (*models.Point, error) {
	return f.GetByID(ctx, id)
}

func (f fakePoints) list(keep func(*models.Point) bool) []*models.Point {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.Point{}
	for _, p := range f.m.points {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakePoints) ListBySystem(_ context.Context, systemID string) ([]*models.Point, error) {
	return f.list(func(p *models.Point) bool { return p.SystemID == systemID }), nil
}

func (f fakePoints) ListByMeeting(_ context.Context, meetingID string) ([]*models.Point, error) {
	return f.list(func(p *models.Point) bool { return p.MeetingID != nil && *p.MeetingID == meetingID }), nil
}

func (f fakePoints) Update(_ context.Context, id string, upd models.PointUpdate) (*models.Point, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.fail("points.Update"); err != nil {
		return nil, err
	}
	p, ok := f.m.points[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Priority != nil {
		p.Priority = *upd.Priority
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Relevance != nil {
		p.Relevance = upd.Relevance
	}
	if upd.Feasibility != nil {
		p.Feasibility = upd.Feasibility
	}
	if upd.ManagerComment != nil {
		p.ManagerComment = upd.ManagerComment
	}
	if upd.DecisionDate != nil {
		p.DecisionDate = upd.DecisionDate
	}
	c := *p
	return &c, nil
}

func (f fakePoints) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.points[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.points, id)
	return nil
}

// --- actions ---

type fakeActions struct{ m *memStore }

func (f fakeActions) Create(_ context.Context, na models.NewAction) (*models.Action, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, a := range f.m.actions {
		if a.PointID == na.PointID {
			return nil, common.ErrorAlreadyExists
		}
	}
	a := &models.Action{
		ID:         f.m.nextID("action"),
		PointID:    na.PointID,
		Title:      na.Title,
		AssignedTo: na.AssignedTo,
		StartDate:  na.StartDate,
		DueDate:    na.DueDate,
		Status:     models.ActionPending,
	}
	f.m.actions[a.ID] = a
	c := *a
	return &c, nil
}

func (f fakeActions) GetByID(_ context.Context, id string) (*models.Action, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.actions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

func (f fakeActions) ListByPointIDs(_ context.Context, ids []string) ([]*models.Action, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []*models.Action{}
	for _, a := range f.m.actions {
		if want[a.PointID] {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeActions) ListOpenBySystem(_ context.Context, systemID string) ([]*models.Action, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.Action{}
	for _, a := range f.m.actions {
		p := f.m.points[a.PointID]
		if p != nil && p.SystemID == systemID && a.Status != models.ActionDone {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeActions) Update(_ context.Context, id string, upd models.ActionUpdate) (*models.Action, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.actions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}
	if upd.AssignedTo != nil {
		a.AssignedTo = upd.AssignedTo
	}
	c := *a
	return &c, nil
}

// --- upgrades ---

type fakeUpgrades struct{ m *memStore }

func (f fakeUpgrades) Create(_ context.Context, nu models.NewUpgrade) (*models.Upgrade, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u := &models.Upgrade{
		ID:          f.m.nextID("upgrade"),
		SystemID:    nu.SystemID,
		Version:     nu.Version,
		Title:       nu.Title,
		Description: nu.Description,
		PlannedDate: nu.PlannedDate,
		Downtime:    nu.Downtime,
		Status:      models.UpgradePlanned,
	}
	f.m.upgrades[u.ID] = u
	c := *u
	return &c, nil
}

func (f fakeUpgrades) GetByID(_ context.Context, id string) (*models.Upgrade, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.upgrades[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f fakeUpgrades) GetByIDForUpdate(ctx context.Context, id string) (*models.Upgrade, error) {
	return f.GetByID(ctx, id)
}

func (f fakeUpgrades) ListBySystem(_ context.Context, systemID string) ([]*models.Upgrade, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.Upgrade{}
	for _, u := range f.m.upgrades {
		if u.SystemID == systemID {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeUpgrades) Update(_ context.Context, id string, upd models.UpgradeUpdate) (*models.Upgrade, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.upgrades[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		u.Title = *upd.Title
	}
	if upd.Status != nil {
		u.Status = *upd.Status
	}
	if upd.DecisionDate != nil {
		u.DecisionDate = upd.DecisionDate
	}
	c := *u
	return &c, nil
}

func (f fakeUpgrades) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.upgrades[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.upgrades, id)
	return nil
}

// --- meetings ---

type fakeMeetings struct{ m *memStore }

func (f fakeMeetings) Create(_ context.Context, nm models.NewMeeting) (*models.Meeting, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	mt := &models.Meeting{
		ID:        f.m.nextID("meeting"),
		SystemID:  nm.SystemID,
		Title:     nm.Title,
		Date:      nm.Date,
		Agenda:    nm.Agenda,
		Attendees: models.Attendees{},
	}
	f.m.meetings[mt.ID] = mt
	c := *mt
	return &c, nil
}

func (f fakeMeetings) GetByID(_ context.Context, id string) (*models.Meeting, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	mt, ok := f.m.meetings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *mt
	return &c, nil
}

func (f fakeMeetings) ListBySystem(_ context.Context, systemID string) ([]*models.Meeting, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := []*models.Meeting{}
	for _, mt := range f.m.meetings {
		if mt.SystemID == systemID {
			c := *mt
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeMeetings) Update(_ context.Context, id string, upd models.MeetingUpdate) (*models.Meeting, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	mt, ok := f.m.meetings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		mt.Title = *upd.Title
	}
	if upd.Summary != nil {
		mt.Summary = upd.Summary
	}
	if upd.Attendees != nil {
		mt.Attendees = *upd.Attendees
	}
	c := *mt
	return &c, nil
}

func (f fakeMeetings) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.meetings[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.meetings, id)
	return nil
}

// --- magic links ---

type fakeLinks struct{ m *memStore }

func (f fakeLinks) Create(_ context.Context, l *models.MagicLink) (*models.MagicLink, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := *l
	c.ID = f.m.nextID("link")
	f.m.links[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeLinks) GetByToken(_ context.Context, token string) (*models.MagicLink, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, l := range f.m.links {
		if l.Token == token {
			c := *l
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeLinks) Claim(_ context.Context, id string, now time.Time) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	l, ok := f.m.links[id]
	if !ok || l.Used || !l.ExpiresAt.After(now) {
		return common.ErrInvalidLink
	}
	l.Used = true
	return nil
}

func (f fakeLinks) InvalidateForContext(_ context.Context, ct models.ContextType, contextID string) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var n int64
	for _, l := range f.m.links {
		if l.ContextType == ct && l.ContextID == contextID && !l.Used {
			l.Used = true
			n++
		}
	}
	return n, nil
}

// --- dashboard ---

type fakeDashboardRepo struct {
	systems     int
	points      map[models.PointStatus]int
	doneSince   *time.Time
	upgrades    int
	meetings    []*models.Meeting
	recent      []*models.Point
	err         error
	mu          sync.Mutex
	meetingFrom time.Time
}

func (f *fakeDashboardRepo) CountActiveSystems(context.Context, string) (int, error) {
	return f.systems, f.err
}

func (f *fakeDashboardRepo) CountPoints(_ context.Context, _ string, statuses []models.PointStatus, since *time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if since != nil {
		f.doneSince = since
	}
	n := 0
	for _, s := range statuses {
		n += f.points[s]
	}
	return n, nil
}

func (f *fakeDashboardRepo) CountUpgrades(context.Context, string, []models.UpgradeStatus) (int, error) {
	return f.upgrades, nil
}

func (f *fakeDashboardRepo) UpcomingMeetings(_ context.Context, _ string, from time.Time, _ uint64) ([]*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meetingFrom = from
	return f.meetings, nil
}

func (f *fakeDashboardRepo) RecentPoints(context.Context, string, uint64) ([]*models.Point, error) {
	return f.recent, nil
}
