package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/server/auth"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
)

// SystemService manages the systems owned by the calling user. Reads and
// writes of a single system are limited to its owner and to admins.
type SystemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSystemService(db *sql.DB, m repomanager.RepositoryManager) *SystemService {
	return &SystemService{db: db, repomanager: m}
}

func (s *SystemService) List(ctx context.Context, caller *auth.Claims, showArchived bool) ([]*models.System, error) {
	return s.repomanager.Systems(s.db).ListByUser(ctx, caller.ID, showArchived)
}

// Get returns the system with its points (each with its action), meetings
// and upgrades.
func (s *SystemService) Get(ctx context.Context, caller *auth.Claims, id string) (*models.SystemDetail, error) {
	sys, err := s.authorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	points, err := s.repomanager.Points(s.db).ListBySystem(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.ID)
	}
	acts, err := s.repomanager.Actions(s.db).ListByPointIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPoint := make(map[string]*models.Action, len(acts))
	for _, a := range acts {
		byPoint[a.PointID] = a
	}
	for _, p := range points {
		p.Action = byPoint[p.ID]
	}

	meetings, err := s.repomanager.Meetings(s.db).ListBySystem(ctx, id)
	if err != nil {
		return nil, err
	}
	upgrades, err := s.repomanager.Upgrades(s.db).ListBySystem(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.SystemDetail{System: *sys, Points: points, Meetings: meetings, Upgrades: upgrades}, nil
}

func (s *SystemService) Create(ctx context.Context, caller *auth.Claims, f models.SystemFields) (*models.System, error) {
	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	status := models.SystemActive
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown system status %q", common.ErrorValidation, *f.Status)
		}
		status = *f.Status
	}

	return s.repomanager.Systems(s.db).Create(ctx, &models.System{
		Name:            *f.Name,
		Description:     f.Description,
		OwnerName:       f.OwnerName,
		OwnerEmail:      f.OwnerEmail,
		OwnerUsername:   f.OwnerUsername,
		ManagerName:     f.ManagerName,
		ManagerUsername: f.ManagerUsername,
		ResourceGroup:   f.ResourceGroup,
		Status:          status,
		UserID:          caller.ID,
	})
}

func (s *SystemService) Update(ctx context.Context, caller *auth.Claims, id string, f models.SystemFields) (*models.System, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown system status %q", common.ErrorValidation, *f.Status)
	}
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", common.ErrorValidation)
	}
	if _, err := s.authorized(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.repomanager.Systems(s.db).Update(ctx, id, f)
}

// ToggleArchive flips the archived flag.
func (s *SystemService) ToggleArchive(ctx context.Context, caller *auth.Claims, id string) (*models.System, error) {
	sys, err := s.authorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Systems(s.db).SetArchived(ctx, id, !sys.IsArchived)
}

// Delete removes the system and, through the schema, everything under it.
func (s *SystemService) Delete(ctx context.Context, caller *auth.Claims, id string) error {
	if _, err := s.authorized(ctx, caller, id); err != nil {
		return err
	}
	return s.repomanager.Systems(s.db).Delete(ctx, id)
}

func (s *SystemService) authorized(ctx context.Context, caller *auth.Claims, id string) (*models.System, error) {
	sys, err := s.repomanager.Systems(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sys.UserID != caller.ID && !caller.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return sys, nil
}
