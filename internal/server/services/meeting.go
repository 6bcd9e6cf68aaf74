package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
)

// DefaultAgenda is used when a meeting is created without an agenda.
const DefaultAgenda = "1. Mötets öppnande\n2. Föregående protokoll\n3. Inkomna punkter\n4. Övriga frågor"

type MeetingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMeetingService(db *sql.DB, m repomanager.RepositoryManager) *MeetingService {
	return &MeetingService{db: db, repomanager: m}
}

func (s *MeetingService) Create(ctx context.Context, nm models.NewMeeting) (*models.Meeting, error) {
	if nm.SystemID == "" || strings.TrimSpace(nm.Title) == "" || nm.Date.IsZero() {
		return nil, fmt.Errorf("%w: systemId, title and date are required", common.ErrorValidation)
	}
	if nm.Agenda == nil || strings.TrimSpace(*nm.Agenda) == "" {
		agenda := DefaultAgenda
		nm.Agenda = &agenda
	}
	if _, err := s.repomanager.Systems(s.db).GetByID(ctx, nm.SystemID); err != nil {
		return nil, fmt.Errorf("system %s: %w", nm.SystemID, err)
	}
	return s.repomanager.Meetings(s.db).Create(ctx, nm)
}

// Get returns the meeting with its system and the points raised in it.
func (s *MeetingService) Get(ctx context.Context, id string) (*models.MeetingDetail, error) {
	m, err := s.repomanager.Meetings(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sys, err := s.repomanager.Systems(s.db).GetByID(ctx, m.SystemID)
	if err != nil {
		return nil, err
	}
	m.System = &models.SystemRef{ID: sys.ID, Name: sys.Name}

	points, err := s.repomanager.Points(s.db).ListByMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.MeetingDetail{Meeting: *m, Points: points}, nil
}

func (s *MeetingService) Update(ctx context.Context, id string, upd models.MeetingUpdate) (*models.Meeting, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", common.ErrorValidation)
	}
	return s.repomanager.Meetings(s.db).Update(ctx, id, upd)
}

func (s *MeetingService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Meetings(s.db).Delete(ctx, id)
}
