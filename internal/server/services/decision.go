package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/waulty/internal/common"
	"github.com/dmitrijs2005/waulty/internal/dbx"
	"github.com/dmitrijs2005/waulty/internal/logging"
	"github.com/dmitrijs2005/waulty/internal/server/config"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/notify"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"
)

// DecisionRequest is returned to the manager who asked for a decision.
type DecisionRequest struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// DecisionService runs the magic-link approval flow: a manager requests a
// decision on a Point or Upgrade, the system owner opens the link and
// records APPROVED or REJECTED exactly once.
type DecisionService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	policy        workflow.Policy
	notifier      notify.Notifier
	logger        logging.Logger
	baseURL       string
	fallbackEmail string
	validity      time.Duration
	now           func() time.Time
	newToken      func() string
}

func NewDecisionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, n notify.Notifier, l logging.Logger) *DecisionService {
	return &DecisionService{
		db:            db,
		repomanager:   m,
		policy:        workflow.PolicyFor(cfg.StrictTransitions),
		notifier:      n,
		logger:        l.With("module", "decisions"),
		baseURL:       cfg.PublicBaseURL,
		fallbackEmail: cfg.DecisionFallbackEmail,
		validity:      cfg.MagicLinkValidityDuration,
		now:           time.Now,
		newToken:      func() string { return uuid.New().String() },
	}
}

// Request puts the target into PENDING_APPROVAL and issues a new link for
// it. Links issued earlier for the same target stop working.
func (s *DecisionService) Request(ctx context.Context, id string, target models.DecisionTarget) (*DecisionRequest, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if target != models.TargetUpgrade {
		target = models.TargetPoint
	}

	link, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.MagicLink, error) {
		systemID, err := s.markPending(ctx, tx, id, target)
		if err != nil {
			return nil, err
		}

		email := s.fallbackEmail
		sys, err := s.repomanager.Systems(tx).GetByID(ctx, systemID)
		if err != nil {
			return nil, err
		}
		if sys.OwnerEmail != nil && *sys.OwnerEmail != "" {
			email = *sys.OwnerEmail
		}

		links := s.repomanager.MagicLinks(tx)
		if _, err := links.InvalidateForContext(ctx, target.ContextType(), id); err != nil {
			return nil, err
		}
		return links.Create(ctx, &models.MagicLink{
			Token:       s.newToken(),
			Email:       email,
			ContextType: target.ContextType(),
			ContextID:   id,
			ExpiresAt:   s.now().Add(s.validity),
		})
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/decision/%s", s.baseURL, link.Token)
	if err := s.notifier.SendDecisionLink(ctx, link.Email, url); err != nil {
		s.logger.Warn(ctx, "decision link not delivered", "email", link.Email, "error", err)
	}
	s.logger.Info(ctx, "decision requested", "type", target, "id", id)

	return &DecisionRequest{Message: "decision requested", Link: url}, nil
}

func (s *DecisionService) markPending(ctx context.Context, tx dbx.DBTX, id string, target models.DecisionTarget) (string, error) {
	if target == models.TargetUpgrade {
		repo := s.repomanager.Upgrades(tx)
		u, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return "", err
		}
		if err := s.policy.CanRequestUpgradeDecision(u.Status); err != nil {
			return "", err
		}
		status := models.UpgradePendingApproval
		if _, err := repo.Update(ctx, id, models.UpgradeUpdate{Status: &status}); err != nil {
			return "", err
		}
		return u.SystemID, nil
	}

	repo := s.repomanager.Points(tx)
	p, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.policy.CanRequestPointDecision(p.Status); err != nil {
		return "", err
	}
	status := models.PointPendingApproval
	if _, err := repo.Update(ctx, id, models.PointUpdate{Status: &status}); err != nil {
		return "", err
	}
	return p.SystemID, nil
}

// Get returns the entity behind an unused, unexpired link.
func (s *DecisionService) Get(ctx context.Context, token string) (*models.DecisionData, error) {
	link, err := s.usableLink(ctx, s.db, token)
	if err != nil {
		return nil, err
	}

	data := &models.DecisionData{}
	var systemID string
	if link.ContextType == models.ContextUpgradeDecision {
		u, err := s.repomanager.Upgrades(s.db).GetByID(ctx, link.ContextID)
		if err != nil {
			return nil, err
		}
		data.DataType, data.Upgrade, systemID = models.TargetUpgrade, u, u.SystemID
	} else {
		p, err := s.repomanager.Points(s.db).GetByID(ctx, link.ContextID)
		if err != nil {
			return nil, err
		}
		data.DataType, data.Point, systemID = models.TargetPoint, p, p.SystemID
	}

	if data.System, err = s.repomanager.Systems(s.db).GetByID(ctx, systemID); err != nil {
		return nil, err
	}
	return data, nil
}

// Submit records the decision. The link is claimed and the entity updated
// in one transaction; a second submit of the same link fails with
// ErrInvalidLink.
func (s *DecisionService) Submit(ctx context.Context, token, decision, comment string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		link, err := s.usableLink(ctx, tx, token)
		if err != nil {
			return err
		}
		now := s.now()

		if link.ContextType == models.ContextUpgradeDecision {
			status, err := workflow.DecideUpgrade(decision)
			if err != nil {
				return err
			}
			if err := s.repomanager.MagicLinks(tx).Claim(ctx, link.ID, now); err != nil {
				return err
			}
			upgrades := s.repomanager.Upgrades(tx)
			u, err := upgrades.GetByIDForUpdate(ctx, link.ContextID)
			if err != nil {
				return err
			}
			if err := s.policy.ValidateUpgrade(u.Status, status); err != nil {
				return err
			}
			_, err = upgrades.Update(ctx, u.ID, models.UpgradeUpdate{Status: &status, DecisionDate: &now})
			return err
		}

		if err := s.repomanager.MagicLinks(tx).Claim(ctx, link.ID, now); err != nil {
			return err
		}
		status := workflow.DecidePoint(decision)
		points := s.repomanager.Points(tx)
		p, err := points.GetByIDForUpdate(ctx, link.ContextID)
		if err != nil {
			return err
		}
		if err := s.policy.ValidatePoint(p.Status, status); err != nil {
			return err
		}
		_, err = points.Update(ctx, p.ID, models.PointUpdate{Status: &status, DecisionDate: &now, ManagerComment: &comment})
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "decision recorded", "decision", decision)
	return nil
}

func (s *DecisionService) usableLink(ctx context.Context, db dbx.DBTX, token string) (*models.MagicLink, error) {
	link, err := s.repomanager.MagicLinks(db).GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidLink
		}
		return nil, err
	}
	if !link.Usable(s.now()) {
		return nil, common.ErrInvalidLink
	}
	return link, nil
}
