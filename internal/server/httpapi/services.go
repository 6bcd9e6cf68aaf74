package httpapi

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/server/auth"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/services"
)

// The handlers depend on these narrow views of the service layer.

type UserService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.LoginResult, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, nu models.NewUser) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate, password string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type SystemService interface {
	List(ctx context.Context, caller *auth.Claims, showArchived bool) ([]*models.System, error)
	Get(ctx context.Context, caller *auth.Claims, id string) (*models.SystemDetail, error)
	Create(ctx context.Context, caller *auth.Claims, f models.SystemFields) (*models.System, error)
	Update(ctx context.Context, caller *auth.Claims, id string, f models.SystemFields) (*models.System, error)
	ToggleArchive(ctx context.Context, caller *auth.Claims, id string) (*models.System, error)
	Delete(ctx context.Context, caller *auth.Claims, id string) error
}

type PointService interface {
	Create(ctx context.Context, np models.NewPoint) (*models.Point, error)
	Update(ctx context.Context, id string, upd models.PointUpdate) (*models.Point, error)
	Delete(ctx context.Context, id string) error
}

type ActionService interface {
	Create(ctx context.Context, na models.NewAction) (*models.Action, error)
	Update(ctx context.Context, id string, upd models.ActionUpdate) (*models.Action, error)
	ListOpenBySystem(ctx context.Context, systemID string) ([]*models.Action, error)
}

type UpgradeService interface {
	Create(ctx context.Context, nu models.NewUpgrade) (*models.Upgrade, error)
	Update(ctx context.Context, id string, upd models.UpgradeUpdate) (*models.Upgrade, error)
	Delete(ctx context.Context, id string) error
}

type MeetingService interface {
	Create(ctx context.Context, nm models.NewMeeting) (*models.Meeting, error)
	Get(ctx context.Context, id string) (*models.MeetingDetail, error)
	Update(ctx context.Context, id string, upd models.MeetingUpdate) (*models.Meeting, error)
	Delete(ctx context.Context, id string) error
}

type DecisionService interface {
	Request(ctx context.Context, id string, target models.DecisionTarget) (*services.DecisionRequest, error)
	Get(ctx context.Context, token string) (*models.DecisionData, error)
	Submit(ctx context.Context, token, decision, comment string) error
}

type DashboardService interface {
	Get(ctx context.Context, userID string) (*models.Dashboard, error)
}

type ExportService interface {
	Export(ctx context.Context, e models.EasitExport) (*services.ExportResult, error)
}

// Services bundles everything the router serves.
type Services struct {
	Users     UserService
	Systems   SystemService
	Points    PointService
	Actions   ActionService
	Upgrades  UpgradeService
	Meetings  MeetingService
	Decisions DecisionService
	Dashboard DashboardService
	Export    ExportService
}
