// Package server wires configuration, storage, services and transports
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/waulty/internal/logging"
	"github.com/dmitrijs2005/waulty/internal/server/config"
	"github.com/dmitrijs2005/waulty/internal/server/httpapi"
	"github.com/dmitrijs2005/waulty/internal/server/notify"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/waulty/internal/server/services"
	"github.com/dmitrijs2005/waulty/internal/server/storage"
	"github.com/dmitrijs2005/waulty/internal/server/workflow"

	gs "github.com/dmitrijs2005/waulty/internal/server/grpc"
)

const limiterPruneInterval = 5 * time.Minute

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter *httpapi.ClientLimiter
	http    *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	seeded, err := us.SeedAdmin(ctx, c.AdminEmail, "", c.AdminPassword)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("admin seed error: %w", err)
	}
	if seeded {
		logger.Info(ctx, "seeded first administrator", "email", c.AdminEmail)
	}

	var uploader storage.Uploader
	if c.ExportMirrorEnabled() {
		s3u, err := storage.NewS3Uploader(ctx, c)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		uploader = s3u
	}

	policy := workflow.PolicyFor(c.StrictTransitions)
	notifier := notify.NewLogNotifier(logger)

	svc := httpapi.Services{
		Users:     us,
		Systems:   services.NewSystemService(db, rm),
		Points:    services.NewPointService(db, rm, policy),
		Actions:   services.NewActionService(db, rm, policy),
		Upgrades:  services.NewUpgradeService(db, rm, policy),
		Meetings:  services.NewMeetingService(db, rm),
		Decisions: services.NewDecisionService(db, rm, c, notifier, logger),
		Dashboard: services.NewDashboardService(db, rm),
		Export:    services.NewExportService(c.ExportDir, uploader, logger),
	}

	limiter := httpapi.NewClientLimiter(c.DecisionRatePerSecond, c.DecisionRateBurst, logger.With("module", "ratelimit"))

	router := httpapi.NewRouter(svc, httpapi.RouterConfig{
		Secret:          []byte(c.SecretKey),
		DecisionLimiter: limiter,
		AllowedOrigins:  c.AllowedOrigins,
		Logger:          logger.With("module", "http"),
	})

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		limiter: limiter,
		http:    httpapi.NewHTTPServer(c.EndpointAddrHTTP, router, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.limiter.StartPruning(limiterPruneInterval, ctx.Done())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
