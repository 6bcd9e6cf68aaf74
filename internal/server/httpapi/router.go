// Package httpapi exposes the REST API over gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/waulty/internal/logging"
	"github.com/dmitrijs2005/waulty/internal/server/metrics"
)

// RouterConfig carries what the router needs besides the services.
type RouterConfig struct {
	Secret          []byte
	DecisionLimiter *ClientLimiter
	AllowedOrigins  []string
	Logger          logging.Logger
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	setupBinding()

	h := &handlers{svc: svc, logger: cfg.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), CORS(cfg.AllowedOrigins), metrics.Middleware(), AccessLog(cfg.Logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.login)
	authGroup.POST("/refresh", h.refresh)

	decisions := api.Group("/decisions")
	public := decisions.Group("")
	if cfg.DecisionLimiter != nil {
		public.Use(cfg.DecisionLimiter.Handler())
	}
	public.GET("/:token", h.getDecision)
	public.POST("/:token", h.submitDecision)

	protected := api.Group("")
	protected.Use(Authenticate(cfg.Secret, cfg.Logger))

	protected.POST("/decisions/request", h.requestDecision)

	protected.GET("/systems", h.listSystems)
	protected.POST("/systems", h.createSystem)
	protected.GET("/systems/:id", h.getSystem)
	protected.PATCH("/systems/:id", h.updateSystem)
	protected.DELETE("/systems/:id", h.deleteSystem)
	protected.PATCH("/systems/:id/archive", h.archiveSystem)

	protected.POST("/points", h.createPoint)
	protected.PATCH("/points/:id", h.updatePoint)
	protected.DELETE("/points/:id", h.deletePoint)

	protected.POST("/actions", h.createAction)
	protected.PATCH("/actions/:id", h.updateAction)
	protected.GET("/actions/system/:systemId", h.listSystemActions)

	protected.POST("/upgrades", h.createUpgrade)
	protected.PATCH("/upgrades/:id", h.updateUpgrade)
	protected.DELETE("/upgrades/:id", h.deleteUpgrade)

	protected.POST("/meetings", h.createMeeting)
	protected.GET("/meetings/:id", h.getMeeting)
	protected.PATCH("/meetings/:id", h.updateMeeting)
	protected.DELETE("/meetings/:id", h.deleteMeeting)

	protected.GET("/dashboard", h.dashboard)
	protected.POST("/easit/export", h.exportEasit)

	admin := protected.Group("/users")
	admin.Use(RequireAdmin())
	admin.GET("", h.listUsers)
	admin.POST("", h.createUser)
	admin.PATCH("/:id", h.updateUser)
	admin.DELETE("/:id", h.deleteUser)

	return r
}
