package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"parkspot/internal/domain/user"
	"parkspot/internal/handler/api"
	"parkspot/internal/handler/middleware"
	"parkspot/internal/handler/ws"
	"parkspot/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups everything the router mounts.
type Handlers struct {
	fx.In

	Spot        *api.SpotHandler
	Reservation *api.ReservationHandler
	Admin       *api.AdminHandler
	Stream      *ws.StreamHandler
	Auth        *middleware.AuthMiddleware
	Logger      *middleware.Logger
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg, h.Logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := h.Auth.RequireAuth()

	apiGroup := engine.Group("/api")
	{
		spots := apiGroup.Group("/spots")
		{
			addRoutes(spots, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Spot.List},
				{Method: http.MethodGet, Path: "/availability", Handler: h.Spot.Availability},
				{Method: http.MethodGet, Path: "/stream", Handler: h.Stream.Stream},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Spot.Get},
				{Method: http.MethodPost, Path: "/:id/entry", Handler: h.Spot.Entry, Mw: []gin.HandlerFunc{requireAuth}},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(requireAuth)
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservation.Get},
				{Method: http.MethodPost, Path: "/:id/entry", Handler: h.Reservation.Entry},
				{Method: http.MethodPost, Path: "/:id/end", Handler: h.Reservation.End},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservation.Cancel},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(requireAuth)
		{
			operator := h.Auth.RequireRoleAtLeast(user.RoleOperator)
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/reservations", Handler: h.Admin.ListReservations, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/expiry-sweep", Handler: h.Admin.ExpirySweep, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/spots/:id/release", Handler: h.Admin.ReleaseSpot,
					Mw: []gin.HandlerFunc{h.Auth.RequireRoleAtLeast(user.RoleAdmin)}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
