package components

import (
	"parkspot/internal/handler"
	"parkspot/internal/handler/api"
	"parkspot/internal/handler/middleware"
	"parkspot/internal/handler/ws"
	"parkspot/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSpotHandler,
		api.NewReservationHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		func(hub *ws.Hub, cfg config.Config) *ws.StreamHandler {
			return ws.NewStreamHandler(hub, cfg.CORS.AllowOrigins)
		},
	),
	fx.Invoke(handler.NewRouter),
)
