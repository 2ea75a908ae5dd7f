package bootstrap

import (
	"context"
	"log/slog"

	"parkspot/internal/handler/ws"
	"parkspot/internal/infra/events"
	"parkspot/internal/pkg/config"
	"parkspot/internal/usecase/shared"

	"go.uber.org/fx"
)

// EventsModule fans lifecycle events out to the log, the websocket hub and,
// when NATS_URL is set, NATS.
var EventsModule = fx.Module("events",
	fx.Provide(
		ws.NewHub,
		NewEventPublisher,
	),
	fx.Invoke(runHub),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, hub *ws.Hub, logger *slog.Logger) (shared.EventPublisher, error) {
	publishers := []shared.EventPublisher{events.NewLogPublisher(logger), hub}

	if cfg.NATS.URL != "" {
		conn, err := events.Connect(cfg.NATS.URL, "parkspot")
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return conn.Drain()
			},
		})
		publishers = append(publishers, events.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix))
		logger.Info("publishing lifecycle events to NATS", "url", cfg.NATS.URL, "prefix", cfg.NATS.SubjectPrefix)
	}

	return events.NewFanOut(publishers...), nil
}

func runHub(lc fx.Lifecycle, hub *ws.Hub) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
