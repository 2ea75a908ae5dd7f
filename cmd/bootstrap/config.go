package bootstrap

import (
	"log/slog"

	"parkspot/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logEffectiveConfig),
)

// secrets and credentials stay out of this line
func logEffectiveConfig(cfg config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_backend", cfg.Store.Backend,
		"access_window", cfg.Lifecycle.AccessWindow,
		"sweep_interval", cfg.Lifecycle.ExpirySweepInterval,
		"seed_levels", cfg.Lifecycle.SeedLevels,
		"nats_enabled", cfg.NATS.URL != "",
	)
}
