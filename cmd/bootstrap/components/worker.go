package components

import (
	"context"
	"log/slog"

	"parkspot/internal/pkg/config"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(lifecycle commands.LifecycleCommands, cfg config.Config) *worker.ExpirySweeper {
			return worker.NewExpirySweeper(lifecycle, cfg.Lifecycle.ExpirySweepInterval)
		},
	),
	fx.Invoke(
		seedFleet,
		runSweeper,
	),
)

// seedFleet provisions the configured spots on first boot; a populated store is left alone.
func seedFleet(lc fx.Lifecycle, p commands.Provisioner, cfg config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			created, err := p.SeedIfEmpty(ctx, commands.SeedPlan{
				Levels:          cfg.Lifecycle.SeedLevels,
				Sections:        cfg.Lifecycle.SeedSections,
				SpotsPerSection: cfg.Lifecycle.SeedSpotsPerSection,
				Maintenance:     cfg.Lifecycle.SeedMaintenanceSpots,
			})
			if err != nil {
				return err
			}
			if created > 0 {
				logger.Info("spot fleet provisioned", "spots", created)
			}
			return nil
		},
	})
}

func runSweeper(lc fx.Lifecycle, s *worker.ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
