package bootstrap

import (
	"context"
	"log/slog"

	"parkspot/internal/infra/db"
	"parkspot/internal/infra/memstore"
	"parkspot/internal/infra/uow"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/config"
	"parkspot/internal/usecase/shared"
	"parkspot/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// StoreModule provides the UnitOfWork for the configured STORE_BACKEND.
var StoreModule = fx.Module("store",
	fx.Provide(
		NewUnitOfWork,
	),
)

func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.Store.Backend != config.StoreBackendPostgres {
		logger.Info("using in-memory store")
		return memstore.New(clk), nil
	}

	pool, err := NewDB(lc, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.DBName)
	retry := uow.DefaultRetryPolicy
	retry.MaxRetries = cfg.DB.TxMaxRetries
	retry.LockTimeout = cfg.DB.LockTimeout
	return uow.NewPostgresUoW(pool, clk, logger, retry), nil
}

// NewDB connects, applies pending migrations, and closes the pool on stop.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	if _, err := migrations.Apply(context.Background(), pool); err != nil {
		cleanup()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
