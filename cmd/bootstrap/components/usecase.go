package components

import (
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/config"
	"parkspot/internal/pkg/idgen"
	"parkspot/internal/usecase"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	idgen.NewRandomGenerator,
	func(cfg config.Config) commands.LifecycleOptions {
		return commands.LifecycleOptions{
			AccessWindowMinutes: cfg.Lifecycle.AccessWindowMinutes(),
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLifecycleManager,
		commands.NewAccessVerifier,
		commands.NewSpotUseCase,
		commands.NewProvisioner,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSpotQueries,
		queries.NewReservationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
