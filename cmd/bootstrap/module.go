package bootstrap

import (
	"parkspot/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	components.UseCaseModule,
	StoreModule,
	EventsModule,
	components.HandlerModule,
	components.WorkerModule,
)
