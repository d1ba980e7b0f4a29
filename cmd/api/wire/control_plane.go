//go:build wireinject
// +build wireinject

package wire

import (
	"nami-server/internal/control_plane/httpapi"
	"nami-server/internal/control_plane/persistence"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"

	"github.com/google/wire"
)

var StoreSet = wire.NewSet(
	provideDatabase,
	provideReadinessDatabase,
	persistence.NewCommandRepository,
	wire.Bind(new(usecases.CommandRepository), new(*persistence.SimpleCommandRepository)),
	provideRobotStateCache,
	wire.Bind(new(usecases.RobotStateCache), new(*persistence.RistrettoRobotStateCache)),
)

var DispatchSet = wire.NewSet(
	provideClock,
	provideFactoryConfig,
	usecases.NewCommandFactory,
	provideDispatchConfig,
	usecases.NewDispatchService,
	wire.Bind(new(usecases.DispatchService), new(*usecases.SimpleDispatchService)),
	provideRobotStatusConfig,
	usecases.NewRobotStatusService,
	wire.Bind(new(usecases.RobotStatusService), new(*usecases.SimpleRobotStatusService)),
)

var NotificationSet = wire.NewSet(
	provideEnvironment,
	providePubSubFactory,
	providePublisherFactory,
	provideDefaultRobotID,
	provideCommandEventNotifiers,
	provideCommandEventWorker,
)

func InitializeApplication(broker async.InternalBroker) (*Application, func(), error) {
	wire.Build(
		provideAppConfig,
		StoreSet,
		DispatchSet,
		NotificationSet,
		provideClaimTimeoutWorker,
		httpapi.NewCommandController,
		httpapi.NewRobotController,
		httpapi.NewCommandEventWebSocketController,
		provideServerConfig,
		provideHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
