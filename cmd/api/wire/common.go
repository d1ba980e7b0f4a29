package wire

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/cmd/config"
	"nami-server/internal/control_plane/communication"
	"nami-server/internal/control_plane/httpapi"
	"nami-server/internal/control_plane/persistence"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"
	"nami-server/internal/infra/cache"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/infra/mqtt"
	"nami-server/internal/infra/pubsub"
	"nami-server/internal/infra/sql"
	"nami-server/internal/infra/utils"
	"nami-server/internal/shared_kernel/domain"
	"os"
	"time"
)

const _openTimeout = 30 * time.Second

// Application holds every long lived piece main has to start and stop.
type Application struct {
	Server     *httpserver.StandardServer
	Dispatch   usecases.DispatchService
	EventPush  *httpapi.CommandEventWebSocketController
	Sweeper    *usecases.ClaimTimeoutWorker
	Forwarder  *usecases.CommandEventWorker
	RobotState usecases.RobotStatusService
}

// Workers lists the background loops main runs until shutdown.
func (a *Application) Workers() []async.Worker {
	return []async.Worker{a.Sweeper, a.Forwarder}
}

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

func provideClock() usecases.Clock {
	return usecases.SystemClock()
}

func provideEnvironment() string {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}
	return env
}

// provideDatabase keeps the command store in memory unless a postgres DSN is
// configured.
func provideDatabase(config config.AppConfig) (sql.ORM, error) {
	if config.Postgresql.DSN == "" {
		slog.Warn("no database dsn configured, commands are kept in memory")
		return sql.NewMemoryORM()
	}

	orm, err := sql.NewPostgreORM(config.Postgresql.DSN, config.Postgresql.QueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return orm, nil
}

func provideReadinessDatabase(config config.AppConfig, orm sql.ORM) (sql.Database, func(), error) {
	var db sql.Database = sql.NewORMDatabase(orm)
	if config.Postgresql.URL != "" {
		db = sql.NewPostgreDatabase(config.Postgresql.URL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), _openTimeout)
	defer cancel()

	if err := db.Open(ctx); err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func provideServerConfig(config config.AppConfig, db sql.Database) httpserver.ServerConfig {
	return httpserver.ServerConfig{
		Address:        config.HTTP.Address,
		AllowedOrigins: config.HTTP.AllowedOrigins,
		Readiness:      db.Ping,
	}
}

func provideHTTPServer(
	serverConfig httpserver.ServerConfig,
	commands *httpapi.CommandController,
	robots *httpapi.RobotController,
	events *httpapi.CommandEventWebSocketController,
) *httpserver.StandardServer {
	return httpserver.NewServer(serverConfig, commands, robots, events)
}

func provideFactoryConfig(config config.AppConfig) (usecases.FactoryConfig, error) {
	location, err := utils.LoadLocation(config.General.Timezone)
	if err != nil {
		return usecases.FactoryConfig{}, err
	}

	intents := make([]domain.Intent, 0, len(config.Dispatch.ConfirmationRequiredIntents))
	for _, value := range config.Dispatch.ConfirmationRequiredIntents {
		intent, err := domain.ParseIntent(value)
		if err != nil {
			return usecases.FactoryConfig{}, fmt.Errorf("dispatch.confirmation_required_intents: %w", err)
		}
		intents = append(intents, intent)
	}

	return usecases.FactoryConfig{
		Location:             location,
		ConfirmationRequired: intents,
	}, nil
}

func provideDispatchConfig(config config.AppConfig) usecases.DispatchConfig {
	return usecases.DispatchConfig{
		ClaimTimeout: config.Dispatch.ClaimTimeout,
		MaxRetries:   config.Dispatch.MaxRetries,
		DedupWindow:  config.Dispatch.DedupWindow,
	}
}

func provideRobotStatusConfig(config config.AppConfig) usecases.RobotStatusConfig {
	return usecases.RobotStatusConfig{
		DefaultLocation: domain.Location(config.Robot.InitialLocation),
		DefaultBattery:  domain.BatteryFull,
	}
}

func provideDefaultRobotID(config config.AppConfig) domain.ID {
	return domain.ID(config.Dispatch.RobotID)
}

func provideRobotStateCache(config config.AppConfig) (*persistence.RistrettoRobotStateCache, error) {
	store, err := cache.New[domain.RobotState](cache.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("creating robot state cache: %w", err)
	}
	return persistence.NewRistrettoRobotStateCache(store, config.RobotStatus.TTL), nil
}

func provideClaimTimeoutWorker(config config.AppConfig, service usecases.DispatchService) (*usecases.ClaimTimeoutWorker, error) {
	return usecases.NewClaimTimeoutWorker(config.Dispatch.SweepSchedule, service)
}

func providePubSubFactory(config config.AppConfig, env string) *pubsub.Factory {
	return pubsub.NewFactory(pubsub.FactoryOptions{
		Environment:  env,
		KafkaBrokers: config.Kafka.Brokers,
	})
}

func providePublisherFactory(factory *pubsub.Factory) pubsub.PublisherFactory {
	return factory.GetPublisherFactory()
}

// provideCommandEventNotifiers always audits through the publisher factory and
// adds MQTT fan-out when a broker is configured. A schema registry URL selects
// the Confluent framed audit codec.
func provideCommandEventNotifiers(
	config config.AppConfig,
	factory pubsub.PublisherFactory,
	robotID domain.ID,
) ([]usecases.CommandEventNotifier, func(), error) {
	var registry pubsub.SchemaRegistry
	if config.Kafka.SchemaRegistryURL != "" {
		registry = pubsub.NewSchemaRegistry(config.Kafka.SchemaRegistryURL)
	}

	audit, err := communication.NewKafkaAuditNotifier(factory, pubsub.Topic(config.Kafka.Topic), registry)
	if err != nil {
		return nil, nil, err
	}
	notifiers := []usecases.CommandEventNotifier{audit}

	if config.MQTTClient.Broker == "" {
		return notifiers, func() {}, nil
	}

	client, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
		Broker:   config.MQTTClient.Broker,
		ClientID: config.MQTTClient.ClientID,
		Username: config.MQTTClient.Username,
		Password: config.MQTTClient.Password, //pragma: allowlist secret
	})
	if err != nil {
		return nil, nil, err
	}
	notifiers = append(notifiers, communication.NewMQTTCommandNotifier(client, robotID))

	return notifiers, client.Disconnect, nil
}

func provideCommandEventWorker(broker async.InternalBroker, notifiers []usecases.CommandEventNotifier) *usecases.CommandEventWorker {
	return usecases.NewCommandEventWorker(broker, notifiers...)
}
