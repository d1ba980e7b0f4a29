package driver

import (
	"context"
	"nami-server/internal/control_plane/httpapi"
	"nami-server/internal/control_plane/persistence"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"
	"nami-server/internal/infra/cache"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/infra/sql"
	agentcommunication "nami-server/internal/robot_agent/communication"
	agentusecases "nami-server/internal/robot_agent/usecases"
	"nami-server/internal/robot_agent/workers"
	"nami-server/internal/shared_kernel/domain"
	"net/http/httptest"
	"sync"
	"time"
)

const (
	ClaimTimeout = 2 * time.Minute
	MaxRetries   = 2
)

// Clock is the controllable time source shared by the dispatch queue and the
// simulated robots.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Environment runs the dispatch API in process on a private in-memory store.
type Environment struct {
	Server   *httptest.Server
	Dispatch *usecases.SimpleDispatchService
	Clock    *Clock

	broker *async.LocalBroker
	events *httpapi.CommandEventWebSocketController
}

func NewEnvironment(confirmationRequired ...domain.Intent) (*Environment, error) {
	clock := &Clock{now: time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)}

	orm, err := sql.NewMemoryORM()
	if err != nil {
		return nil, err
	}
	repository, err := persistence.NewCommandRepository(orm)
	if err != nil {
		return nil, err
	}
	store, err := cache.New[domain.RobotState](cache.DefaultConfig())
	if err != nil {
		return nil, err
	}

	broker := async.NewLocalBroker()
	factory := usecases.NewCommandFactory(usecases.FactoryConfig{
		Location:             time.UTC,
		ConfirmationRequired: confirmationRequired,
	}, clock.Now)
	dispatch := usecases.NewDispatchService(repository, factory, broker, usecases.DispatchConfig{
		ClaimTimeout: ClaimTimeout,
		MaxRetries:   MaxRetries,
	}, clock.Now)
	status := usecases.NewRobotStatusService(
		repository,
		persistence.NewRistrettoRobotStateCache(store, time.Hour),
		usecases.RobotStatusConfig{DefaultLocation: "Nurse Station", DefaultBattery: domain.BatteryFull},
		clock.Now,
	)
	events := httpapi.NewCommandEventWebSocketController(broker)

	readiness := sql.NewORMDatabase(orm)
	if err := readiness.Open(context.Background()); err != nil {
		return nil, err
	}

	server := httpserver.NewServer(
		httpserver.ServerConfig{Readiness: readiness.Ping},
		httpapi.NewCommandController(dispatch),
		httpapi.NewRobotController(status, "nami-1"),
		events,
	)

	return &Environment{
		Server:   httptest.NewServer(server.Handler()),
		Dispatch: dispatch,
		Clock:    clock,
		broker:   broker,
		events:   events,
	}, nil
}

// Sweep runs one claim timeout pass.
func (e *Environment) Sweep(ctx context.Context) (usecases.SweepResult, error) {
	return e.Dispatch.ExpireStalled(ctx)
}

func (e *Environment) Close() {
	e.Server.Close()
	e.events.Shutdown()
	e.broker.Stop()
}

// Robot is a simulated robot agent talking to the environment over HTTP.
type Robot struct {
	ID     domain.ID
	State  *agentusecases.StateHolder
	poller *workers.CommandPoller
}

func (e *Environment) NewRobot(id string, unreachable ...string) (*Robot, error) {
	client, err := agentcommunication.NewHTTPDispatchClient(agentcommunication.HTTPDispatchClientOptions{
		BaseURL: e.Server.URL,
	})
	if err != nil {
		return nil, err
	}

	state := agentusecases.NewStateHolder(domain.RobotState{
		RobotID:  domain.ID(id),
		Status:   domain.RobotStatusIdle,
		Location: "Nurse Station",
		Battery:  domain.BatteryFull,
	}, e.Clock.Now)
	locomotion := agentusecases.NewSimulatedLocomotion(agentusecases.SimulatedLocomotionConfig{
		TravelTime:   5 * time.Millisecond,
		DrainPerMove: agentusecases.DefaultDrainPerMove,
		Unreachable:  unreachable,
	}, state)
	engine := agentusecases.NewExecutionEngine(agentusecases.ExecutionConfig{
		PharmacyLocation: "Pharmacy",
		HomeLocation:     "Nurse Station",
	}, locomotion, state)

	poller := workers.NewCommandPoller(
		time.NewTicker(time.Hour),
		client,
		engine,
		state,
		workers.CommandPollerConfig{RobotID: domain.ID(id), ReportInterval: 10 * time.Millisecond},
	)

	return &Robot{ID: domain.ID(id), State: state, poller: poller}, nil
}

// PollOnce runs a single heartbeat, claim and execute cycle.
func (r *Robot) PollOnce(ctx context.Context) {
	r.poller.Poll(ctx)
}

func (r *Robot) Stop() {
	r.poller.Shutdown()
}
