package app

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/cmd/config"
	"nami-server/internal/infra/node"
	"nami-server/internal/logger"
	"nami-server/internal/robot_agent/communication"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/robot_agent/workers"
	"nami-server/internal/shared_kernel/domain"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// NewRobotCommand builds the robot agent CLI. Flags override the config file
// and NAMI_SERVER_ environment variables.
func NewRobotCommand(ctx context.Context) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "nami-robot",
		Short:         "Runs the Nami robot agent against a dispatch queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			return Run(ctx, cfg)
		},
	}

	AddFlags(cmd.Flags())
	return cmd
}

func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a server.yaml style config file")
	fs.String("api-base", "", "base url of the dispatch api")
	fs.String("robot-id", "", "identity used when claiming commands")
	fs.Duration("poll-interval", 0, "time between claim attempts")
	fs.String("log-file", "", "also write logs to this size rotated file")
	fs.String("log-level", "", "debug, info, warn or error")
}

var _flagKeys = map[string]string{
	"api-base":      "robot.api_base",
	"robot-id":      "robot.id",
	"poll-interval": "robot.poll_interval",
	"log-file":      "robot.log_file",
	"log-level":     "general.log_level",
}

// LoadConfig resolves the robot settings from defaults, the config file, the
// environment and finally the flags that were set explicitly.
func LoadConfig(v *viper.Viper, fs *pflag.FlagSet) (config.AppConfig, error) {
	v.SetEnvPrefix("nami_server")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for name, key := range _flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return config.AppConfig{}, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	path, err := fs.GetString("config")
	if err != nil {
		return config.AppConfig{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("server")
		v.AddConfigPath("config")
		v.AddConfigPath("/config")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Robot.ID == "" {
		return config.AppConfig{}, fmt.Errorf("robot id is required")
	}
	if cfg.Robot.PollInterval <= 0 {
		return config.AppConfig{}, fmt.Errorf("poll interval must be positive, got %s", cfg.Robot.PollInterval)
	}
	return cfg, nil
}

// Run wires the agent and polls until ctx is cancelled.
func Run(ctx context.Context, cfg config.AppConfig) error {
	node.SetRole(node.RoleRobot)
	closer := logger.Setup(logger.Options{
		Level: cfg.General.LogLevel,
		File:  cfg.Robot.LogFile,
		Attrs: append(node.GetNodeInfo().LogAttrs(), slog.String("robot_id", cfg.Robot.ID)),
	})
	defer closer.Close()

	poller, err := NewPoller(cfg)
	if err != nil {
		slog.Error("failed to initialize robot agent", slog.Any("error", err))
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poller.Run(ctx, func() {})
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		poller.Shutdown()
		return nil
	})

	slog.Info("🤖 robot agent started", slog.String("api_base", cfg.Robot.APIBase))
	err = g.Wait()
	slog.Info("good bye!!!")
	return err
}

// NewPoller builds the poller with the simulated locomotion stack.
func NewPoller(cfg config.AppConfig) (*workers.CommandPoller, error) {
	client, err := communication.NewHTTPDispatchClient(communication.HTTPDispatchClientOptions{
		BaseURL: cfg.Robot.APIBase,
		Timeout: cfg.Robot.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	state := usecases.NewStateHolder(domain.RobotState{
		RobotID:  domain.ID(cfg.Robot.ID),
		Status:   domain.RobotStatusIdle,
		Location: domain.Location(cfg.Robot.InitialLocation),
		Battery:  domain.BatteryFull,
	}, time.Now)

	locomotion := usecases.NewSimulatedLocomotion(usecases.SimulatedLocomotionConfig{
		TravelTime:   cfg.Robot.TravelTime,
		DrainPerMove: usecases.DefaultDrainPerMove,
		Unreachable:  cfg.Robot.UnreachableLocations,
	}, state)

	engine := usecases.NewExecutionEngine(usecases.ExecutionConfig{
		PharmacyLocation: domain.Location(cfg.Robot.PharmacyLocation),
		HomeLocation:     domain.Location(cfg.Robot.HomeLocation),
	}, locomotion, state)

	return workers.NewCommandPoller(
		time.NewTicker(cfg.Robot.PollInterval),
		client,
		engine,
		state,
		workers.CommandPollerConfig{RobotID: domain.ID(cfg.Robot.ID)},
	), nil
}
