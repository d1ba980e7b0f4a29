package main

import (
	"context"
	"log/slog"
	"nami-server/cmd/api/wire"
	"nami-server/cmd/config"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"
	"nami-server/internal/infra/node"
	"nami-server/internal/logger"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.LoadConfig()

	node.SetRole(node.RoleAPI)
	info := node.GetNodeInfo()
	logger.Setup(logger.Options{
		Level: cfg.General.LogLevel,
		Attrs: info.LogAttrs(),
	})
	slog.Info("nami dispatch server starting", slog.String("version", info.Version))
	slog.Debug("config loaded", slog.Any("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := startTelemetry(ctx, info)
	if err != nil {
		slog.Error("starting telemetry", slog.Any("error", err))
		os.Exit(1)
	}

	broker := async.NewLocalBroker()
	app, cleanup, err := wire.InitializeApplication(broker)
	if err != nil {
		slog.Error("initializing application", slog.Any("error", err))
		os.Exit(1)
	}

	if err := usecases.RegisterDispatchMetrics(prometheus.DefaultRegisterer, app.Dispatch); err != nil {
		slog.Error("registering dispatch metrics", slog.Any("error", err))
		os.Exit(1)
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	for _, worker := range app.Workers() {
		workers.Add(1)
		go worker.Run(workerCtx, workers.Done)
	}
	go app.Server.Run()

	<-ctx.Done()
	slog.Info("shutdown requested")

	// Stop intake first, then let in-flight workers drain.
	app.Server.Shutdown()
	app.EventPush.Shutdown()
	cancelWorkers()
	workers.Wait()
	broker.Stop()
	cleanup()

	if err := tel.Shutdown(); err != nil {
		slog.Warn("flushing telemetry", slog.Any("error", err))
	}
	slog.Info("nami dispatch server stopped")
}
