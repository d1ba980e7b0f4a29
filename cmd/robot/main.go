package main

import (
	"context"
	"nami-server/cmd/robot/app"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.NewRobotCommand(ctx).Execute()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
