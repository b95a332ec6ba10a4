package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridebuddy.app/configs/configsapp"
	"bridebuddy.app/configs/configslog"

	"go.uber.org/zap"
)

func main() {
	cfg := configsapp.MustLoad()
	defer configslog.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := configsapp.Build(ctx, cfg, "")
	if err != nil {
		configslog.Log.Fatal("Application could not be built", zap.Error(err))
	}
	defer app.Close()

	go func() {
		<-ctx.Done()
		configslog.SLog.Info("Shutting down...")
		if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			configslog.Log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	configslog.SLog.Infof("Listening on %s", cfg.HTTPAddr)
	if err := app.Fiber.Listen(cfg.HTTPAddr); err != nil {
		configslog.Log.Error("Server stopped with error", zap.Error(err))
	}
}
