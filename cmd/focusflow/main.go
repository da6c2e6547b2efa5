package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/focusflow-dev/focusflow/adapter/cli"
	"github.com/focusflow-dev/focusflow/internal/app"
	"github.com/focusflow-dev/focusflow/pkg/config"
	"github.com/focusflow-dev/focusflow/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(&cli.App{
		Sessions:       container.Sessions,
		Analytics:      container.Analytics,
		CurrentUserID:  container.UserID,
		DefaultMinutes: cfg.DefaultSessionMinutes,
		TickInterval:   cfg.TimerTickInterval,
	})

	cli.Execute()
}
