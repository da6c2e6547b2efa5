// The worker consumes session events from RabbitMQ, keeps daily snapshots
// current and periodically sweeps overdue sessions. It is only needed in
// hosted deployments; in local mode the CLI handles everything in process.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focusflow-dev/focusflow/internal/analytics/application/subscribers"
	"github.com/focusflow-dev/focusflow/internal/app"
	"github.com/focusflow-dev/focusflow/internal/sessions/application/commands"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
	"github.com/focusflow-dev/focusflow/pkg/config"
	"github.com/focusflow-dev/focusflow/pkg/observability"
)

const sweepInterval = 5 * time.Minute

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required for the worker")
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.WorkerQueueName,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to connect consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	recomputer := subscribers.NewSnapshotRecomputer(container.Analytics, logger)
	for _, routingKey := range recomputer.RoutingKeys() {
		if err := consumer.Register(routingKey, recomputer.Handle); err != nil {
			logger.Error("failed to register handler", "routing_key", routingKey, "error", err)
			os.Exit(1)
		}
	}

	go runSweeper(ctx, container, logger)

	logger.Info("worker started", "queue", cfg.WorkerQueueName)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}

// runSweeper marks overdue sessions as missed on a fixed interval.
func runSweeper(ctx context.Context, container *app.Container, logger *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := container.Sessions.SweepMissed(ctx, commands.SweepMissedCommand{
				UserID: container.UserID,
			})
			if err != nil {
				logger.Warn("missed session sweep failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("marked sessions as missed", "count", count)
			}
		}
	}
}
