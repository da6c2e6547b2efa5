// Package app wires configuration, storage, the event bus and the
// application services into a single container used by the CLI and the
// worker.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	analyticsApp "github.com/focusflow-dev/focusflow/internal/analytics/application"
	"github.com/focusflow-dev/focusflow/internal/analytics/application/subscribers"
	analyticsDomain "github.com/focusflow-dev/focusflow/internal/analytics/domain"
	"github.com/focusflow-dev/focusflow/internal/analytics/infrastructure/cache"
	sessionsApp "github.com/focusflow-dev/focusflow/internal/sessions/application"
	sessionsDomain "github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/database"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/migrations"
	"github.com/focusflow-dev/focusflow/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	Driver   database.Driver
	SQLiteDB *sql.DB
	PgPool   *pgxpool.Pool

	RedisClient *redis.Client

	SessionRepo    sessionsDomain.SessionRepository
	SnapshotRepo   analyticsDomain.SnapshotRepository
	DataSource     analyticsDomain.SessionDataSource
	EventPublisher eventbus.Publisher

	Sessions  *sessionsApp.Service
	Analytics *analyticsApp.Service
}

// NewContainer builds the full dependency graph. With no DATABASE_URL the
// app runs in zero-config local mode: SQLite storage and an in-process
// event bus that keeps snapshots current synchronously.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid FOCUSFLOW_USER_ID: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: userID,
		Driver: database.DetectDriver(cfg.DatabaseURL),
	}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.initCacheAndBus(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initServices()

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	repos := newRepositoryFactory(c)
	return repos.init(ctx)
}

func (c *Container) initCacheAndBus(ctx context.Context) error {
	if c.Config.RedisURL != "" {
		opts, err := redis.ParseURL(c.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		c.RedisClient = redis.NewClient(opts)
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			// The cache is optional; a dead Redis degrades to direct reads.
			c.Logger.Warn("redis unreachable, dashboard cache disabled", "error", err)
			_ = c.RedisClient.Close()
			c.RedisClient = nil
		}
	}

	switch {
	case c.Config.RabbitMQURL != "":
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		c.EventPublisher = publisher
	default:
		// Local mode dispatches events in process.
		c.EventPublisher = eventbus.NewInProcessBus(c.Logger)
	}

	return nil
}

func (c *Container) initServices() {
	c.Sessions = sessionsApp.NewService(c.SessionRepo, c.EventPublisher, c.Logger)

	var dashboardCache *cache.DashboardCache
	if c.RedisClient != nil {
		dashboardCache = cache.NewDashboardCache(c.RedisClient, cache.DefaultTTL, c.Logger)
	}
	if dashboardCache != nil {
		c.Analytics = analyticsApp.NewService(c.SnapshotRepo, c.DataSource, dashboardCache, c.Logger)
	} else {
		c.Analytics = analyticsApp.NewService(c.SnapshotRepo, c.DataSource, nil, c.Logger)
	}

	// In local mode the bus dispatches synchronously, so completing a
	// session updates today's snapshot before the command returns.
	if bus, ok := c.EventPublisher.(*eventbus.InProcessBus); ok {
		recomputer := subscribers.NewSnapshotRecomputer(c.Analytics, c.Logger)
		for _, key := range recomputer.RoutingKeys() {
			bus.Subscribe(key, recomputer.Handle)
		}
	}
}

// RunMigrations applies the embedded schema in SQLite mode. Postgres
// deployments manage their schema out of band.
func (c *Container) RunMigrations(ctx context.Context) error {
	if c.Driver != database.DriverSQLite || c.SQLiteDB == nil {
		return nil
	}
	return migrations.RunSQLiteMigrations(ctx, c.SQLiteDB)
}

// Close releases every held connection.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite database", "error", err)
		}
	}
	if c.PgPool != nil {
		c.PgPool.Close()
	}
}
