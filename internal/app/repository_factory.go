package app

import (
	"context"
	"fmt"

	analyticsPersistence "github.com/focusflow-dev/focusflow/internal/analytics/infrastructure/persistence"
	sessionsPersistence "github.com/focusflow-dev/focusflow/internal/sessions/infrastructure/persistence"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/database"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/migrations"
)

// repositoryFactory opens the right storage backend for the detected
// driver and builds the repositories on top of it.
type repositoryFactory struct {
	c *Container
}

func newRepositoryFactory(c *Container) *repositoryFactory {
	return &repositoryFactory{c: c}
}

func (f *repositoryFactory) init(ctx context.Context) error {
	switch f.c.Driver {
	case database.DriverSQLite:
		return f.initSQLite(ctx)
	case database.DriverPostgres:
		return f.initPostgres(ctx)
	default:
		return fmt.Errorf("unsupported database driver %q", f.c.Driver)
	}
}

func (f *repositoryFactory) initSQLite(ctx context.Context) error {
	path := f.c.Config.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}

	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	f.c.SQLiteDB = db
	f.c.SessionRepo = sessionsPersistence.NewSQLiteSessionRepository(db)
	f.c.SnapshotRepo = analyticsPersistence.NewSQLiteSnapshotRepository(db)
	f.c.DataSource = analyticsPersistence.NewSQLiteSessionDataSource(db)

	f.c.Logger.Debug("storage initialized", "driver", "sqlite", "path", path)
	return nil
}

func (f *repositoryFactory) initPostgres(ctx context.Context) error {
	pool, err := database.NewPostgresPool(ctx, f.c.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	f.c.PgPool = pool
	f.c.SessionRepo = sessionsPersistence.NewPostgresSessionRepository(pool)
	f.c.SnapshotRepo = analyticsPersistence.NewPostgresSnapshotRepository(pool)
	f.c.DataSource = analyticsPersistence.NewPostgresSessionDataSource(pool)

	f.c.Logger.Debug("storage initialized", "driver", "postgres")
	return nil
}
