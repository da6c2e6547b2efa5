// Package application contains the application layer for the analytics
// bounded context.
package application

import (
	"context"
	"log/slog"

	"github.com/focusflow-dev/focusflow/internal/analytics/application/commands"
	"github.com/focusflow-dev/focusflow/internal/analytics/application/queries"
	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// Service provides a facade over all analytics handlers.
type Service struct {
	computeSnapshotHandler *commands.ComputeSnapshotHandler
	getDashboardHandler    *queries.GetDashboardHandler
	getTrendsHandler       *queries.GetTrendsHandler

	cache  queries.DashboardCache
	logger *slog.Logger
}

// NewService creates a new analytics service. The dashboard cache may be
// nil; the dashboard is then recomputed on every query.
func NewService(snapshotRepo domain.SnapshotRepository, dataSource domain.SessionDataSource, cache queries.DashboardCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		computeSnapshotHandler: commands.NewComputeSnapshotHandler(snapshotRepo, dataSource, logger),
		getDashboardHandler:    queries.NewGetDashboardHandler(snapshotRepo, cache, logger),
		getTrendsHandler:       queries.NewGetTrendsHandler(snapshotRepo),
		cache:                  cache,
		logger:                 logger,
	}
}

// ComputeSnapshot recomputes the snapshot for one day and invalidates the
// cached dashboard.
func (s *Service) ComputeSnapshot(ctx context.Context, cmd commands.ComputeSnapshotCommand) (*domain.DailySnapshot, error) {
	snapshot, err := s.computeSnapshotHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cmd.UserID); err != nil {
			s.logger.DebugContext(ctx, "dashboard cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	return snapshot, nil
}

// GetDashboard returns the stats dashboard.
func (s *Service) GetDashboard(ctx context.Context, query queries.GetDashboardQuery) (*queries.DashboardResult, error) {
	return s.getDashboardHandler.Handle(ctx, query)
}

// GetTrends returns score and worked-minutes trends.
func (s *Service) GetTrends(ctx context.Context, query queries.GetTrendsQuery) (*queries.TrendsResult, error) {
	return s.getTrendsHandler.Handle(ctx, query)
}
