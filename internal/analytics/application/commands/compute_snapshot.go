// Package commands contains write-side handlers for the analytics context.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// ComputeSnapshotCommand computes (or recomputes) the snapshot for one day.
type ComputeSnapshotCommand struct {
	UserID uuid.UUID
	Date   time.Time
}

// ComputeSnapshotHandler handles snapshot computation. It runs after every
// session state change and is idempotent: recomputing a day replaces its
// snapshot.
type ComputeSnapshotHandler struct {
	snapshotRepo domain.SnapshotRepository
	dataSource   domain.SessionDataSource
	logger       *slog.Logger
}

// NewComputeSnapshotHandler creates a new compute snapshot handler.
func NewComputeSnapshotHandler(snapshotRepo domain.SnapshotRepository, dataSource domain.SessionDataSource, logger *slog.Logger) *ComputeSnapshotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComputeSnapshotHandler{
		snapshotRepo: snapshotRepo,
		dataSource:   dataSource,
		logger:       logger,
	}
}

// Handle executes the compute snapshot command.
func (h *ComputeSnapshotHandler) Handle(ctx context.Context, cmd ComputeSnapshotCommand) (*domain.DailySnapshot, error) {
	day := domain.TruncateToDay(cmd.Date)

	stats, err := h.dataSource.GetDayStats(ctx, cmd.UserID, day)
	if err != nil {
		return nil, err
	}

	snapshot, err := h.snapshotRepo.GetByDate(ctx, cmd.UserID, day)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = domain.NewDailySnapshot(cmd.UserID, day)
	}

	snapshot.Apply(*stats)

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	h.logger.DebugContext(ctx, "computed daily snapshot",
		slog.String("date", day.Format("2006-01-02")),
		slog.Int("completed", snapshot.SessionsCompleted),
		slog.Float64("avg_score", snapshot.AvgScore))

	return snapshot, nil
}
