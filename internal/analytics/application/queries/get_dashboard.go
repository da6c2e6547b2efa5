// Package queries contains read-side handlers for the analytics context.
package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// DashboardResult is what the stats dashboard renders.
type DashboardResult struct {
	Today     *domain.DailySnapshot   `json:"today,omitempty"`
	Week      *domain.WeeklySummary   `json:"week,omitempty"`
	Streak    domain.Streak           `json:"streak"`
	Recent    []*domain.DailySnapshot `json:"recent,omitempty"`
	FetchedAt time.Time               `json:"fetched_at"`
}

// DashboardCache caches rendered dashboards. Implementations are best
// effort: a cache error is treated as a miss.
type DashboardCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*DashboardResult, error)
	Set(ctx context.Context, userID uuid.UUID, result *DashboardResult) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// GetDashboardQuery fetches the dashboard for a user.
type GetDashboardQuery struct {
	UserID uuid.UUID

	// SkipCache forces a recomputation, used right after mutations.
	SkipCache bool
}

// GetDashboardHandler handles dashboard queries.
type GetDashboardHandler struct {
	snapshotRepo domain.SnapshotRepository
	cache        DashboardCache
	logger       *slog.Logger
	now          func() time.Time
}

// NewGetDashboardHandler creates a new dashboard handler. The cache may be
// nil in local mode.
func NewGetDashboardHandler(snapshotRepo domain.SnapshotRepository, cache DashboardCache, logger *slog.Logger) *GetDashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetDashboardHandler{
		snapshotRepo: snapshotRepo,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*DashboardResult, error) {
	if h.cache != nil && !query.SkipCache {
		cached, err := h.cache.Get(ctx, query.UserID)
		if err != nil {
			h.logger.DebugContext(ctx, "dashboard cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	now := h.now().UTC()
	today := domain.TruncateToDay(now)
	weekStart := domain.StartOfWeek(now)

	result := &DashboardResult{FetchedAt: now}

	todaySnapshot, err := h.snapshotRepo.GetByDate(ctx, query.UserID, today)
	if err != nil {
		return nil, err
	}
	result.Today = todaySnapshot

	weekSnapshots, err := h.snapshotRepo.GetDateRange(ctx, query.UserID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	previousAvg, err := h.averageScore(ctx, query.UserID, weekStart.AddDate(0, 0, -7), weekStart)
	if err != nil {
		return nil, err
	}
	result.Week = domain.NewWeeklySummary(query.UserID, weekStart, weekSnapshots, previousAvg)

	recent, err := h.snapshotRepo.GetRecent(ctx, query.UserID, 30)
	if err != nil {
		return nil, err
	}
	result.Recent = recent

	// Streaks need the full history: a run longer than the recent window
	// would otherwise be truncated to the window size.
	history, err := h.snapshotRepo.GetDateRange(ctx, query.UserID, today.AddDate(-100, 0, 0), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	result.Streak = domain.ComputeStreaks(history, now)

	if h.cache != nil {
		if err := h.cache.Set(ctx, query.UserID, result); err != nil {
			h.logger.DebugContext(ctx, "dashboard cache write failed", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

func (h *GetDashboardHandler) averageScore(ctx context.Context, userID uuid.UUID, start, end time.Time) (float64, error) {
	snapshots, err := h.snapshotRepo.GetDateRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	days := 0
	for _, snapshot := range snapshots {
		if snapshot.HasActivity() {
			sum += snapshot.AvgScore
			days++
		}
	}
	if days == 0 {
		return 0, nil
	}
	return sum / float64(days), nil
}
