package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

type mockSnapshotRepo struct {
	mock.Mock
}

func (m *mockSnapshotRepo) Save(ctx context.Context, snapshot *domain.DailySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *mockSnapshotRepo) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailySnapshot, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) GetDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.DailySnapshot, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailySnapshot), args.Error(1)
}

func (m *mockSnapshotRepo) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DailySnapshot, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailySnapshot), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, userID uuid.UUID) (*DashboardResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardResult), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, userID uuid.UUID, result *DashboardResult) error {
	args := m.Called(ctx, userID, result)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func activeSnapshot(userID uuid.UUID, date time.Time, avg float64) *domain.DailySnapshot {
	snapshot := domain.NewDailySnapshot(userID, date)
	snapshot.SessionsCompleted = 1
	snapshot.AvgScore = avg
	snapshot.MinutesWorked = 30
	return snapshot
}

func TestGetDashboardHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC) // Wednesday
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("builds dashboard from snapshots", func(t *testing.T) {
		todaySnapshot := activeSnapshot(userID, today, 85)
		repo := new(mockSnapshotRepo)
		repo.On("GetByDate", mock.Anything, userID, today).Return(todaySnapshot, nil)
		repo.On("GetDateRange", mock.Anything, userID, weekStart, weekStart.AddDate(0, 0, 7)).
			Return([]*domain.DailySnapshot{todaySnapshot}, nil)
		repo.On("GetDateRange", mock.Anything, userID, weekStart.AddDate(0, 0, -7), weekStart).
			Return(nil, nil)
		repo.On("GetRecent", mock.Anything, userID, 30).
			Return([]*domain.DailySnapshot{todaySnapshot, activeSnapshot(userID, today.AddDate(0, 0, -1), 70)}, nil)
		repo.On("GetDateRange", mock.Anything, userID, today.AddDate(-100, 0, 0), today.AddDate(0, 0, 1)).
			Return([]*domain.DailySnapshot{todaySnapshot, activeSnapshot(userID, today.AddDate(0, 0, -1), 70)}, nil)

		handler := NewGetDashboardHandler(repo, nil, nil)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, todaySnapshot, result.Today)
		require.NotNil(t, result.Week)
		assert.Equal(t, weekStart, result.Week.WeekStart)
		assert.Equal(t, domain.Streak{Current: 2, Longest: 2}, result.Streak)
	})

	t.Run("streak spans more days than the recent window", func(t *testing.T) {
		history := make([]*domain.DailySnapshot, 0, 45)
		recent := make([]*domain.DailySnapshot, 0, 30)
		for i := 0; i < 45; i++ {
			snapshot := activeSnapshot(userID, today.AddDate(0, 0, -i), 75)
			history = append(history, snapshot)
			if i < 30 {
				recent = append(recent, snapshot)
			}
		}

		repo := new(mockSnapshotRepo)
		repo.On("GetByDate", mock.Anything, userID, today).Return(history[0], nil)
		repo.On("GetDateRange", mock.Anything, userID, weekStart, weekStart.AddDate(0, 0, 7)).
			Return(history[:3], nil)
		repo.On("GetDateRange", mock.Anything, userID, weekStart.AddDate(0, 0, -7), weekStart).
			Return(nil, nil)
		repo.On("GetRecent", mock.Anything, userID, 30).Return(recent, nil)
		repo.On("GetDateRange", mock.Anything, userID, today.AddDate(-100, 0, 0), today.AddDate(0, 0, 1)).
			Return(history, nil)

		handler := NewGetDashboardHandler(repo, nil, nil)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, domain.Streak{Current: 45, Longest: 45}, result.Streak)
		assert.Len(t, result.Recent, 30)
	})

	t.Run("returns cached dashboard on a hit", func(t *testing.T) {
		cached := &DashboardResult{FetchedAt: now.Add(-time.Minute)}
		cache := new(mockCache)
		cache.On("Get", mock.Anything, userID).Return(cached, nil)

		handler := NewGetDashboardHandler(new(mockSnapshotRepo), cache, nil)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})

		require.NoError(t, err)
		assert.Same(t, cached, result)
	})

	t.Run("cache error falls through to recompute", func(t *testing.T) {
		repo := new(mockSnapshotRepo)
		repo.On("GetByDate", mock.Anything, userID, today).Return(nil, nil)
		repo.On("GetDateRange", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("GetRecent", mock.Anything, userID, 30).Return(nil, nil)

		cache := new(mockCache)
		cache.On("Get", mock.Anything, userID).Return(nil, assert.AnError)
		cache.On("Set", mock.Anything, userID, mock.Anything).Return(nil)

		handler := NewGetDashboardHandler(repo, cache, nil)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID})

		require.NoError(t, err)
		assert.Nil(t, result.Today)
		cache.AssertCalled(t, "Set", mock.Anything, userID, mock.Anything)
	})

	t.Run("skip cache bypasses reads", func(t *testing.T) {
		repo := new(mockSnapshotRepo)
		repo.On("GetByDate", mock.Anything, userID, today).Return(nil, nil)
		repo.On("GetDateRange", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("GetRecent", mock.Anything, userID, 30).Return(nil, nil)

		cache := new(mockCache)
		cache.On("Set", mock.Anything, userID, mock.Anything).Return(nil)

		handler := NewGetDashboardHandler(repo, cache, nil)
		handler.now = func() time.Time { return now }

		_, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: userID, SkipCache: true})

		require.NoError(t, err)
		cache.AssertNotCalled(t, "Get", mock.Anything, userID)
	})
}

func TestGetTrendsHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("computes trend against previous period", func(t *testing.T) {
		days := 7
		currentStart := today.AddDate(0, 0, -days+1)
		previousStart := currentStart.AddDate(0, 0, -days)

		current := []*domain.DailySnapshot{
			activeSnapshot(userID, today.AddDate(0, 0, -1), 90),
			activeSnapshot(userID, today, 80),
		}
		previous := []*domain.DailySnapshot{
			activeSnapshot(userID, previousStart, 50),
		}

		repo := new(mockSnapshotRepo)
		repo.On("GetDateRange", mock.Anything, userID, currentStart, today.AddDate(0, 0, 1)).Return(current, nil)
		repo.On("GetDateRange", mock.Anything, userID, previousStart, currentStart).Return(previous, nil)

		handler := NewGetTrendsHandler(repo)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetTrendsQuery{UserID: userID, Days: days})

		require.NoError(t, err)
		assert.Equal(t, "up", result.ScoreTrend.Direction)
		assert.InDelta(t, 70.0, result.ScoreTrend.Change, 0.0001)
		require.NotNil(t, result.BestDay)
		assert.InDelta(t, 90.0, result.BestDay.AvgScore, 0.0001)
		require.NotNil(t, result.WorstDay)
		assert.InDelta(t, 80.0, result.WorstDay.AvgScore, 0.0001)
	})

	t.Run("no previous data keeps trend stable", func(t *testing.T) {
		repo := new(mockSnapshotRepo)
		repo.On("GetDateRange", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, nil)

		handler := NewGetTrendsHandler(repo)
		handler.now = func() time.Time { return now }

		result, err := handler.Handle(context.Background(), GetTrendsQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, "stable", result.ScoreTrend.Direction)
		assert.Nil(t, result.BestDay)
	})
}
