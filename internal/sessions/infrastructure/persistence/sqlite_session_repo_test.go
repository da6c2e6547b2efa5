package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow-dev/focusflow/internal/scoring"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/migrations"

	_ "modernc.org/sqlite"
)

// setupSessionTestDB creates an in-memory SQLite database with the schema
// applied.
func setupSessionTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), sqlDB))
	return sqlDB
}

func newStoredSession(t *testing.T, userID uuid.UUID, start time.Time) *domain.WorkSession {
	t.Helper()
	session, err := domain.NewWorkSession(userID, "Deep work", start, 45)
	require.NoError(t, err)
	return session
}

func TestSQLiteSessionRepository_CreateAndGet(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	session := newStoredSession(t, userID, start)
	session.WithCategory("writing").WithRepeat(domain.RepeatWeekdays)
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Deep work", got.Title)
	assert.Equal(t, "writing", got.Category)
	assert.True(t, got.ScheduledStart.Equal(start))
	assert.Equal(t, 45, got.PlannedMinutes)
	assert.Equal(t, domain.SessionStatusScheduled, got.Status)
	assert.Nil(t, got.ActualStart)
	assert.Nil(t, got.Score)
	require.NotNil(t, got.Repeat)
	assert.Equal(t, domain.RepeatWeekdays, *got.Repeat)
}

func TestSQLiteSessionRepository_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteSessionRepository_UpdateRoundTrip(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	session := newStoredSession(t, userID, start)
	require.NoError(t, repo.Create(ctx, session))

	require.NoError(t, session.Start(start.Add(3*time.Minute)))
	require.NoError(t, session.Pause(start.Add(20*time.Minute)))
	require.NoError(t, session.Resume(start.Add(25*time.Minute)))
	require.NoError(t, session.Complete(start.Add(53*time.Minute)))
	session.SetScore(scoring.Breakdown{Promptness: 28, Focus: 60, CommitmentBonus: 5, Total: 93})
	require.NoError(t, session.AddReflection("Good block", 4))
	require.NoError(t, repo.Update(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, domain.SessionStatusCompleted, got.Status)
	require.NotNil(t, got.ActualStart)
	assert.True(t, got.ActualStart.Equal(start.Add(3*time.Minute)))
	require.NotNil(t, got.CompletedMinutes)
	assert.Equal(t, 45, *got.CompletedMinutes)
	assert.Equal(t, 300, got.PausedSeconds)
	assert.Equal(t, "Good block", got.Reflection)
	assert.Equal(t, 4, got.FocusRating)
	require.NotNil(t, got.Score)
	assert.Equal(t, scoring.Breakdown{Promptness: 28, Focus: 60, CommitmentBonus: 5, Total: 93}, *got.Score)
}

func TestSQLiteSessionRepository_GetRunning(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("no running session", func(t *testing.T) {
		got, err := repo.GetRunning(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("finds active session", func(t *testing.T) {
		session := newStoredSession(t, userID, start)
		require.NoError(t, session.Start(start))
		require.NoError(t, repo.Create(ctx, session))

		got, err := repo.GetRunning(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.ID, got.ID)
	})

	t.Run("finds paused session", func(t *testing.T) {
		running, err := repo.GetRunning(ctx, userID)
		require.NoError(t, err)
		require.NoError(t, running.Pause(start.Add(10*time.Minute)))
		require.NoError(t, repo.Update(ctx, running))

		got, err := repo.GetRunning(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.SessionStatusPaused, got.Status)
		require.NotNil(t, got.PauseStartedAt)
	})

	t.Run("ignores other users", func(t *testing.T) {
		got, err := repo.GetRunning(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSQLiteSessionRepository_ListByDateRange(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for day := 0; day < 3; day++ {
		session := newStoredSession(t, userID, monday.AddDate(0, 0, day))
		require.NoError(t, repo.Create(ctx, session))
	}

	got, err := repo.ListByDateRange(ctx, userID, monday, monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].ScheduledStart.Before(got[1].ScheduledStart))
}

func TestSQLiteSessionRepository_ListByStatus(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	scheduled := newStoredSession(t, userID, start)
	require.NoError(t, repo.Create(ctx, scheduled))

	completed := newStoredSession(t, userID, start.Add(2*time.Hour))
	require.NoError(t, completed.Start(start.Add(2*time.Hour)))
	require.NoError(t, completed.Complete(start.Add(3*time.Hour)))
	require.NoError(t, repo.Create(ctx, completed))

	got, err := repo.ListByStatus(ctx, userID, domain.SessionStatusCompleted, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, completed.ID, got[0].ID)
}

func TestSQLiteSessionRepository_ListOverdue(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Scheduled Monday, deadline is Tuesday midnight.
	past := newStoredSession(t, userID, monday)
	require.NoError(t, repo.Create(ctx, past))

	// Scheduled Wednesday, still within its day at the cutoff.
	upcoming := newStoredSession(t, userID, monday.AddDate(0, 0, 2))
	require.NoError(t, repo.Create(ctx, upcoming))

	cutoff := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	got, err := repo.ListOverdue(ctx, userID, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, past.ID, got[0].ID)
}

func TestSQLiteSessionRepository_Delete(t *testing.T) {
	repo := NewSQLiteSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	session := newStoredSession(t, userID, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, session))
	require.NoError(t, repo.Delete(ctx, session.ID))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
