package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// PostgresSnapshotRepository implements domain.SnapshotRepository using
// PostgreSQL.
type PostgresSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshotRepository creates a new PostgreSQL snapshot
// repository.
func NewPostgresSnapshotRepository(pool *pgxpool.Pool) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{pool: pool}
}

const selectSnapshotQuery = `
	SELECT id, user_id, snapshot_date,
		sessions_scheduled, sessions_completed, sessions_missed, sessions_abandoned,
		minutes_worked, avg_score, best_score, completion_rate,
		computed_at, created_at, updated_at
	FROM daily_snapshots`

// Save inserts or replaces the snapshot for its date.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, snapshot *domain.DailySnapshot) error {
	query := `
		INSERT INTO daily_snapshots (
			id, user_id, snapshot_date,
			sessions_scheduled, sessions_completed, sessions_missed, sessions_abandoned,
			minutes_worked, avg_score, best_score, completion_rate,
			computed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			sessions_scheduled = EXCLUDED.sessions_scheduled,
			sessions_completed = EXCLUDED.sessions_completed,
			sessions_missed = EXCLUDED.sessions_missed,
			sessions_abandoned = EXCLUDED.sessions_abandoned,
			minutes_worked = EXCLUDED.minutes_worked,
			avg_score = EXCLUDED.avg_score,
			best_score = EXCLUDED.best_score,
			completion_rate = EXCLUDED.completion_rate,
			computed_at = EXCLUDED.computed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.SnapshotDate,
		snapshot.SessionsScheduled,
		snapshot.SessionsCompleted,
		snapshot.SessionsMissed,
		snapshot.SessionsAbandoned,
		snapshot.MinutesWorked,
		snapshot.AvgScore,
		snapshot.BestScore,
		snapshot.CompletionRate,
		snapshot.ComputedAt,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	)
	return err
}

// GetByDate retrieves the snapshot for a specific day.
func (r *PostgresSnapshotRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailySnapshot, error) {
	query := selectSnapshotQuery + ` WHERE user_id = $1 AND snapshot_date = $2`
	rows, err := r.pool.Query(ctx, query, userID, domain.TruncateToDay(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanPostgresSnapshot(rows)
}

// GetDateRange retrieves snapshots with dates in [start, end).
func (r *PostgresSnapshotRepository) GetDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.DailySnapshot, error) {
	query := selectSnapshotQuery + `
		WHERE user_id = $1 AND snapshot_date >= $2 AND snapshot_date < $3
		ORDER BY snapshot_date ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, domain.TruncateToDay(start), domain.TruncateToDay(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

// GetRecent retrieves the most recent snapshots, newest first.
func (r *PostgresSnapshotRepository) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DailySnapshot, error) {
	query := selectSnapshotQuery + `
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

func collectSnapshots(rows pgx.Rows) ([]*domain.DailySnapshot, error) {
	var snapshots []*domain.DailySnapshot
	for rows.Next() {
		snapshot, err := scanPostgresSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func scanPostgresSnapshot(rows pgx.Rows) (*domain.DailySnapshot, error) {
	var snapshot domain.DailySnapshot
	err := rows.Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&snapshot.SnapshotDate,
		&snapshot.SessionsScheduled,
		&snapshot.SessionsCompleted,
		&snapshot.SessionsMissed,
		&snapshot.SessionsAbandoned,
		&snapshot.MinutesWorked,
		&snapshot.AvgScore,
		&snapshot.BestScore,
		&snapshot.CompletionRate,
		&snapshot.ComputedAt,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// PostgresSessionDataSource implements domain.SessionDataSource by reading
// the work_sessions table directly.
type PostgresSessionDataSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionDataSource creates a new PostgreSQL session data
// source.
func NewPostgresSessionDataSource(pool *pgxpool.Pool) *PostgresSessionDataSource {
	return &PostgresSessionDataSource{pool: pool}
}

// GetDayStats aggregates the sessions scheduled on the given day.
func (s *PostgresSessionDataSource) GetDayStats(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.SessionStats, error) {
	dayStart := domain.TruncateToDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'missed'),
			COUNT(*) FILTER (WHERE status = 'abandoned'),
			COALESCE(SUM(completed_minutes) FILTER (WHERE status IN ('completed', 'abandoned')), 0)
		FROM work_sessions
		WHERE user_id = $1 AND scheduled_start >= $2 AND scheduled_start < $3
	`

	stats := &domain.SessionStats{}
	err := s.pool.QueryRow(ctx, query, userID, dayStart, dayEnd).
		Scan(&stats.Scheduled, &stats.Completed, &stats.Missed, &stats.Abandoned, &stats.MinutesWorked)
	if err != nil {
		return nil, err
	}

	scoreQuery := `
		SELECT total_score
		FROM work_sessions
		WHERE user_id = $1 AND status = 'completed' AND total_score IS NOT NULL
			AND scheduled_start >= $2 AND scheduled_start < $3
	`
	rows, err := s.pool.Query(ctx, scoreQuery, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		stats.Scores = append(stats.Scores, score)
	}
	return stats, rows.Err()
}
