// Package persistence contains the storage adapters for the analytics
// bounded context.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

const snapshotColumns = `id, user_id, snapshot_date,
		sessions_scheduled, sessions_completed, sessions_missed, sessions_abandoned,
		minutes_worked, avg_score, best_score, completion_rate,
		computed_at, created_at, updated_at`

const dateOnly = "2006-01-02"

// SQLiteSnapshotRepository implements domain.SnapshotRepository using
// SQLite.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository creates a new SQLite snapshot repository.
func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

// Save inserts or replaces the snapshot for its date.
func (r *SQLiteSnapshotRepository) Save(ctx context.Context, snapshot *domain.DailySnapshot) error {
	query := `
		INSERT INTO daily_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			sessions_scheduled = excluded.sessions_scheduled,
			sessions_completed = excluded.sessions_completed,
			sessions_missed = excluded.sessions_missed,
			sessions_abandoned = excluded.sessions_abandoned,
			minutes_worked = excluded.minutes_worked,
			avg_score = excluded.avg_score,
			best_score = excluded.best_score,
			completion_rate = excluded.completion_rate,
			computed_at = excluded.computed_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID.String(),
		snapshot.UserID.String(),
		snapshot.SnapshotDate.Format(dateOnly),
		snapshot.SessionsScheduled,
		snapshot.SessionsCompleted,
		snapshot.SessionsMissed,
		snapshot.SessionsAbandoned,
		snapshot.MinutesWorked,
		snapshot.AvgScore,
		snapshot.BestScore,
		snapshot.CompletionRate,
		snapshot.ComputedAt.Format(time.RFC3339),
		snapshot.CreatedAt.Format(time.RFC3339),
		snapshot.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// GetByDate retrieves the snapshot for a specific day.
func (r *SQLiteSnapshotRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM daily_snapshots WHERE user_id = ? AND snapshot_date = ?`
	row := r.db.QueryRowContext(ctx, query, userID.String(), domain.TruncateToDay(date).Format(dateOnly))
	return r.scanSnapshot(row)
}

// GetDateRange retrieves snapshots with dates in [start, end).
func (r *SQLiteSnapshotRepository) GetDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = ? AND snapshot_date >= ? AND snapshot_date < ?
		ORDER BY snapshot_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(),
		domain.TruncateToDay(start).Format(dateOnly), domain.TruncateToDay(end).Format(dateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSnapshots(rows)
}

// GetRecent retrieves the most recent snapshots, newest first.
func (r *SQLiteSnapshotRepository) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = ?
		ORDER BY snapshot_date DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSnapshots(rows)
}

func (r *SQLiteSnapshotRepository) scanSnapshot(row *sql.Row) (*domain.DailySnapshot, error) {
	snapshot, err := scanDailySnapshot(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return snapshot, nil
}

func (r *SQLiteSnapshotRepository) scanSnapshots(rows *sql.Rows) ([]*domain.DailySnapshot, error) {
	var snapshots []*domain.DailySnapshot
	for rows.Next() {
		snapshot, err := scanDailySnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func scanDailySnapshot(scan func(dest ...any) error) (*domain.DailySnapshot, error) {
	var snapshot domain.DailySnapshot
	var idStr, userIDStr, dateStr string
	var computedAtStr, createdAtStr, updatedAtStr string

	err := scan(
		&idStr,
		&userIDStr,
		&dateStr,
		&snapshot.SessionsScheduled,
		&snapshot.SessionsCompleted,
		&snapshot.SessionsMissed,
		&snapshot.SessionsAbandoned,
		&snapshot.MinutesWorked,
		&snapshot.AvgScore,
		&snapshot.BestScore,
		&snapshot.CompletionRate,
		&computedAtStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	snapshot.ID, _ = uuid.Parse(idStr)
	snapshot.UserID, _ = uuid.Parse(userIDStr)
	snapshot.SnapshotDate, _ = time.Parse(dateOnly, dateStr)
	snapshot.ComputedAt, _ = time.Parse(time.RFC3339, computedAtStr)
	snapshot.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	snapshot.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	return &snapshot, nil
}
