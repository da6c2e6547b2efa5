package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// SQLiteSessionDataSource implements domain.SessionDataSource by reading
// the work_sessions table directly.
type SQLiteSessionDataSource struct {
	db *sql.DB
}

// NewSQLiteSessionDataSource creates a new SQLite session data source.
func NewSQLiteSessionDataSource(db *sql.DB) *SQLiteSessionDataSource {
	return &SQLiteSessionDataSource{db: db}
}

// GetDayStats aggregates the sessions scheduled on the given day.
func (s *SQLiteSessionDataSource) GetDayStats(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.SessionStats, error) {
	dayStart := domain.TruncateToDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'completed' THEN 1 END),
			COUNT(CASE WHEN status = 'missed' THEN 1 END),
			COUNT(CASE WHEN status = 'abandoned' THEN 1 END),
			COALESCE(SUM(CASE WHEN status IN ('completed', 'abandoned') THEN completed_minutes END), 0)
		FROM work_sessions
		WHERE user_id = ? AND scheduled_start >= ? AND scheduled_start < ?
	`

	stats := &domain.SessionStats{}
	err := s.db.QueryRowContext(ctx, query, userID.String(),
		dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339)).
		Scan(&stats.Scheduled, &stats.Completed, &stats.Missed, &stats.Abandoned, &stats.MinutesWorked)
	if err != nil {
		return nil, err
	}

	scoreQuery := `
		SELECT total_score
		FROM work_sessions
		WHERE user_id = ? AND status = 'completed' AND total_score IS NOT NULL
			AND scheduled_start >= ? AND scheduled_start < ?
	`
	rows, err := s.db.QueryContext(ctx, scoreQuery, userID.String(),
		dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339))
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
