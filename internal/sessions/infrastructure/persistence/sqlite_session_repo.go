// Package persistence contains the storage adapters for the sessions
// bounded context.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/scoring"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

const sessionColumns = `id, user_id, title, category, scheduled_start, planned_minutes,
		actual_start, ended_at, completed_minutes, paused_seconds, pause_started_at,
		status, reflection, focus_rating,
		promptness_score, focus_score, commitment_bonus, total_score,
		repeat_rule, created_at, updated_at`

// SQLiteSessionRepository implements domain.SessionRepository using SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLite session repository.
func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

// Create inserts a new session.
func (r *SQLiteSessionRepository) Create(ctx context.Context, session *domain.WorkSession) error {
	query := `
		INSERT INTO work_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	fields := writeFields(session)
	_, err := r.db.ExecContext(ctx, query,
		session.ID.String(),
		session.UserID.String(),
		session.Title,
		session.Category,
		session.ScheduledStart.Format(time.RFC3339),
		session.PlannedMinutes,
		fields.actualStart,
		fields.endedAt,
		fields.completedMinutes,
		session.PausedSeconds,
		fields.pauseStartedAt,
		string(session.Status),
		session.Reflection,
		session.FocusRating,
		fields.promptness,
		fields.focus,
		fields.commitment,
		fields.total,
		fields.repeatRule,
		session.CreatedAt.Format(time.RFC3339),
		session.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// Update persists the mutable state of an existing session.
func (r *SQLiteSessionRepository) Update(ctx context.Context, session *domain.WorkSession) error {
	query := `
		UPDATE work_sessions SET
			actual_start = ?, ended_at = ?, completed_minutes = ?,
			paused_seconds = ?, pause_started_at = ?, status = ?,
			reflection = ?, focus_rating = ?,
			promptness_score = ?, focus_score = ?, commitment_bonus = ?, total_score = ?,
			updated_at = ?
		WHERE id = ?
	`

	fields := writeFields(session)
	_, err := r.db.ExecContext(ctx, query,
		fields.actualStart,
		fields.endedAt,
		fields.completedMinutes,
		session.PausedSeconds,
		fields.pauseStartedAt,
		string(session.Status),
		session.Reflection,
		session.FocusRating,
		fields.promptness,
		fields.focus,
		fields.commitment,
		fields.total,
		time.Now().UTC().Format(time.RFC3339),
		session.ID.String(),
	)
	return err
}

// GetByID retrieves a session by ID. Returns (nil, nil) when not found.
func (r *SQLiteSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())
	return r.scanSession(row)
}

// GetRunning retrieves the user's active or paused session.
func (r *SQLiteSessionRepository) GetRunning(ctx context.Context, userID uuid.UUID) (*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE user_id = ? AND status IN ('active', 'paused')
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID.String())
	return r.scanSession(row)
}

// ListByDateRange retrieves sessions scheduled within [from, to).
func (r *SQLiteSessionRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE user_id = ? AND scheduled_start >= ? AND scheduled_start < ?
		ORDER BY scheduled_start ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(), from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListByStatus retrieves the most recent sessions with a given status.
func (r *SQLiteSessionRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status domain.SessionStatus, limit int) ([]*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE user_id = ? AND status = ?
		ORDER BY scheduled_start DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(), string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListOverdue retrieves scheduled sessions whose day-boundary deadline
// passed before the given instant. The deadline is the start of the day
// after the scheduled start, so any session scheduled more than a day
// before the cutoff qualifies; borderline rows are re-checked in Go.
func (r *SQLiteSessionRepository) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE user_id = ? AND status = 'scheduled' AND scheduled_start < ?
		ORDER BY scheduled_start ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID.String(), before.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}

	overdue := make([]*domain.WorkSession, 0, len(sessions))
	for _, session := range sessions {
		if session.Deadline().Before(before) {
			overdue = append(overdue, session)
		}
	}
	return overdue, nil
}

// Delete removes a session.
func (r *SQLiteSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM work_sessions WHERE id = ?`, id.String())
	return err
}

type sessionWriteFields struct {
	actualStart      sql.NullString
	endedAt          sql.NullString
	pauseStartedAt   sql.NullString
	completedMinutes sql.NullInt32
	promptness       sql.NullInt32
	focus            sql.NullInt32
	commitment       sql.NullInt32
	total            sql.NullInt32
	repeatRule       sql.NullString
}

func writeFields(session *domain.WorkSession) sessionWriteFields {
	var f sessionWriteFields

	if session.ActualStart != nil {
		f.actualStart = sql.NullString{String: session.ActualStart.Format(time.RFC3339), Valid: true}
	}
	if session.EndedAt != nil {
		f.endedAt = sql.NullString{String: session.EndedAt.Format(time.RFC3339), Valid: true}
	}
	if session.PauseStartedAt != nil {
		f.pauseStartedAt = sql.NullString{String: session.PauseStartedAt.Format(time.RFC3339), Valid: true}
	}
	if session.CompletedMinutes != nil {
		f.completedMinutes = sql.NullInt32{Int32: int32(*session.CompletedMinutes), Valid: true}
	}
	if session.Score != nil {
		f.promptness = sql.NullInt32{Int32: int32(session.Score.Promptness), Valid: true}
		f.focus = sql.NullInt32{Int32: int32(session.Score.Focus), Valid: true}
		f.commitment = sql.NullInt32{Int32: int32(session.Score.CommitmentBonus), Valid: true}
		f.total = sql.NullInt32{Int32: int32(session.Score.Total), Valid: true}
	}
	if session.Repeat != nil {
		f.repeatRule = sql.NullString{String: session.Repeat.String(), Valid: true}
	}

	return f
}

func (r *SQLiteSessionRepository) scanSession(row *sql.Row) (*domain.WorkSession, error) {
	session, err := scanWorkSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *SQLiteSessionRepository) scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		session, err := scanWorkSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// scanWorkSession maps one row onto a WorkSession. The scan function comes
// from either sql.Row or sql.Rows.
func scanWorkSession(scan func(dest ...any) error) (*domain.WorkSession, error) {
	var session domain.WorkSession
	var idStr, userIDStr string
	var category sql.NullString
	var scheduledStartStr string
	var actualStartStr, endedAtStr, pauseStartedAtStr sql.NullString
	var completedMins sql.NullInt32
	var reflection sql.NullString
	var promptness, focus, commitment, total sql.NullInt32
	var repeatRule sql.NullString
	var createdAtStr, updatedAtStr string

	err := scan(
		&idStr,
		&userIDStr,
		&session.Title,
		&category,
		&scheduledStartStr,
		&session.PlannedMinutes,
		&actualStartStr,
		&endedAtStr,
		&completedMins,
		&session.PausedSeconds,
		&pauseStartedAtStr,
		&session.Status,
		&reflection,
		&session.FocusRating,
		&promptness,
		&focus,
		&commitment,
		&total,
		&repeatRule,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	session.ID, _ = uuid.Parse(idStr)
	session.UserID, _ = uuid.Parse(userIDStr)
	session.Category = category.String
	session.Reflection = reflection.String
	session.ScheduledStart, _ = time.Parse(time.RFC3339, scheduledStartStr)
	session.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	session.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	if actualStartStr.Valid {
		actualStart, _ := time.Parse(time.RFC3339, actualStartStr.String)
		session.ActualStart = &actualStart
	}
	if endedAtStr.Valid {
		endedAt, _ := time.Parse(time.RFC3339, endedAtStr.String)
		session.EndedAt = &endedAt
	}
	if pauseStartedAtStr.Valid {
		pauseStartedAt, _ := time.Parse(time.RFC3339, pauseStartedAtStr.String)
		session.PauseStartedAt = &pauseStartedAt
	}
	if completedMins.Valid {
		completed := int(completedMins.Int32)
		session.CompletedMinutes = &completed
	}
	if total.Valid {
		session.Score = &scoring.Breakdown{
			Promptness:      int(promptness.Int32),
			Focus:           int(focus.Int32),
			CommitmentBonus: int(commitment.Int32),
			Total:           int(total.Int32),
		}
	}
	if repeatRule.Valid {
		rule := domain.RepeatRule(repeatRule.String)
		session.Repeat = &rule
	}

	return &session, nil
}
