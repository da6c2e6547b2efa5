package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focusflow-dev/focusflow/internal/scoring"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// PostgresSessionRepository implements domain.SessionRepository using
// PostgreSQL.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL session repository.
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// Create inserts a new session.
func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.WorkSession) error {
	query := `
		INSERT INTO work_sessions (
			id, user_id, title, category, scheduled_start, planned_minutes,
			actual_start, ended_at, completed_minutes, paused_seconds, pause_started_at,
			status, reflection, focus_rating,
			promptness_score, focus_score, commitment_bonus, total_score,
			repeat_rule, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	promptness, focus, commitment, total := scoreColumns(session)
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Category,
		session.ScheduledStart,
		session.PlannedMinutes,
		session.ActualStart,
		session.EndedAt,
		session.CompletedMinutes,
		session.PausedSeconds,
		session.PauseStartedAt,
		string(session.Status),
		session.Reflection,
		session.FocusRating,
		promptness,
		focus,
		commitment,
		total,
		repeatColumn(session),
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

// Update persists the mutable state of an existing session.
func (r *PostgresSessionRepository) Update(ctx context.Context, session *domain.WorkSession) error {
	query := `
		UPDATE work_sessions SET
			actual_start = $1, ended_at = $2, completed_minutes = $3,
			paused_seconds = $4, pause_started_at = $5, status = $6,
			reflection = $7, focus_rating = $8,
			promptness_score = $9, focus_score = $10, commitment_bonus = $11, total_score = $12,
			updated_at = NOW()
		WHERE id = $13
	`

	promptness, focus, commitment, total := scoreColumns(session)
	_, err := r.pool.Exec(ctx, query,
		session.ActualStart,
		session.EndedAt,
		session.CompletedMinutes,
		session.PausedSeconds,
		session.PauseStartedAt,
		string(session.Status),
		session.Reflection,
		session.FocusRating,
		promptness,
		focus,
		commitment,
		total,
		session.ID,
	)
	return err
}

// GetByID retrieves a session by ID. Returns (nil, nil) when not found.
func (r *PostgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	query := selectSessionQuery + ` WHERE id = $1`
	return r.querySession(ctx, query, id)
}

// GetRunning retrieves the user's active or paused session.
func (r *PostgresSessionRepository) GetRunning(ctx context.Context, userID uuid.UUID) (*domain.WorkSession, error) {
	query := selectSessionQuery + ` WHERE user_id = $1 AND status IN ('active', 'paused') LIMIT 1`
	return r.querySession(ctx, query, userID)
}

// ListByDateRange retrieves sessions scheduled within [from, to).
func (r *PostgresSessionRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.WorkSession, error) {
	query := selectSessionQuery + `
		WHERE user_id = $1 AND scheduled_start >= $2 AND scheduled_start < $3
		ORDER BY scheduled_start ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListByStatus retrieves the most recent sessions with a given status.
func (r *PostgresSessionRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status domain.SessionStatus, limit int) ([]*domain.WorkSession, error) {
	query := selectSessionQuery + `
		WHERE user_id = $1 AND status = $2
		ORDER BY scheduled_start DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListOverdue retrieves scheduled sessions past their day-boundary deadline.
func (r *PostgresSessionRepository) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.WorkSession, error) {
	query := selectSessionQuery + `
		WHERE user_id = $1 AND status = 'scheduled' AND scheduled_start < $2
		ORDER BY scheduled_start ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
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
func (r *PostgresSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM work_sessions WHERE id = $1`, id)
	return err
}

const selectSessionQuery = `
	SELECT id, user_id, title, category, scheduled_start, planned_minutes,
		actual_start, ended_at, completed_minutes, paused_seconds, pause_started_at,
		status, reflection, focus_rating,
		promptness_score, focus_score, commitment_bonus, total_score,
		repeat_rule, created_at, updated_at
	FROM work_sessions`

func (r *PostgresSessionRepository) querySession(ctx context.Context, query string, args ...any) (*domain.WorkSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return scanPostgresSession(rows)
}

func collectSessions(rows pgx.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		session, err := scanPostgresSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanPostgresSession(rows pgx.Rows) (*domain.WorkSession, error) {
	var session domain.WorkSession
	var status string
	var promptness, focus, commitment, total *int
	var repeatRule *string

	err := rows.Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.Category,
		&session.ScheduledStart,
		&session.PlannedMinutes,
		&session.ActualStart,
		&session.EndedAt,
		&session.CompletedMinutes,
		&session.PausedSeconds,
		&session.PauseStartedAt,
		&status,
		&session.Reflection,
		&session.FocusRating,
		&promptness,
		&focus,
		&commitment,
		&total,
		&repeatRule,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	if total != nil {
		session.Score = &scoring.Breakdown{
			Promptness:      valueOrZero(promptness),
			Focus:           valueOrZero(focus),
			CommitmentBonus: valueOrZero(commitment),
			Total:           *total,
		}
	}
	if repeatRule != nil {
		rule := domain.RepeatRule(*repeatRule)
		session.Repeat = &rule
	}

	return &session, nil
}

func scoreColumns(session *domain.WorkSession) (promptness, focus, commitment, total *int) {
	if session.Score == nil {
		return nil, nil, nil, nil
	}
	return &session.Score.Promptness, &session.Score.Focus, &session.Score.CommitmentBonus, &session.Score.Total
}

func repeatColumn(session *domain.WorkSession) *string {
	if session.Repeat == nil {
		return nil
	}
	rule := session.Repeat.String()
	return &rule
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
