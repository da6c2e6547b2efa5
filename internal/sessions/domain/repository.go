package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository persists work sessions. Lookup methods return (nil, nil)
// when no matching session exists.
type SessionRepository interface {
	Create(ctx context.Context, session *WorkSession) error
	Update(ctx context.Context, session *WorkSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*WorkSession, error)

	// GetRunning returns the user's active or paused session, if any.
	GetRunning(ctx context.Context, userID uuid.UUID) (*WorkSession, error)

	ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*WorkSession, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status SessionStatus, limit int) ([]*WorkSession, error)

	// ListOverdue returns scheduled sessions whose deadline is before the
	// given instant.
	ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*WorkSession, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
