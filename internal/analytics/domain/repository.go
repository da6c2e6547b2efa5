package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SnapshotRepository defines operations for daily snapshots. Lookup methods
// return (nil, nil) when no matching snapshot exists.
type SnapshotRepository interface {
	// Save inserts or replaces the snapshot for its date.
	Save(ctx context.Context, snapshot *DailySnapshot) error

	// GetByDate retrieves the snapshot for a specific day.
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DailySnapshot, error)

	// GetDateRange retrieves snapshots with dates in [start, end).
	GetDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*DailySnapshot, error)

	// GetRecent retrieves the most recent snapshots, newest first.
	GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*DailySnapshot, error)
}

// SessionDataSource exposes the raw session aggregates snapshots are
// computed from. It reads the sessions context's storage directly instead
// of going through its application layer.
type SessionDataSource interface {
	// GetDayStats aggregates the sessions scheduled on the given day.
	GetDayStats(ctx context.Context, userID uuid.UUID, day time.Time) (*SessionStats, error)
}
