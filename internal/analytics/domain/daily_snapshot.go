// Package domain contains the domain model for the analytics bounded
// context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStats holds the raw per-day session aggregates a snapshot is
// computed from.
type SessionStats struct {
	Scheduled     int
	Completed     int
	Missed        int
	Abandoned     int
	MinutesWorked int

	// Scores are the total scores of the day's completed sessions.
	Scores []int
}

// DailySnapshot represents one day of session metrics for a user.
type DailySnapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SnapshotDate time.Time

	SessionsScheduled int
	SessionsCompleted int
	SessionsMissed    int
	SessionsAbandoned int
	MinutesWorked     int

	AvgScore       float64
	BestScore      int
	CompletionRate float64

	ComputedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDailySnapshot creates an empty snapshot for the given day. The date is
// truncated to midnight UTC.
func NewDailySnapshot(userID uuid.UUID, date time.Time) *DailySnapshot {
	now := time.Now().UTC()
	return &DailySnapshot{
		ID:           uuid.New(),
		UserID:       userID,
		SnapshotDate: TruncateToDay(date),
		ComputedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply recomputes the snapshot's derived metrics from raw session stats.
func (s *DailySnapshot) Apply(stats SessionStats) {
	s.SessionsScheduled = stats.Scheduled
	s.SessionsCompleted = stats.Completed
	s.SessionsMissed = stats.Missed
	s.SessionsAbandoned = stats.Abandoned
	s.MinutesWorked = stats.MinutesWorked

	s.AvgScore = 0
	s.BestScore = 0
	if len(stats.Scores) > 0 {
		sum := 0
		for _, score := range stats.Scores {
			sum += score
			if score > s.BestScore {
				s.BestScore = score
			}
		}
		s.AvgScore = float64(sum) / float64(len(stats.Scores))
	}

	// Completion rate counts every session that reached a terminal state.
	terminal := stats.Completed + stats.Missed + stats.Abandoned
	s.CompletionRate = 0
	if terminal > 0 {
		s.CompletionRate = float64(stats.Completed) / float64(terminal)
	}

	now := time.Now().UTC()
	s.ComputedAt = now
	s.UpdatedAt = now
}

// HasActivity reports whether the day saw at least one completed session.
func (s *DailySnapshot) HasActivity() bool {
	return s.SessionsCompleted > 0
}

// TruncateToDay returns midnight UTC of the given instant.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
