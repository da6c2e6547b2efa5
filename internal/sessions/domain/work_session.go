// Package domain contains the domain model for the sessions bounded context.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/scoring"
)

// SessionStatus represents the lifecycle state of a work session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
	SessionStatusMissed    SessionStatus = "missed"
)

// Errors
var (
	ErrEmptyTitle         = errors.New("session title cannot be empty")
	ErrInvalidDuration    = errors.New("planned duration must be positive")
	ErrSessionNotPlanned  = errors.New("session is not in scheduled state")
	ErrSessionNotRunning  = errors.New("session is not running")
	ErrSessionNotPaused   = errors.New("session is not paused")
	ErrSessionNotEnded    = errors.New("session has not ended")
	ErrSessionAlreadyOver = errors.New("session already ended")
	ErrInvalidFocusRating = errors.New("focus rating must be between 1 and 5")
)

// WorkSession represents one planned focus session: a scheduled start, a
// planned duration, and the timing facts accumulated while running it.
// Paused time is tracked separately so completed minutes reflect actual
// worked time.
type WorkSession struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Title    string
	Category string

	ScheduledStart time.Time
	PlannedMinutes int
	Repeat         *RepeatRule

	ActualStart      *time.Time
	EndedAt          *time.Time
	CompletedMinutes *int
	PausedSeconds    int
	PauseStartedAt   *time.Time

	Status      SessionStatus
	Reflection  string
	FocusRating int
	Score       *scoring.Breakdown

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkSession schedules a new work session.
func NewWorkSession(userID uuid.UUID, title string, scheduledStart time.Time, plannedMinutes int) (*WorkSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if plannedMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	now := time.Now().UTC()
	return &WorkSession{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          title,
		ScheduledStart: scheduledStart,
		PlannedMinutes: plannedMinutes,
		Status:         SessionStatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// WithCategory sets the category.
func (s *WorkSession) WithCategory(category string) *WorkSession {
	s.Category = category
	return s
}

// WithRepeat attaches a repeat rule used to generate future occurrences.
func (s *WorkSession) WithRepeat(rule RepeatRule) *WorkSession {
	s.Repeat = &rule
	return s
}

// Start begins the session at the given instant.
func (s *WorkSession) Start(at time.Time) error {
	if s.Status != SessionStatusScheduled {
		return ErrSessionNotPlanned
	}

	started := at
	s.ActualStart = &started
	s.Status = SessionStatusActive
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Pause suspends the running timer. Paused time does not count toward
// completed minutes.
func (s *WorkSession) Pause(at time.Time) error {
	if s.Status != SessionStatusActive {
		return ErrSessionNotRunning
	}

	pausedAt := at
	s.PauseStartedAt = &pausedAt
	s.Status = SessionStatusPaused
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Resume restarts a paused session, folding the pause into the accumulated
// paused seconds.
func (s *WorkSession) Resume(at time.Time) error {
	if s.Status != SessionStatusPaused {
		return ErrSessionNotPaused
	}

	s.PausedSeconds += int(at.Sub(*s.PauseStartedAt).Seconds())
	s.PauseStartedAt = nil
	s.Status = SessionStatusActive
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete ends the session at the given instant and records the worked
// minutes. A paused session is resumed implicitly: the open pause counts as
// paused time, not worked time.
func (s *WorkSession) Complete(at time.Time) error {
	switch s.Status {
	case SessionStatusActive:
	case SessionStatusPaused:
		if err := s.Resume(at); err != nil {
			return err
		}
	default:
		return ErrSessionNotRunning
	}

	ended := at
	s.EndedAt = &ended
	completed := s.workedMinutes(at)
	s.CompletedMinutes = &completed
	s.Status = SessionStatusCompleted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Abandon ends the session without completing it. Scheduled sessions can be
// abandoned before they start.
func (s *WorkSession) Abandon(at time.Time) error {
	switch s.Status {
	case SessionStatusScheduled:
	case SessionStatusActive, SessionStatusPaused:
		if s.Status == SessionStatusPaused {
			if err := s.Resume(at); err != nil {
				return err
			}
		}
		ended := at
		s.EndedAt = &ended
		completed := s.workedMinutes(at)
		s.CompletedMinutes = &completed
	default:
		return ErrSessionAlreadyOver
	}

	s.Status = SessionStatusAbandoned
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkMissed marks a scheduled session that was never started.
func (s *WorkSession) MarkMissed() error {
	if s.Status != SessionStatusScheduled {
		return ErrSessionNotPlanned
	}
	s.Status = SessionStatusMissed
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AddReflection records the post-session reflection. Rating 0 means no
// rating was given.
func (s *WorkSession) AddReflection(text string, rating int) error {
	if s.Status != SessionStatusCompleted && s.Status != SessionStatusAbandoned {
		return ErrSessionNotEnded
	}
	if rating != 0 && (rating < 1 || rating > 5) {
		return ErrInvalidFocusRating
	}

	s.Reflection = strings.TrimSpace(text)
	s.FocusRating = rating
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetScore stores the computed score breakdown.
func (s *WorkSession) SetScore(breakdown scoring.Breakdown) {
	score := breakdown
	s.Score = &score
	s.UpdatedAt = time.Now().UTC()
}

// Deadline returns the day-boundary deadline for this session: midnight at
// the end of the scheduled start's calendar day. A session started after its
// deadline scores zero.
func (s *WorkSession) Deadline() time.Time {
	y, m, d := s.ScheduledStart.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.ScheduledStart.Location()).AddDate(0, 0, 1)
}

// StartedAfterDeadline reports whether the actual start fell past the
// deadline.
func (s *WorkSession) StartedAfterDeadline() bool {
	return s.ActualStart != nil && s.ActualStart.After(s.Deadline())
}

// IsRunning returns true while the session is active or paused.
func (s *WorkSession) IsRunning() bool {
	return s.Status == SessionStatusActive || s.Status == SessionStatusPaused
}

// DelayMinutes returns the signed lateness of the actual start, or 0 for a
// session that never started.
func (s *WorkSession) DelayMinutes() int {
	if s.ActualStart == nil {
		return 0
	}
	return scoring.DelayMinutes(s.ScheduledStart, *s.ActualStart)
}

// workedMinutes computes elapsed minutes since the actual start excluding
// accumulated paused time, floored to whole minutes.
func (s *WorkSession) workedMinutes(at time.Time) int {
	if s.ActualStart == nil {
		return 0
	}
	worked := at.Sub(*s.ActualStart) - time.Duration(s.PausedSeconds)*time.Second
	if worked < 0 {
		return 0
	}
	return int(worked.Minutes())
}
