package domain

import (
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/focusflow-dev/focusflow/internal/shared/domain"
)

// Routing keys for session lifecycle events.
const (
	RoutingKeySessionScheduled = "sessions.session.scheduled"
	RoutingKeySessionStarted   = "sessions.session.started"
	RoutingKeySessionCompleted = "sessions.session.completed"
	RoutingKeySessionAbandoned = "sessions.session.abandoned"
	RoutingKeySessionMissed    = "sessions.session.missed"
)

const aggregateTypeSession = "work_session"

// SessionScheduledEvent is emitted when a new session is scheduled.
type SessionScheduledEvent struct {
	shareddomain.BaseEvent
	UserID         uuid.UUID  `json:"user_id"`
	Title          string     `json:"title"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	PlannedMinutes int        `json:"planned_minutes"`
	Repeat         RepeatRule `json:"repeat,omitempty"`
}

func NewSessionScheduledEvent(s *WorkSession) *SessionScheduledEvent {
	event := &SessionScheduledEvent{
		BaseEvent:      shareddomain.NewBaseEvent(s.ID, aggregateTypeSession, RoutingKeySessionScheduled),
		UserID:         s.UserID,
		Title:          s.Title,
		ScheduledStart: s.ScheduledStart,
		PlannedMinutes: s.PlannedMinutes,
	}
	if s.Repeat != nil {
		event.Repeat = *s.Repeat
	}
	return event
}

// SessionStartedEvent is emitted when a session begins.
type SessionStartedEvent struct {
	shareddomain.BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	ActualStart  time.Time `json:"actual_start"`
	DelayMinutes int       `json:"delay_minutes"`
}

func NewSessionStartedEvent(s *WorkSession) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent:    shareddomain.NewBaseEvent(s.ID, aggregateTypeSession, RoutingKeySessionStarted),
		UserID:       s.UserID,
		ActualStart:  *s.ActualStart,
		DelayMinutes: s.DelayMinutes(),
	}
}

// SessionCompletedEvent is emitted when a session ends with a score.
type SessionCompletedEvent struct {
	shareddomain.BaseEvent
	UserID           uuid.UUID `json:"user_id"`
	ScheduledStart   time.Time `json:"scheduled_start"`
	EndedAt          time.Time `json:"ended_at"`
	CompletedMinutes int       `json:"completed_minutes"`
	TotalScore       int       `json:"total_score"`
}

func NewSessionCompletedEvent(s *WorkSession) *SessionCompletedEvent {
	event := &SessionCompletedEvent{
		BaseEvent:      shareddomain.NewBaseEvent(s.ID, aggregateTypeSession, RoutingKeySessionCompleted),
		UserID:         s.UserID,
		ScheduledStart: s.ScheduledStart,
		EndedAt:        *s.EndedAt,
	}
	if s.CompletedMinutes != nil {
		event.CompletedMinutes = *s.CompletedMinutes
	}
	if s.Score != nil {
		event.TotalScore = s.Score.Total
	}
	return event
}

// SessionAbandonedEvent is emitted when a session is given up.
type SessionAbandonedEvent struct {
	shareddomain.BaseEvent
	UserID           uuid.UUID `json:"user_id"`
	ScheduledStart   time.Time `json:"scheduled_start"`
	CompletedMinutes int       `json:"completed_minutes"`
}

func NewSessionAbandonedEvent(s *WorkSession) *SessionAbandonedEvent {
	event := &SessionAbandonedEvent{
		BaseEvent:      shareddomain.NewBaseEvent(s.ID, aggregateTypeSession, RoutingKeySessionAbandoned),
		UserID:         s.UserID,
		ScheduledStart: s.ScheduledStart,
	}
	if s.CompletedMinutes != nil {
		event.CompletedMinutes = *s.CompletedMinutes
	}
	return event
}

// SessionMissedEvent is emitted when a scheduled session passes its deadline
// without being started.
type SessionMissedEvent struct {
	shareddomain.BaseEvent
	UserID         uuid.UUID `json:"user_id"`
	ScheduledStart time.Time `json:"scheduled_start"`
}

func NewSessionMissedEvent(s *WorkSession) *SessionMissedEvent {
	return &SessionMissedEvent{
		BaseEvent:      shareddomain.NewBaseEvent(s.ID, aggregateTypeSession, RoutingKeySessionMissed),
		UserID:         s.UserID,
		ScheduledStart: s.ScheduledStart,
	}
}
