package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// ResumeSessionCommand represents the command to resume a paused session.
type ResumeSessionCommand struct {
	UserID uuid.UUID
}

// ResumeSessionHandler handles resume session commands.
type ResumeSessionHandler struct {
	sessionRepo domain.SessionRepository
	now         func() time.Time
}

// NewResumeSessionHandler creates a new resume session handler.
func NewResumeSessionHandler(sessionRepo domain.SessionRepository) *ResumeSessionHandler {
	return &ResumeSessionHandler{
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Handle executes the resume session command.
func (h *ResumeSessionHandler) Handle(ctx context.Context, cmd ResumeSessionCommand) (*domain.WorkSession, error) {
	session, err := h.sessionRepo.GetRunning(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoRunningSession
	}

	if err := session.Resume(h.now().UTC()); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
