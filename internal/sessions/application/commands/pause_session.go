package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// PauseSessionCommand represents the command to pause the running session.
type PauseSessionCommand struct {
	UserID uuid.UUID
}

// PauseSessionHandler handles pause session commands.
type PauseSessionHandler struct {
	sessionRepo domain.SessionRepository
	now         func() time.Time
}

// NewPauseSessionHandler creates a new pause session handler.
func NewPauseSessionHandler(sessionRepo domain.SessionRepository) *PauseSessionHandler {
	return &PauseSessionHandler{
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Handle executes the pause session command.
func (h *PauseSessionHandler) Handle(ctx context.Context, cmd PauseSessionCommand) (*domain.WorkSession, error) {
	session, err := h.sessionRepo.GetRunning(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoRunningSession
	}

	if err := session.Pause(h.now().UTC()); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
