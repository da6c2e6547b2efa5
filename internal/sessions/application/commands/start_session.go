package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// StartSessionCommand represents the command to start a scheduled session.
type StartSessionCommand struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// StartSessionHandler handles start session commands.
type StartSessionHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewStartSessionHandler creates a new start session handler.
func NewStartSessionHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *StartSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StartSessionHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle executes the start session command. Only one session can run at a
// time per user.
func (h *StartSessionHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*domain.WorkSession, error) {
	running, err := h.sessionRepo.GetRunning(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, ErrSessionAlreadyRunning
	}

	session, err := h.sessionRepo.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := session.Start(h.now().UTC()); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.logger, h.publisher, domain.NewSessionStartedEvent(session))

	return session, nil
}
