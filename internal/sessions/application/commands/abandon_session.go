package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// AbandonSessionCommand represents the command to give up on a session.
// SessionID is optional: when zero, the user's running session is abandoned.
type AbandonSessionCommand struct {
	UserID     uuid.UUID
	SessionID  uuid.UUID
	Reflection string
}

// AbandonSessionHandler handles abandon session commands.
type AbandonSessionHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewAbandonSessionHandler creates a new abandon session handler.
func NewAbandonSessionHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *AbandonSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AbandonSessionHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle executes the abandon session command. Abandoned sessions carry no
// score.
func (h *AbandonSessionHandler) Handle(ctx context.Context, cmd AbandonSessionCommand) (*domain.WorkSession, error) {
	session, err := h.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := session.Abandon(h.now().UTC()); err != nil {
		return nil, err
	}

	if cmd.Reflection != "" {
		if err := session.AddReflection(cmd.Reflection, 0); err != nil {
			return nil, err
		}
	}

	if err := h.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.logger, h.publisher, domain.NewSessionAbandonedEvent(session))

	return session, nil
}

func (h *AbandonSessionHandler) resolve(ctx context.Context, cmd AbandonSessionCommand) (*domain.WorkSession, error) {
	if cmd.SessionID != uuid.Nil {
		session, err := h.sessionRepo.GetByID(ctx, cmd.SessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		if session.UserID != cmd.UserID {
			return nil, ErrSessionNotFound
		}
		return session, nil
	}

	session, err := h.sessionRepo.GetRunning(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoRunningSession
	}
	return session, nil
}
