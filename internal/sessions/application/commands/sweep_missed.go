package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// SweepMissedCommand marks overdue scheduled sessions as missed.
type SweepMissedCommand struct {
	UserID uuid.UUID
}

// SweepMissedHandler handles missed session sweeps. The worker runs it
// periodically; the CLI runs it before listing sessions so stale entries
// never show as scheduled.
type SweepMissedHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewSweepMissedHandler creates a new sweep missed handler.
func NewSweepMissedHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *SweepMissedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepMissedHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle marks every scheduled session past its deadline as missed and
// returns how many were swept.
func (h *SweepMissedHandler) Handle(ctx context.Context, cmd SweepMissedCommand) (int, error) {
	overdue, err := h.sessionRepo.ListOverdue(ctx, cmd.UserID, h.now().UTC())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, session := range overdue {
		if err := session.MarkMissed(); err != nil {
			continue
		}
		if err := h.sessionRepo.Update(ctx, session); err != nil {
			return swept, err
		}

		publishEvent(ctx, h.logger, h.publisher, domain.NewSessionMissedEvent(session))
		swept++
	}

	if swept > 0 {
		h.logger.InfoContext(ctx, "swept missed sessions", slog.Int("count", swept))
	}

	return swept, nil
}
