package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/scoring"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// CompleteSessionCommand represents the command to finish the running
// session. Reflection and focus rating are optional.
type CompleteSessionCommand struct {
	UserID      uuid.UUID
	Reflection  string
	FocusRating int
}

// CompleteSessionHandler handles complete session commands. Completing a
// session computes and stores its score breakdown.
type CompleteSessionHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewCompleteSessionHandler creates a new complete session handler.
func NewCompleteSessionHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *CompleteSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompleteSessionHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle executes the complete session command.
func (h *CompleteSessionHandler) Handle(ctx context.Context, cmd CompleteSessionCommand) (*domain.WorkSession, error) {
	session, err := h.sessionRepo.GetRunning(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoRunningSession
	}

	if err := session.Complete(h.now().UTC()); err != nil {
		return nil, err
	}

	session.SetScore(scoreSession(session))

	if cmd.Reflection != "" || cmd.FocusRating != 0 {
		if err := session.AddReflection(cmd.Reflection, cmd.FocusRating); err != nil {
			return nil, err
		}
	}

	if err := h.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "session completed",
		slog.String("session_id", session.ID.String()),
		slog.Int("completed_minutes", *session.CompletedMinutes),
		slog.Int("total_score", session.Score.Total))

	publishEvent(ctx, h.logger, h.publisher, domain.NewSessionCompletedEvent(session))

	return session, nil
}

// scoreSession computes the breakdown for a completed session. A session
// started past its day-boundary deadline scores zero across the board; the
// scoring package itself stays deadline-agnostic.
func scoreSession(session *domain.WorkSession) scoring.Breakdown {
	if session.StartedAfterDeadline() {
		return scoring.Breakdown{}
	}

	return scoring.Calculate(scoring.Input{
		ScheduledStart:   session.ScheduledStart,
		ActualStart:      *session.ActualStart,
		DurationMinutes:  session.PlannedMinutes,
		CompletedMinutes: *session.CompletedMinutes,
	})
}
