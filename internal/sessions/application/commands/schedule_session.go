package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// ScheduleSessionCommand represents the command to schedule a work session.
type ScheduleSessionCommand struct {
	UserID         uuid.UUID
	Title          string
	Category       string
	ScheduledStart time.Time
	PlannedMinutes int
	Repeat         string
}

// ScheduleSessionHandler handles schedule session commands.
type ScheduleSessionHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
}

// NewScheduleSessionHandler creates a new schedule session handler.
func NewScheduleSessionHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *ScheduleSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleSessionHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the schedule session command.
func (h *ScheduleSessionHandler) Handle(ctx context.Context, cmd ScheduleSessionCommand) (*domain.WorkSession, error) {
	session, err := domain.NewWorkSession(cmd.UserID, cmd.Title, cmd.ScheduledStart, cmd.PlannedMinutes)
	if err != nil {
		return nil, err
	}

	if cmd.Category != "" {
		session.WithCategory(cmd.Category)
	}
	if cmd.Repeat != "" {
		rule, err := domain.ParseRepeatRule(cmd.Repeat)
		if err != nil {
			return nil, err
		}
		session.WithRepeat(rule)
	}

	if err := h.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.logger, h.publisher, domain.NewSessionScheduledEvent(session))

	return session, nil
}
