package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// defaultRepeatCount bounds how many future occurrences one command creates.
const defaultRepeatCount = 7

// GenerateRepeatsCommand creates future occurrences of a repeating session.
type GenerateRepeatsCommand struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Count     int
}

// GenerateRepeatsHandler handles repeat generation commands.
type GenerateRepeatsHandler struct {
	sessionRepo domain.SessionRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
}

// NewGenerateRepeatsHandler creates a new generate repeats handler.
func NewGenerateRepeatsHandler(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *GenerateRepeatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateRepeatsHandler{
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle materializes the next occurrences of the session's repeat rule as
// scheduled sessions.
func (h *GenerateRepeatsHandler) Handle(ctx context.Context, cmd GenerateRepeatsCommand) ([]*domain.WorkSession, error) {
	template, err := h.sessionRepo.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if template == nil || template.UserID != cmd.UserID {
		return nil, ErrSessionNotFound
	}
	if template.Repeat == nil {
		return nil, ErrNoRepeatRule
	}

	count := cmd.Count
	if count <= 0 {
		count = defaultRepeatCount
	}

	created := make([]*domain.WorkSession, 0, count)
	for _, start := range template.Repeat.Occurrences(template.ScheduledStart, count) {
		session, err := domain.NewWorkSession(template.UserID, template.Title, start, template.PlannedMinutes)
		if err != nil {
			return created, err
		}
		session.WithCategory(template.Category)

		if err := h.sessionRepo.Create(ctx, session); err != nil {
			return created, err
		}

		publishEvent(ctx, h.logger, h.publisher, domain.NewSessionScheduledEvent(session))
		created = append(created, session)
	}

	h.logger.InfoContext(ctx, "generated repeat occurrences",
		slog.String("template_id", template.ID.String()),
		slog.String("rule", template.Repeat.String()),
		slog.Int("count", len(created)))

	return created, nil
}
