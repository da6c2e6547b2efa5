package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// ListSessionsQuery lists a user's sessions. When Status is set the date
// range is ignored and the most recent sessions with that status are
// returned instead.
type ListSessionsQuery struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
	Status domain.SessionStatus
	Limit  int
}

// ListSessionsHandler handles list sessions queries.
type ListSessionsHandler struct {
	sessionRepo domain.SessionRepository
}

// NewListSessionsHandler creates a new list sessions handler.
func NewListSessionsHandler(sessionRepo domain.SessionRepository) *ListSessionsHandler {
	return &ListSessionsHandler{sessionRepo: sessionRepo}
}

// Handle executes the list sessions query.
func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) ([]*domain.WorkSession, error) {
	if query.Status != "" {
		limit := query.Limit
		if limit <= 0 {
			limit = 50
		}
		return h.sessionRepo.ListByStatus(ctx, query.UserID, query.Status, limit)
	}

	from, to := query.From, query.To
	switch {
	case from.IsZero() && to.IsZero():
		// Default to the current day.
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 0, 1)
	case to.IsZero():
		// Open-ended: everything from the start onwards.
		to = from.AddDate(100, 0, 0)
	case from.IsZero():
		// Open-ended: everything up to the end.
		from = to.AddDate(-100, 0, 0)
	}

	return h.sessionRepo.ListByDateRange(ctx, query.UserID, from, to)
}
