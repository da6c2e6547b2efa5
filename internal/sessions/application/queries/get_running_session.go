package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// GetRunningSessionQuery fetches the user's active or paused session.
type GetRunningSessionQuery struct {
	UserID uuid.UUID
}

// GetRunningSessionHandler handles running session queries.
type GetRunningSessionHandler struct {
	sessionRepo domain.SessionRepository
}

// NewGetRunningSessionHandler creates a new running session handler.
func NewGetRunningSessionHandler(sessionRepo domain.SessionRepository) *GetRunningSessionHandler {
	return &GetRunningSessionHandler{sessionRepo: sessionRepo}
}

// Handle executes the query. It returns (nil, nil) when nothing is running.
func (h *GetRunningSessionHandler) Handle(ctx context.Context, query GetRunningSessionQuery) (*domain.WorkSession, error) {
	return h.sessionRepo.GetRunning(ctx, query.UserID)
}
