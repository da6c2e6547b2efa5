// Package queries contains read-side handlers for the sessions context.
package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

// ErrSessionNotFound indicates the requested session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// GetSessionQuery fetches a single session by ID.
type GetSessionQuery struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// GetSessionHandler handles get session queries.
type GetSessionHandler struct {
	sessionRepo domain.SessionRepository
}

// NewGetSessionHandler creates a new get session handler.
func NewGetSessionHandler(sessionRepo domain.SessionRepository) *GetSessionHandler {
	return &GetSessionHandler{sessionRepo: sessionRepo}
}

// Handle executes the get session query.
func (h *GetSessionHandler) Handle(ctx context.Context, query GetSessionQuery) (*domain.WorkSession, error) {
	session, err := h.sessionRepo.GetByID(ctx, query.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != query.UserID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
