package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

func scheduledSession(t *testing.T, userID uuid.UUID) *domain.WorkSession {
	t.Helper()
	session, err := domain.NewWorkSession(userID, "Deep work", testStart, 45)
	require.NoError(t, err)
	return session
}

func TestStartSessionHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("starts a scheduled session", func(t *testing.T) {
		session := scheduledSession(t, userID)
		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("GetRunning", mock.Anything, userID).Return(nil, nil)
		repo.On("GetByID", mock.Anything, session.ID).Return(session, nil)
		repo.On("Update", mock.Anything, session).Return(nil)
		pub.On("Publish", mock.Anything, domain.RoutingKeySessionStarted, mock.Anything).Return(nil)

		handler := NewStartSessionHandler(repo, pub, nil)
		handler.now = func() time.Time { return testStart.Add(5 * time.Minute) }

		got, err := handler.Handle(context.Background(), StartSessionCommand{UserID: userID, SessionID: session.ID})

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusActive, got.Status)
		assert.Equal(t, 5, got.DelayMinutes())
		repo.AssertExpectations(t)
	})

	t.Run("rejects when another session runs", func(t *testing.T) {
		running := scheduledSession(t, userID)
		require.NoError(t, running.Start(testStart))

		repo := new(mockSessionRepo)
		repo.On("GetRunning", mock.Anything, userID).Return(running, nil)

		handler := NewStartSessionHandler(repo, new(mockPublisher), nil)
		_, err := handler.Handle(context.Background(), StartSessionCommand{UserID: userID, SessionID: uuid.New()})

		assert.ErrorIs(t, err, ErrSessionAlreadyRunning)
	})

	t.Run("rejects unknown session", func(t *testing.T) {
		repo := new(mockSessionRepo)
		repo.On("GetRunning", mock.Anything, userID).Return(nil, nil)
		repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

		handler := NewStartSessionHandler(repo, new(mockPublisher), nil)
		_, err := handler.Handle(context.Background(), StartSessionCommand{UserID: userID, SessionID: uuid.New()})

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}
