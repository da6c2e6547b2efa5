package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
)

func TestGenerateRepeatsHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("creates occurrences from the rule", func(t *testing.T) {
		template := scheduledSession(t, userID)
		template.WithCategory("writing").WithRepeat(domain.RepeatDaily)

		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("GetByID", mock.Anything, template.ID).Return(template, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, domain.RoutingKeySessionScheduled, mock.Anything).Return(nil)

		handler := NewGenerateRepeatsHandler(repo, pub, nil)
		created, err := handler.Handle(context.Background(), GenerateRepeatsCommand{
			UserID:    userID,
			SessionID: template.ID,
			Count:     3,
		})

		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, testStart.AddDate(0, 0, 1), created[0].ScheduledStart)
		assert.Equal(t, "writing", created[0].Category)
		assert.Equal(t, template.PlannedMinutes, created[0].PlannedMinutes)
		repo.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("fails without a repeat rule", func(t *testing.T) {
		template := scheduledSession(t, userID)
		repo := new(mockSessionRepo)
		repo.On("GetByID", mock.Anything, template.ID).Return(template, nil)

		handler := NewGenerateRepeatsHandler(repo, new(mockPublisher), nil)
		_, err := handler.Handle(context.Background(), GenerateRepeatsCommand{UserID: userID, SessionID: template.ID})

		assert.ErrorIs(t, err, ErrNoRepeatRule)
	})

	t.Run("fails for another user's session", func(t *testing.T) {
		template := scheduledSession(t, uuid.New())
		repo := new(mockSessionRepo)
		repo.On("GetByID", mock.Anything, template.ID).Return(template, nil)

		handler := NewGenerateRepeatsHandler(repo, new(mockPublisher), nil)
		_, err := handler.Handle(context.Background(), GenerateRepeatsCommand{UserID: userID, SessionID: template.ID})

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSweepMissedHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("marks overdue sessions missed", func(t *testing.T) {
		first := scheduledSession(t, userID)
		second := scheduledSession(t, userID)

		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("ListOverdue", mock.Anything, userID, mock.Anything).Return([]*domain.WorkSession{first, second}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, domain.RoutingKeySessionMissed, mock.Anything).Return(nil)

		handler := NewSweepMissedHandler(repo, pub, nil)
		swept, err := handler.Handle(context.Background(), SweepMissedCommand{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 2, swept)
		assert.Equal(t, domain.SessionStatusMissed, first.Status)
		assert.Equal(t, domain.SessionStatusMissed, second.Status)
	})

	t.Run("nothing overdue sweeps nothing", func(t *testing.T) {
		repo := new(mockSessionRepo)
		repo.On("ListOverdue", mock.Anything, userID, mock.Anything).Return(nil, nil)

		handler := NewSweepMissedHandler(repo, new(mockPublisher), nil)
		swept, err := handler.Handle(context.Background(), SweepMissedCommand{UserID: userID})

		require.NoError(t, err)
		assert.Zero(t, swept)
	})
}
