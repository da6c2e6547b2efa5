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

var testStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestScheduleSessionHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("schedules and publishes", func(t *testing.T) {
		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.WorkSession")).Return(nil)
		pub.On("Publish", mock.Anything, domain.RoutingKeySessionScheduled, mock.Anything).Return(nil)

		handler := NewScheduleSessionHandler(repo, pub, nil)
		session, err := handler.Handle(context.Background(), ScheduleSessionCommand{
			UserID:         userID,
			Title:          "Deep work",
			Category:       "writing",
			ScheduledStart: testStart,
			PlannedMinutes: 45,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusScheduled, session.Status)
		assert.Equal(t, "writing", session.Category)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("accepts a repeat rule", func(t *testing.T) {
		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		handler := NewScheduleSessionHandler(repo, pub, nil)
		session, err := handler.Handle(context.Background(), ScheduleSessionCommand{
			UserID:         userID,
			Title:          "Morning review",
			ScheduledStart: testStart,
			PlannedMinutes: 25,
			Repeat:         "weekdays",
		})

		require.NoError(t, err)
		require.NotNil(t, session.Repeat)
		assert.Equal(t, domain.RepeatWeekdays, *session.Repeat)
	})

	t.Run("rejects invalid repeat rule", func(t *testing.T) {
		handler := NewScheduleSessionHandler(new(mockSessionRepo), new(mockPublisher), nil)
		_, err := handler.Handle(context.Background(), ScheduleSessionCommand{
			UserID:         userID,
			Title:          "Reading",
			ScheduledStart: testStart,
			PlannedMinutes: 30,
			Repeat:         "everyotherday",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRepeatRule)
	})

	t.Run("command succeeds when publish fails", func(t *testing.T) {
		repo := new(mockSessionRepo)
		pub := new(mockPublisher)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		handler := NewScheduleSessionHandler(repo, pub, nil)
		session, err := handler.Handle(context.Background(), ScheduleSessionCommand{
			UserID:         userID,
			Title:          "Deep work",
			ScheduledStart: testStart,
			PlannedMinutes: 45,
		})

		require.NoError(t, err)
		assert.NotNil(t, session)
	})
}
