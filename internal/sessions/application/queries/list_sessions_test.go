package queries

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

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.WorkSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) Update(ctx context.Context, session *domain.WorkSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}

func (m *mockSessionRepo) GetRunning(ctx context.Context, userID uuid.UUID) (*domain.WorkSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}

func (m *mockSessionRepo) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.WorkSession, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkSession), args.Error(1)
}

func (m *mockSessionRepo) ListByStatus(ctx context.Context, userID uuid.UUID, status domain.SessionStatus, limit int) ([]*domain.WorkSession, error) {
	args := m.Called(ctx, userID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkSession), args.Error(1)
}

func (m *mockSessionRepo) ListOverdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.WorkSession, error) {
	args := m.Called(ctx, userID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkSession), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestListSessionsHandler_DateRanges(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	session, err := domain.NewWorkSession(userID, "Range test", time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC), 25)
	require.NoError(t, err)
	found := []*domain.WorkSession{session}

	t.Run("only from set queries forward from it", func(t *testing.T) {
		repo := new(mockSessionRepo)
		handler := NewListSessionsHandler(repo)

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		repo.On("ListByDateRange", ctx, userID, from, mock.MatchedBy(func(to time.Time) bool {
			return to.After(from.AddDate(50, 0, 0))
		})).Return(found, nil)

		sessions, err := handler.Handle(ctx, ListSessionsQuery{UserID: userID, From: from})
		require.NoError(t, err)
		assert.Len(t, sessions, 1)
		repo.AssertExpectations(t)
	})

	t.Run("only to set queries back from it", func(t *testing.T) {
		repo := new(mockSessionRepo)
		handler := NewListSessionsHandler(repo)

		to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		repo.On("ListByDateRange", ctx, userID, mock.MatchedBy(func(from time.Time) bool {
			return from.Before(to.AddDate(-50, 0, 0))
		}), to).Return(found, nil)

		sessions, err := handler.Handle(ctx, ListSessionsQuery{UserID: userID, To: to})
		require.NoError(t, err)
		assert.Len(t, sessions, 1)
		repo.AssertExpectations(t)
	})

	t.Run("both bounds forwarded as given", func(t *testing.T) {
		repo := new(mockSessionRepo)
		handler := NewListSessionsHandler(repo)

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
		repo.On("ListByDateRange", ctx, userID, from, to).Return(found, nil)

		_, err := handler.Handle(ctx, ListSessionsQuery{UserID: userID, From: from, To: to})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("no bounds defaults to the current day", func(t *testing.T) {
		repo := new(mockSessionRepo)
		handler := NewListSessionsHandler(repo)

		repo.On("ListByDateRange", ctx, userID, mock.MatchedBy(func(from time.Time) bool {
			return from.Hour() == 0 && from.Minute() == 0
		}), mock.MatchedBy(func(to time.Time) bool {
			return !to.IsZero()
		})).Return(found, nil)

		_, err := handler.Handle(ctx, ListSessionsQuery{UserID: userID})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
