// Package application contains the application layer for the sessions
// bounded context.
package application

import (
	"context"
	"log/slog"

	"github.com/focusflow-dev/focusflow/internal/sessions/application/commands"
	"github.com/focusflow-dev/focusflow/internal/sessions/application/queries"
	"github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// Service provides a facade over all session handlers.
type Service struct {
	// Command handlers
	scheduleHandler *commands.ScheduleSessionHandler
	startHandler    *commands.StartSessionHandler
	pauseHandler    *commands.PauseSessionHandler
	resumeHandler   *commands.ResumeSessionHandler
	completeHandler *commands.CompleteSessionHandler
	abandonHandler  *commands.AbandonSessionHandler
	repeatsHandler  *commands.GenerateRepeatsHandler
	sweepHandler    *commands.SweepMissedHandler

	// Query handlers
	getSessionHandler *queries.GetSessionHandler
	getRunningHandler *queries.GetRunningSessionHandler
	listHandler       *queries.ListSessionsHandler
}

// NewService creates a new sessions service.
func NewService(sessionRepo domain.SessionRepository, publisher eventbus.Publisher, logger *slog.Logger) *Service {
	return &Service{
		scheduleHandler: commands.NewScheduleSessionHandler(sessionRepo, publisher, logger),
		startHandler:    commands.NewStartSessionHandler(sessionRepo, publisher, logger),
		pauseHandler:    commands.NewPauseSessionHandler(sessionRepo),
		resumeHandler:   commands.NewResumeSessionHandler(sessionRepo),
		completeHandler: commands.NewCompleteSessionHandler(sessionRepo, publisher, logger),
		abandonHandler:  commands.NewAbandonSessionHandler(sessionRepo, publisher, logger),
		repeatsHandler:  commands.NewGenerateRepeatsHandler(sessionRepo, publisher, logger),
		sweepHandler:    commands.NewSweepMissedHandler(sessionRepo, publisher, logger),

		getSessionHandler: queries.NewGetSessionHandler(sessionRepo),
		getRunningHandler: queries.NewGetRunningSessionHandler(sessionRepo),
		listHandler:       queries.NewListSessionsHandler(sessionRepo),
	}
}

// Schedule creates a new scheduled session.
func (s *Service) Schedule(ctx context.Context, cmd commands.ScheduleSessionCommand) (*domain.WorkSession, error) {
	return s.scheduleHandler.Handle(ctx, cmd)
}

// Start begins a scheduled session.
func (s *Service) Start(ctx context.Context, cmd commands.StartSessionCommand) (*domain.WorkSession, error) {
	return s.startHandler.Handle(ctx, cmd)
}

// Pause suspends the running session.
func (s *Service) Pause(ctx context.Context, cmd commands.PauseSessionCommand) (*domain.WorkSession, error) {
	return s.pauseHandler.Handle(ctx, cmd)
}

// Resume restarts the paused session.
func (s *Service) Resume(ctx context.Context, cmd commands.ResumeSessionCommand) (*domain.WorkSession, error) {
	return s.resumeHandler.Handle(ctx, cmd)
}

// Complete finishes the running session and scores it.
func (s *Service) Complete(ctx context.Context, cmd commands.CompleteSessionCommand) (*domain.WorkSession, error) {
	return s.completeHandler.Handle(ctx, cmd)
}

// Abandon gives up on a session.
func (s *Service) Abandon(ctx context.Context, cmd commands.AbandonSessionCommand) (*domain.WorkSession, error) {
	return s.abandonHandler.Handle(ctx, cmd)
}

// GenerateRepeats materializes future occurrences of a repeating session.
func (s *Service) GenerateRepeats(ctx context.Context, cmd commands.GenerateRepeatsCommand) ([]*domain.WorkSession, error) {
	return s.repeatsHandler.Handle(ctx, cmd)
}

// SweepMissed marks overdue scheduled sessions as missed.
func (s *Service) SweepMissed(ctx context.Context, cmd commands.SweepMissedCommand) (int, error) {
	return s.sweepHandler.Handle(ctx, cmd)
}

// GetSession fetches a session by ID.
func (s *Service) GetSession(ctx context.Context, query queries.GetSessionQuery) (*domain.WorkSession, error) {
	return s.getSessionHandler.Handle(ctx, query)
}

// GetRunning fetches the user's running session, if any.
func (s *Service) GetRunning(ctx context.Context, query queries.GetRunningSessionQuery) (*domain.WorkSession, error) {
	return s.getRunningHandler.Handle(ctx, query)
}

// List lists sessions by date range or status.
func (s *Service) List(ctx context.Context, query queries.ListSessionsQuery) ([]*domain.WorkSession, error) {
	return s.listHandler.Handle(ctx, query)
}
