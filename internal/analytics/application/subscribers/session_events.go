// Package subscribers reacts to session lifecycle events by keeping daily
// snapshots current.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/application"
	"github.com/focusflow-dev/focusflow/internal/analytics/application/commands"
	sessionsdomain "github.com/focusflow-dev/focusflow/internal/sessions/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// SnapshotRecomputer recomputes the affected day's snapshot whenever a
// session changes state.
type SnapshotRecomputer struct {
	analytics *application.Service
	logger    *slog.Logger
}

// NewSnapshotRecomputer creates a new snapshot recomputer.
func NewSnapshotRecomputer(analytics *application.Service, logger *slog.Logger) *SnapshotRecomputer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotRecomputer{
		analytics: analytics,
		logger:    logger,
	}
}

// RoutingKeys lists the events that affect snapshots.
func (s *SnapshotRecomputer) RoutingKeys() []string {
	return []string{
		sessionsdomain.RoutingKeySessionScheduled,
		sessionsdomain.RoutingKeySessionCompleted,
		sessionsdomain.RoutingKeySessionAbandoned,
		sessionsdomain.RoutingKeySessionMissed,
	}
}

// Handle recomputes the snapshot for the day the session was scheduled on.
func (s *SnapshotRecomputer) Handle(ctx context.Context, env *eventbus.Envelope) error {
	var payload struct {
		UserID         uuid.UUID `json:"user_id"`
		ScheduledStart time.Time `json:"scheduled_start"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode session event payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("session event %s has no user id", env.EventID)
	}

	date := payload.ScheduledStart
	if date.IsZero() {
		date = env.OccurredAt
	}

	_, err := s.analytics.ComputeSnapshot(ctx, commands.ComputeSnapshotCommand{
		UserID: payload.UserID,
		Date:   date,
	})
	if err != nil {
		return fmt.Errorf("recompute snapshot for %s: %w", env.RoutingKey, err)
	}

	s.logger.DebugContext(ctx, "snapshot recomputed from event",
		slog.String("routing_key", env.RoutingKey),
		slog.String("date", date.UTC().Format("2006-01-02")))
	return nil
}
