package commands

import (
	"context"
	"log/slog"

	shareddomain "github.com/focusflow-dev/focusflow/internal/shared/domain"
	"github.com/focusflow-dev/focusflow/internal/shared/infrastructure/eventbus"
)

// publishEvent sends a domain event on the bus. Event delivery is best
// effort: the session state is already persisted, so a publish failure is
// logged and swallowed rather than failing the command.
func publishEvent(ctx context.Context, logger *slog.Logger, publisher eventbus.Publisher, event shareddomain.DomainEvent) {
	if publisher == nil {
		return
	}

	if err := eventbus.PublishEvent(ctx, publisher, event, event); err != nil {
		logger.WarnContext(ctx, "failed to publish domain event",
			slog.String("routing_key", event.RoutingKey()),
			slog.String("error", err.Error()))
	}
}
