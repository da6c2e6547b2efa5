package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// InProcessBus is a Publisher that dispatches events synchronously to
// in-process handlers. Local mode uses it instead of RabbitMQ so analytics
// stay current without a broker.
type InProcessBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a routing key.
func (b *InProcessBus) Subscribe(routingKey string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], handler)
}

// Publish decodes the envelope and invokes all handlers for its routing key.
// Handler errors are logged, not returned: a failed subscriber must not fail
// the command that raised the event.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}

	b.mu.RLock()
	handlers := b.handlers[routingKey]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, &env); err != nil {
			b.logger.Error("in-process event handler failed",
				"routing_key", routingKey,
				"event_id", env.EventID,
				"error", err,
			)
		}
	}

	return nil
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}
