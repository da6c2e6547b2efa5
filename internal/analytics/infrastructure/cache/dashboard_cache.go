// Package cache provides the Redis-backed dashboard cache. A circuit
// breaker shields the query path from a degraded Redis: once it opens,
// reads and writes short-circuit and the dashboard is served straight from
// the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/focusflow-dev/focusflow/internal/analytics/application/queries"
)

// DefaultTTL bounds how stale a cached dashboard may get.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "focusflow:dashboard:"

// DashboardCache implements queries.DashboardCache on Redis.
type DashboardCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  *slog.Logger
}

// NewDashboardCache creates a new dashboard cache. A non-positive ttl falls
// back to DefaultTTL.
func NewDashboardCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DashboardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "dashboard-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &DashboardCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		ttl:     ttl,
		logger:  logger,
	}
}

// Get fetches the cached dashboard. A miss returns (nil, nil).
func (c *DashboardCache) Get(ctx context.Context, userID uuid.UUID) (*queries.DashboardResult, error) {
	payload, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard cache get: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	var result queries.DashboardResult
	if err := json.Unmarshal(payload, &result); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.logger.Warn("dropping corrupt dashboard cache entry", slog.String("error", err.Error()))
		_ = c.Invalidate(ctx, userID)
		return nil, nil
	}
	return &result, nil
}

// Set stores the dashboard with the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, userID uuid.UUID, result *queries.DashboardResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("dashboard cache encode: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, cacheKey(userID), payload, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("dashboard cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard after a mutation.
func (c *DashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, cacheKey(userID)).Err()
	})
	if err != nil {
		return fmt.Errorf("dashboard cache invalidate: %w", err)
	}
	return nil
}

func cacheKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}
