package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focusflow-dev/focusflow/internal/analytics/domain"
)

// GetTrendsQuery analyzes score movement over a period of days.
type GetTrendsQuery struct {
	UserID uuid.UUID
	Days   int
}

// TrendMetric compares an average over the current period with the period
// before it.
type TrendMetric struct {
	Direction   string  `json:"direction"` // "up", "down", "stable"
	Change      float64 `json:"change"`
	CurrentAvg  float64 `json:"current_avg"`
	PreviousAvg float64 `json:"previous_avg"`
}

// TrendsResult contains trend analysis data.
type TrendsResult struct {
	Snapshots []*domain.DailySnapshot `json:"snapshots"`

	ScoreTrend   TrendMetric `json:"score_trend"`
	MinutesTrend TrendMetric `json:"minutes_trend"`

	BestDay  *domain.DailySnapshot `json:"best_day,omitempty"`
	WorstDay *domain.DailySnapshot `json:"worst_day,omitempty"`
}

// GetTrendsHandler handles trends queries.
type GetTrendsHandler struct {
	snapshotRepo domain.SnapshotRepository
	now          func() time.Time
}

// NewGetTrendsHandler creates a new get trends handler.
func NewGetTrendsHandler(snapshotRepo domain.SnapshotRepository) *GetTrendsHandler {
	return &GetTrendsHandler{
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// Handle executes the get trends query.
func (h *GetTrendsHandler) Handle(ctx context.Context, query GetTrendsQuery) (*TrendsResult, error) {
	days := query.Days
	if days <= 0 {
		days = 14
	}

	today := domain.TruncateToDay(h.now())
	currentStart := today.AddDate(0, 0, -days+1)
	previousStart := currentStart.AddDate(0, 0, -days)

	current, err := h.snapshotRepo.GetDateRange(ctx, query.UserID, currentStart, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	previous, err := h.snapshotRepo.GetDateRange(ctx, query.UserID, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	result := &TrendsResult{Snapshots: current}
	result.ScoreTrend = trendMetric(avgScore(current), avgScore(previous))
	result.MinutesTrend = trendMetric(avgMinutes(current), avgMinutes(previous))

	for _, snapshot := range current {
		if !snapshot.HasActivity() {
			continue
		}
		if result.BestDay == nil || snapshot.AvgScore > result.BestDay.AvgScore {
			result.BestDay = snapshot
		}
		if result.WorstDay == nil || snapshot.AvgScore < result.WorstDay.AvgScore {
			result.WorstDay = snapshot
		}
	}

	return result, nil
}

func trendMetric(current, previous float64) TrendMetric {
	metric := TrendMetric{
		Direction:   "stable",
		CurrentAvg:  current,
		PreviousAvg: previous,
	}
	if previous > 0 {
		metric.Change = (current - previous) / previous * 100
	}

	switch {
	case metric.Change > 5:
		metric.Direction = "up"
	case metric.Change < -5:
		metric.Direction = "down"
	}
	return metric
}

func avgScore(snapshots []*domain.DailySnapshot) float64 {
	sum := 0.0
	days := 0
	for _, snapshot := range snapshots {
		if snapshot.HasActivity() {
			sum += snapshot.AvgScore
			days++
		}
	}
	if days == 0 {
		return 0
	}
	return sum / float64(days)
}

func avgMinutes(snapshots []*domain.DailySnapshot) float64 {
	if len(snapshots) == 0 {
		return 0
	}
	sum := 0
	for _, snapshot := range snapshots {
		sum += snapshot.MinutesWorked
	}
	return float64(sum) / float64(len(snapshots))
}
