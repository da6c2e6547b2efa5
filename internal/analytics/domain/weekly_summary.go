package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeeklySummary aggregates snapshots over one Monday-to-Sunday week.
type WeeklySummary struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	WeekStart time.Time
	WeekEnd   time.Time

	SessionsCompleted int
	SessionsMissed    int
	MinutesWorked     int
	AvgScore          float64

	// ScoreTrend is the percentage change of the average score against the
	// previous week. Zero when the previous week has no data.
	ScoreTrend float64

	MostProductiveDay *time.Time

	ComputedAt time.Time
}

// NewWeeklySummary computes a summary from the week's snapshots and the
// previous week's average score.
func NewWeeklySummary(userID uuid.UUID, weekStart time.Time, snapshots []*DailySnapshot, previousAvgScore float64) *WeeklySummary {
	weekStart = StartOfWeek(weekStart)
	summary := &WeeklySummary{
		ID:         uuid.New(),
		UserID:     userID,
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDate(0, 0, 6),
		ComputedAt: time.Now().UTC(),
	}

	scoreSum := 0.0
	scoredDays := 0
	bestScore := -1.0
	for _, snapshot := range snapshots {
		summary.SessionsCompleted += snapshot.SessionsCompleted
		summary.SessionsMissed += snapshot.SessionsMissed
		summary.MinutesWorked += snapshot.MinutesWorked

		if snapshot.HasActivity() {
			scoreSum += snapshot.AvgScore
			scoredDays++
			if snapshot.AvgScore > bestScore {
				bestScore = snapshot.AvgScore
				day := TruncateToDay(snapshot.SnapshotDate)
				summary.MostProductiveDay = &day
			}
		}
	}

	if scoredDays > 0 {
		summary.AvgScore = scoreSum / float64(scoredDays)
	}
	if previousAvgScore > 0 {
		summary.ScoreTrend = (summary.AvgScore - previousAvgScore) / previousAvgScore * 100
	}

	return summary
}

// StartOfWeek returns the Monday of the week containing the given time,
// truncated to midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	offset := int(t.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	return t.AddDate(0, 0, -offset)
}
