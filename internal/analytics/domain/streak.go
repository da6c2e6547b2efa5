package domain

import "time"

// Streak captures consecutive days with at least one completed session.
type Streak struct {
	Current int
	Longest int
}

// ComputeStreaks derives streaks from daily snapshots. Snapshots may arrive
// in any order and with gaps; a missing day breaks the streak. The current
// streak is anchored at today and survives while today itself has no
// activity yet.
func ComputeStreaks(snapshots []*DailySnapshot, today time.Time) Streak {
	active := make(map[time.Time]bool, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.HasActivity() {
			active[TruncateToDay(snapshot.SnapshotDate)] = true
		}
	}
	if len(active) == 0 {
		return Streak{}
	}

	var streak Streak

	// Current: walk back from today. An inactive today does not break the
	// streak, it just doesn't count yet.
	day := TruncateToDay(today)
	if !active[day] {
		day = day.AddDate(0, 0, -1)
	}
	for active[day] {
		streak.Current++
		day = day.AddDate(0, 0, -1)
	}

	// Longest: count runs over all active days.
	for day := range active {
		if active[day.AddDate(0, 0, -1)] {
			continue // not the start of a run
		}
		length := 0
		for cursor := day; active[cursor]; cursor = cursor.AddDate(0, 0, 1) {
			length++
		}
		if length > streak.Longest {
			streak.Longest = length
		}
	}

	return streak
}
