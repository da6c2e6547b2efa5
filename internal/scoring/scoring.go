// Package scoring computes the productivity score for a completed work
// session. The score has three pillars: promptness (how close the actual
// start was to the scheduled start), focus (how much of the planned duration
// was worked), and a commitment bonus for sustained effort. The package is
// pure computation: no state, no I/O, and every finite input produces a
// defined result.
package scoring

import (
	"math"
	"time"
)

// Pillar maximums.
const (
	PromptnessMax = 30.0
	FocusMax      = 60.0
	TotalMax      = 100.0
)

// GraceMinutes is the lateness window within which no promptness penalty
// applies.
const GraceMinutes = 2

// Promptness tier breakpoints and slopes. The tiers are continuous at the
// boundaries: both formulas yield 15 at delay=10, and the second reaches 0
// at delay=30.
const (
	moderateDelayLimit = 10
	severeDelayLimit   = 30
	moderateSlope      = 1.875
	severeSlope        = 0.75
	moderateTierFloor  = 15.0
)

// Commitment bonus logistic curve. The numerator is 10.5 rather than 10 so
// the asymptote rounds to 10 instead of approaching it from below and
// rounding down. The midpoint (half the cap) sits at exactly 45 completed
// minutes.
const (
	commitmentNumerator = 10.5
	commitmentSteepness = 0.07
	commitmentMidpoint  = 45.0
)

// Input carries the timing facts of a single session at completion time.
// CompletedMinutes is elapsed worked time excluding paused intervals and may
// exceed DurationMinutes.
type Input struct {
	ScheduledStart   time.Time
	ActualStart      time.Time
	DurationMinutes  int
	CompletedMinutes int
}

// Breakdown is the scored result. Each sub-score is rounded independently
// for display; Total is rounded from the unrounded pillar sum, so the three
// sub-scores may not add up to Total exactly.
type Breakdown struct {
	Promptness      int `json:"promptness_score"`
	Focus           int `json:"focus_score"`
	CommitmentBonus int `json:"commitment_bonus"`
	Total           int `json:"total_score"`
}

// DelayMinutes returns the signed lateness between the scheduled and actual
// start in whole minutes, floored toward negative infinity. A negative value
// means the session started early.
func DelayMinutes(scheduled, actual time.Time) int {
	return int(math.Floor(float64(actual.Sub(scheduled).Milliseconds()) / 60_000.0))
}

// CompletionPercentage returns the percentage of the planned duration that
// was actually worked, rounded to the nearest integer and clamped to
// [0, 100]. A non-positive duration yields 0 rather than an error.
func CompletionPercentage(completedMinutes, durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	pct := math.Round(float64(completedMinutes) / float64(durationMinutes) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// Calculate combines the three pillars into a 0-100 score with a full
// breakdown. It never fails: degenerate inputs (non-positive duration,
// negative completed minutes, starts far in the past or future) are clamped
// or floored, not rejected.
func Calculate(in Input) Breakdown {
	delay := DelayMinutes(in.ScheduledStart, in.ActualStart)
	promptness := promptnessScore(delay)
	focus := float64(CompletionPercentage(in.CompletedMinutes, in.DurationMinutes)) / 100 * FocusMax
	bonus := commitmentBonus(in.CompletedMinutes)

	// Cap on the unrounded sum, then round. Sub-scores round independently.
	total := promptness + focus + bonus
	if total > TotalMax {
		total = TotalMax
	}

	return Breakdown{
		Promptness:      int(math.Round(promptness)),
		Focus:           int(math.Round(focus)),
		CommitmentBonus: int(math.Round(bonus)),
		Total:           int(math.Round(total)),
	}
}

// promptnessScore maps delay minutes onto the tiered piecewise-linear
// penalty. Early starts fall into the grace tier; no floor is applied to the
// delay before tiering.
func promptnessScore(delayMinutes int) float64 {
	switch {
	case delayMinutes <= GraceMinutes:
		return PromptnessMax
	case delayMinutes <= moderateDelayLimit:
		return PromptnessMax - moderateSlope*float64(delayMinutes-GraceMinutes)
	case delayMinutes <= severeDelayLimit:
		return moderateTierFloor - severeSlope*float64(delayMinutes-moderateDelayLimit)
	default:
		return 0
	}
}

// commitmentBonus rewards sustained work via a logistic S-curve on raw
// completed minutes, independent of the planned duration.
func commitmentBonus(completedMinutes int) float64 {
	return commitmentNumerator / (1 + math.Exp(-commitmentSteepness*(float64(completedMinutes)-commitmentMidpoint)))
}
