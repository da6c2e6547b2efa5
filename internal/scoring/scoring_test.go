package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDelayMinutes(t *testing.T) {
	tests := []struct {
		name     string
		offset   time.Duration
		expected int
	}{
		{"on time", 0, 0},
		{"one minute late", time.Minute, 1},
		{"partial minute floors down", 90 * time.Second, 1},
		{"five minutes early", -5 * time.Minute, -5},
		{"ninety seconds early floors toward negative infinity", -90 * time.Second, -2},
		{"thirty seconds early", -30 * time.Second, -1},
		{"hours late", 3 * time.Hour, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := baseTime.Add(tt.offset)
			assert.Equal(t, tt.expected, DelayMinutes(baseTime, actual))
		})
	}
}

func TestDelayMinutes_MonotonicInActualStart(t *testing.T) {
	prev := DelayMinutes(baseTime, baseTime.Add(-2*time.Hour))
	for offset := -120; offset <= 120; offset++ {
		actual := baseTime.Add(time.Duration(offset) * 30 * time.Second)
		delay := DelayMinutes(baseTime, actual)
		assert.GreaterOrEqual(t, delay, prev)
		prev = delay
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		duration  int
		expected  int
	}{
		{"full completion", 45, 45, 100},
		{"half completion", 30, 60, 50},
		{"rounds to nearest", 53, 104, 51},
		{"zero completed", 0, 45, 0},
		{"overrun clamps to 100", 90, 30, 100},
		{"negative completed clamps to 0", -10, 30, 0},
		{"zero duration guards division", 45, 0, 0},
		{"negative duration guards division", 45, -5, 0},
		{"zero duration with negative completed", -45, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompletionPercentage(tt.completed, tt.duration))
		})
	}
}

func TestPromptnessScore_TierContinuity(t *testing.T) {
	// Both tier formulas yield 15 at the 10-minute boundary.
	assert.InDelta(t, 15.0, promptnessScore(10), 1e-9)
	assert.InDelta(t, 15.0-severeSlope, promptnessScore(11), 1e-9)

	// The second tier reaches exactly 0 at 30 minutes.
	assert.InDelta(t, 0.0, promptnessScore(30), 1e-9)
	assert.Equal(t, 0.0, promptnessScore(31))

	// Grace boundary: 2 minutes is still the full score, 3 is penalized.
	assert.Equal(t, PromptnessMax, promptnessScore(2))
	assert.InDelta(t, PromptnessMax-moderateSlope, promptnessScore(3), 1e-9)

	// Early starts are not penalized.
	assert.Equal(t, PromptnessMax, promptnessScore(-45))
}

func TestCommitmentBonus_MidpointIsHalfOfCap(t *testing.T) {
	atMidpoint := commitmentBonus(45)
	assert.InDelta(t, commitmentNumerator/2, atMidpoint, 1e-9)

	// The asymptote rounds to 10 rather than 9 at large completed minutes.
	assert.Equal(t, 10, Calculate(Input{
		ScheduledStart:   baseTime,
		ActualStart:      baseTime,
		DurationMinutes:  120,
		CompletedMinutes: 120,
	}).CommitmentBonus)
}

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		delay     time.Duration
		duration  int
		completed int
		expected  Breakdown
	}{
		{
			name:      "on time full pomodoro",
			delay:     0,
			duration:  45,
			completed: 45,
			// Commitment bonus sits at its midpoint for 45 completed
			// minutes, so a perfect 45-minute session scores 95, not 100.
			expected: Breakdown{Promptness: 30, Focus: 60, CommitmentBonus: 5, Total: 95},
		},
		{
			name:      "on time but nothing done",
			delay:     0,
			duration:  45,
			completed: 0,
			expected:  Breakdown{Promptness: 30, Focus: 0, CommitmentBonus: 0, Total: 30},
		},
		{
			name:      "five minutes late half done",
			delay:     5 * time.Minute,
			duration:  60,
			completed: 30,
			expected:  Breakdown{Promptness: 24, Focus: 30, CommitmentBonus: 3, Total: 57},
		},
		{
			name:      "very late but fully focused",
			delay:     45 * time.Minute,
			duration:  30,
			completed: 30,
			expected:  Breakdown{Promptness: 0, Focus: 60, CommitmentBonus: 3, Total: 63},
		},
		{
			name:      "started early nothing done",
			delay:     -5 * time.Minute,
			duration:  10,
			completed: 0,
			expected:  Breakdown{Promptness: 30, Focus: 0, CommitmentBonus: 0, Total: 30},
		},
		{
			name:      "long overrun hits the cap",
			delay:     0,
			duration:  30,
			completed: 90,
			expected:  Breakdown{Promptness: 30, Focus: 60, CommitmentBonus: 10, Total: 100},
		},
		{
			name:      "degenerate zero duration",
			delay:     0,
			duration:  0,
			completed: 50,
			expected:  Breakdown{Promptness: 30, Focus: 0, CommitmentBonus: 6, Total: 36},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(Input{
				ScheduledStart:   baseTime,
				ActualStart:      baseTime.Add(tt.delay),
				DurationMinutes:  tt.duration,
				CompletedMinutes: tt.completed,
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculate_SubScoresMayNotSumToTotal(t *testing.T) {
	// The total is rounded from the unrounded pillar sum while each
	// sub-score rounds independently, so the displayed parts can disagree
	// with the displayed whole. This is intentional and must hold for
	// historical scores to stay consistent.
	got := Calculate(Input{
		ScheduledStart:   baseTime,
		ActualStart:      baseTime.Add(9 * time.Minute),
		DurationMinutes:  104,
		CompletedMinutes: 53,
	})

	assert.Equal(t, Breakdown{Promptness: 17, Focus: 31, CommitmentBonus: 7, Total: 54}, got)
	assert.Equal(t, 55, got.Promptness+got.Focus+got.CommitmentBonus)
}

func TestCalculate_TotalAlwaysInRange(t *testing.T) {
	delays := []time.Duration{-24 * time.Hour, -5 * time.Minute, 0, 2 * time.Minute, 10 * time.Minute, 30 * time.Minute, 48 * time.Hour}
	durations := []int{-10, 0, 1, 25, 45, 480}
	completed := []int{-100, 0, 1, 30, 45, 600}

	for _, d := range delays {
		for _, dur := range durations {
			for _, c := range completed {
				got := Calculate(Input{
					ScheduledStart:   baseTime,
					ActualStart:      baseTime.Add(d),
					DurationMinutes:  dur,
					CompletedMinutes: c,
				})
				assert.GreaterOrEqual(t, got.Total, 0)
				assert.LessOrEqual(t, got.Total, 100)
				assert.GreaterOrEqual(t, got.Promptness, 0)
				assert.LessOrEqual(t, got.Promptness, 30)
				assert.GreaterOrEqual(t, got.Focus, 0)
				assert.LessOrEqual(t, got.Focus, 60)
				assert.GreaterOrEqual(t, got.CommitmentBonus, 0)
				assert.LessOrEqual(t, got.CommitmentBonus, 10)
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{
		ScheduledStart:   baseTime,
		ActualStart:      baseTime.Add(7 * time.Minute),
		DurationMinutes:  50,
		CompletedMinutes: 42,
	}

	first := Calculate(in)
	second := Calculate(in)

	assert.Equal(t, first, second)
}
