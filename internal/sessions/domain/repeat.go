package domain

import (
	"errors"
	"time"
)

// RepeatRule describes how a session recurs.
type RepeatRule string

const (
	RepeatDaily    RepeatRule = "daily"
	RepeatWeekdays RepeatRule = "weekdays"
	RepeatWeekends RepeatRule = "weekends"
	RepeatWeekly   RepeatRule = "weekly"
)

var ErrInvalidRepeatRule = errors.New("invalid repeat rule")

// ParseRepeatRule validates a raw rule string.
func ParseRepeatRule(raw string) (RepeatRule, error) {
	rule := RepeatRule(raw)
	if !rule.IsValid() {
		return "", ErrInvalidRepeatRule
	}
	return rule, nil
}

func (r RepeatRule) IsValid() bool {
	switch r {
	case RepeatDaily, RepeatWeekdays, RepeatWeekends, RepeatWeekly:
		return true
	}
	return false
}

func (r RepeatRule) String() string {
	return string(r)
}

// Occurrences returns the next count scheduled starts strictly after the
// given anchor, preserving its time of day.
func (r RepeatRule) Occurrences(after time.Time, count int) []time.Time {
	if count <= 0 || !r.IsValid() {
		return nil
	}

	occurrences := make([]time.Time, 0, count)
	next := after
	for len(occurrences) < count {
		if r == RepeatWeekly {
			next = next.AddDate(0, 0, 7)
			occurrences = append(occurrences, next)
			continue
		}

		next = next.AddDate(0, 0, 1)
		if r.matchesDay(next.Weekday()) {
			occurrences = append(occurrences, next)
		}
	}
	return occurrences
}

func (r RepeatRule) matchesDay(day time.Weekday) bool {
	weekend := day == time.Saturday || day == time.Sunday
	switch r {
	case RepeatDaily:
		return true
	case RepeatWeekdays:
		return !weekend
	case RepeatWeekends:
		return weekend
	}
	return false
}
