package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWeek = errors.New("invalid week")

const Week = 7 * 24 * time.Hour

// DefaultBaseDeadline is the week 1 pick deadline: Sunday 1 PM Eastern.
var DefaultBaseDeadline = time.Date(2025, time.September, 7, 18, 0, 0, 0, time.UTC)

// Calendar maps week numbers to pick deadlines. It holds no mutable state.
type Calendar struct {
	BaseDeadline time.Time
	SeasonStart  time.Time
}

func DefaultCalendar() Calendar {
	return NewCalendar(DefaultBaseDeadline, time.Time{})
}

// NewCalendar builds a calendar. A zero seasonStart places the season start one week
// before the base deadline, so the current week is the first one still open.
func NewCalendar(baseDeadline, seasonStart time.Time) Calendar {
	if baseDeadline.IsZero() {
		baseDeadline = DefaultBaseDeadline
	}
	if seasonStart.IsZero() {
		seasonStart = baseDeadline.Add(-Week)
	}
	return Calendar{
		BaseDeadline: baseDeadline.UTC(),
		SeasonStart:  seasonStart.UTC(),
	}
}

func (c Calendar) DeadlineFor(week int) (time.Time, error) {
	if week <= 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return c.BaseDeadline.Add(time.Duration(week-1) * Week), nil
}

// IsLocked reports whether picks for week are closed at now.
func (c Calendar) IsLocked(week int, now time.Time) (bool, error) {
	deadline, err := c.DeadlineFor(week)
	if err != nil {
		return false, err
	}
	return now.After(deadline), nil
}

func (c Calendar) CurrentWeek(now time.Time) int {
	elapsed := now.Sub(c.SeasonStart)
	if elapsed < 0 {
		return 1
	}
	week := int(elapsed/Week) + 1
	if week < 1 {
		return 1
	}
	return week
}

// ResolveWeek substitutes the current week for 0 and rejects negatives.
func (c Calendar) ResolveWeek(week int, now time.Time) (int, error) {
	switch {
	case week == 0:
		return c.CurrentWeek(now), nil
	case week < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	default:
		return week, nil
	}
}
