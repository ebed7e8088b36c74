package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarDeadlineFor(t *testing.T) {
	cal := DefaultCalendar()

	tests := []struct {
		week int
		want time.Time
	}{
		{week: 1, want: time.Date(2025, time.September, 7, 18, 0, 0, 0, time.UTC)},
		{week: 2, want: time.Date(2025, time.September, 14, 18, 0, 0, 0, time.UTC)},
		{week: 18, want: time.Date(2026, time.January, 4, 18, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := cal.DeadlineFor(tt.week)
		if err != nil {
			t.Fatalf("week %d: unexpected error: %v", tt.week, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("week %d: expected %s, got %s", tt.week, tt.want, got)
		}
	}
}

func TestCalendarRejectsNonPositiveWeek(t *testing.T) {
	cal := DefaultCalendar()

	for _, week := range []int{0, -1, -52} {
		if _, err := cal.DeadlineFor(week); !errors.Is(err, ErrInvalidWeek) {
			t.Fatalf("week %d: expected ErrInvalidWeek, got %v", week, err)
		}
		if _, err := cal.IsLocked(week, time.Now()); !errors.Is(err, ErrInvalidWeek) {
			t.Fatalf("week %d: expected ErrInvalidWeek from IsLocked, got %v", week, err)
		}
	}
}

func TestCalendarIsLockedBoundary(t *testing.T) {
	cal := DefaultCalendar()
	deadline, _ := cal.DeadlineFor(3)

	locked, err := cal.IsLocked(3, deadline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locked {
		t.Fatalf("week must still be open exactly at the deadline")
	}

	locked, _ = cal.IsLocked(3, deadline.Add(time.Nanosecond))
	if !locked {
		t.Fatalf("week must lock after the deadline")
	}
}

func TestCalendarLockIsMonotonic(t *testing.T) {
	cal := DefaultCalendar()
	start := cal.BaseDeadline.Add(-2 * Week)

	for week := 1; week <= 5; week++ {
		wasLocked := false
		for step := 0; step < 7*8; step++ {
			now := start.Add(time.Duration(step) * 12 * time.Hour)
			locked, err := cal.IsLocked(week, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if wasLocked && !locked {
				t.Fatalf("week %d unlocked again at %s", week, now)
			}
			wasLocked = locked
		}
	}
}

func TestCalendarCurrentWeek(t *testing.T) {
	cal := DefaultCalendar()

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "before season", now: cal.SeasonStart.Add(-30 * 24 * time.Hour), want: 1},
		{name: "season start", now: cal.SeasonStart, want: 1},
		{name: "at week 1 deadline", now: cal.BaseDeadline.Add(-time.Nanosecond), want: 1},
		{name: "after week 1 deadline", now: cal.BaseDeadline, want: 2},
		{name: "mid season", now: cal.BaseDeadline.Add(3*Week + time.Hour), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.CurrentWeek(tt.now); got != tt.want {
				t.Fatalf("expected week %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCalendarResolveWeek(t *testing.T) {
	cal := DefaultCalendar()
	now := cal.BaseDeadline.Add(Week + time.Hour)

	week, err := cal.ResolveWeek(0, now)
	if err != nil || week != 3 {
		t.Fatalf("expected current week 3, got %d err=%v", week, err)
	}
	week, err = cal.ResolveWeek(7, now)
	if err != nil || week != 7 {
		t.Fatalf("expected explicit week 7, got %d err=%v", week, err)
	}
	if _, err := cal.ResolveWeek(-2, now); !errors.Is(err, ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}
}
