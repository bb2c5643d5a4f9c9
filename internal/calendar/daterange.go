package calendar

import "time"

// ViewMode selects how wide a slice of the calendar the display shows.
type ViewMode string

// Supported view modes.
const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// RangeSpec is a requested display range: a view mode plus the date it is
// anchored on.
type RangeSpec struct {
	Anchor time.Time
	Mode   ViewMode
}

// ExpandRange returns the concrete day slots the view displays, independent
// of which days carry events: empty days still appear as slots. Weeks start
// on Monday; an unknown mode falls back to a single day.
func ExpandRange(spec RangeSpec, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	anchor := spec.Anchor.In(loc)
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	switch spec.Mode {
	case ViewWeek:
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = monday.AddDate(0, 0, i)
		}
		return days
	case ViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		next := first.AddDate(0, 1, 0)
		days := make([]time.Time, 0, 31)
		for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days
	default:
		return []time.Time{day}
	}
}
