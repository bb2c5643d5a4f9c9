package filter

import (
	"time"

	"github.com/ssewanyana/groupcal/internal/model"
)

// Window is a resolved inclusive day range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the given day (already truncated to day
// granularity) falls inside the window.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// ResolveWindow turns the criteria's time period into a concrete inclusive
// [start, end] day range, anchored to now at the moment filtering runs.
// ok is false when the time dimension is unconstrained, which includes an
// incomplete custom range: a half-filled custom window is an
// editing-in-progress state, so it fails open rather than rejecting events.
func ResolveWindow(c model.FilterCriteria, now time.Time, loc *time.Location) (Window, bool) {
	if loc == nil {
		loc = time.UTC
	}
	today := truncateDay(now.In(loc))

	switch c.Period {
	case model.PeriodToday:
		return Window{Start: today, End: today}, true
	case model.PeriodThisWeek:
		start := startOfWeek(today)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}, true
	case model.PeriodThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, -1)}, true
	case model.PeriodLastMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
		return Window{Start: start, End: start.AddDate(0, 1, -1)}, true
	case model.PeriodCustom:
		start, end, ok := c.CustomBounds()
		if !ok {
			return Window{}, false
		}
		return Window{
			Start: truncateDay(start.In(loc)),
			End:   truncateDay(end.In(loc)),
		}, true
	default:
		return Window{}, false
	}
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
