// Package calendar composes the activity pipeline: normalize, filter,
// aggregate, paginate, and assemble the view model the display layer renders.
package calendar

import (
	"sort"
	"time"

	"github.com/ssewanyana/groupcal/internal/model"
)

// Aggregate groups events by calendar day and derives the filter summary.
// Within a bucket events are sorted most-recent-first with ties broken by ID
// ascending, so output is deterministic for identical input. Buckets are
// ordered descending by date unless ascending is requested.
func Aggregate(events []model.CalendarEvent, loc *time.Location, ascending bool) ([]model.DateBucket, model.FilterSummary) {
	if loc == nil {
		loc = time.UTC
	}

	summary := model.FilterSummary{
		EventTypeBreakdown: make(map[model.EventType]int),
		FundTypeBreakdown:  make(map[model.FundType]int),
	}

	byDay := make(map[time.Time][]model.CalendarEvent)
	for _, e := range events {
		day := e.Day(loc)
		byDay[day] = append(byDay[day], e)

		summary.TotalEvents++
		summary.EventTypeBreakdown[e.Type]++
		if e.FundType != "" {
			summary.FundTypeBreakdown[e.FundType]++
		}
		if e.Amount != nil {
			summary.TotalAmount += *e.Amount
		}
	}

	buckets := make([]model.DateBucket, 0, len(byDay))
	for day, dayEvents := range byDay {
		sort.Slice(dayEvents, func(i, j int) bool {
			ti, tj := dayEvents[i].SortTime(), dayEvents[j].SortTime()
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return dayEvents[i].ID < dayEvents[j].ID
		})
		buckets = append(buckets, model.DateBucket{Date: day, Events: dayEvents})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if ascending {
			return buckets[i].Date.Before(buckets[j].Date)
		}
		return buckets[i].Date.After(buckets[j].Date)
	})

	return buckets, summary
}

// Flatten returns the events of all buckets in bucket order, the ordering
// pagination runs over.
func Flatten(buckets []model.DateBucket) []model.CalendarEvent {
	total := 0
	for _, b := range buckets {
		total += len(b.Events)
	}
	out := make([]model.CalendarEvent, 0, total)
	for _, b := range buckets {
		out = append(out, b.Events...)
	}
	return out
}
