package model

import "time"

// FilterSummary is the aggregate view of one filter application. Breakdown
// maps only carry keys that occur at least once.
type FilterSummary struct {
	EventTypeBreakdown map[EventType]int
	FundTypeBreakdown  map[FundType]int
	TotalEvents        int
	TotalAmount        int64
}

// DateBucket groups the events sharing one calendar date. Events keep the
// aggregator's sort order: most recent first, ties broken by ID ascending.
type DateBucket struct {
	Date   time.Time
	Events []CalendarEvent
}
