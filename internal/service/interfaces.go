// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/normalize"
)

// EventQuery defines filtering options for cached event lookups. Nil bounds
// mean unbounded; this is a coarse pre-filter only, the predicate engine is
// still applied to whatever the store returns.
type EventQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	GroupIDs  []string
	Limit     int
}

// Storage defines the contract for the local event cache.
type Storage interface {
	// Event cache operations
	SaveEvents(ctx context.Context, events []model.CalendarEvent) error
	GetEvents(ctx context.Context, query EventQuery) ([]model.CalendarEvent, error)
	GetEventByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	CountEvents(ctx context.Context) (int, error)
	PruneEventsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Filter option catalog
	SaveFilterOptions(ctx context.Context, options *model.FilterOptions) error
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// EventSource defines the contract for the remote group-management backend.
// The source is treated as unreliable: records may omit fields and any
// server-side filtering is advisory, never authoritative.
type EventSource interface {
	FetchEvents(ctx context.Context, dateRange model.DateRange, hints FetchHints) ([]normalize.RawRecord, error)
	FetchFilterOptions(ctx context.Context) (*model.FilterOptions, error)
}

// FetchHints are criteria forwarded to the backend so it can pre-narrow the
// feed. They are an optimization only; the caller re-filters client-side.
type FetchHints struct {
	GroupIDs   []string
	EventTypes []model.EventType
}

// ReportWriter defines the contract for exporting an activity report.
type ReportWriter interface {
	Write(ctx context.Context, buckets []model.DateBucket, summary model.FilterSummary, meta ReportMeta) error
}

// ReportMeta describes the report being written.
type ReportMeta struct {
	Title         string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	GeneratedAt   time.Time
	ActiveFilters int
}

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
