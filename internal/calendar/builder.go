package calendar

import (
	"log/slog"
	"time"

	"github.com/ssewanyana/groupcal/internal/filter"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/normalize"
)

// DefaultPageSize is the page size used when the caller does not set one.
const DefaultPageSize = 20

// Config holds configuration options for the view-model builder.
type Config struct {
	Location  *time.Location
	PageSize  int
	Ascending bool
}

// DefaultConfig returns the default configuration: UTC days, descending
// buckets, DefaultPageSize.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Location: time.UTC,
	}
}

// Builder assembles the calendar view model from a feed. It holds no
// mutable state: identical inputs (including now) produce identical output,
// so callers are free to memoize on (criteria, range, page, feed version).
type Builder struct {
	loc       *time.Location
	logger    *slog.Logger
	pageSize  int
	ascending bool
}

// NewBuilder creates a builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Builder{
		pageSize:  cfg.PageSize,
		loc:       cfg.Location,
		ascending: cfg.Ascending,
		logger:    slog.Default().With("component", "calendar"),
	}
}

// ViewModel is the complete per-request result consumed by the display
// layer. Days lists every slot of the requested range whether or not it has
// events; Buckets only carry days that do.
type ViewModel struct {
	Days           []time.Time
	Buckets        []model.DateBucket
	Summary        model.FilterSummary
	Page           Page
	ActiveFilters  int
	DroppedRecords int
}

// Build runs the full pipeline over a raw feed: normalize, validate
// criteria, filter, aggregate, paginate. Malformed records are dropped and
// counted, never fatal; invalid criteria are fatal and reported before any
// event is touched.
func (b *Builder) Build(records []normalize.RawRecord, criteria model.FilterCriteria, spec RangeSpec, pageNumber int, now time.Time) (*ViewModel, error) {
	events, dropped := normalize.Feed(records)
	vm, err := b.BuildFromEvents(events, criteria, spec, pageNumber, now)
	if err != nil {
		return nil, err
	}
	vm.DroppedRecords = dropped
	return vm, nil
}

// BuildFromEvents runs the pipeline over an already-canonical feed.
// Filtering happens strictly before aggregation and pagination; aggregating
// first would corrupt the summary totals.
func (b *Builder) BuildFromEvents(events []model.CalendarEvent, criteria model.FilterCriteria, spec RangeSpec, pageNumber int, now time.Time) (*ViewModel, error) {
	pred, err := filter.New(criteria, now, b.loc)
	if err != nil {
		return nil, err
	}

	kept := pred.Apply(events)
	buckets, summary := Aggregate(kept, b.loc, b.ascending)
	page := Paginate(Flatten(buckets), b.pageSize, pageNumber)

	b.logger.Debug("Built calendar view model",
		"candidates", len(events),
		"matched", summary.TotalEvents,
		"buckets", len(buckets),
		"page", page.PageNumber,
		"total_pages", page.TotalPages)

	return &ViewModel{
		Days:          ExpandRange(spec, b.loc),
		Buckets:       buckets,
		Summary:       summary,
		Page:          page,
		ActiveFilters: criteria.ActiveFilterCount(),
	}, nil
}
