package model

import "time"

// TimePeriod is an enumerated preset for the time window dimension.
type TimePeriod string

// Supported time periods.
const (
	PeriodToday     TimePeriod = "today"
	PeriodThisWeek  TimePeriod = "this_week"
	PeriodThisMonth TimePeriod = "this_month"
	PeriodLastMonth TimePeriod = "last_month"
	PeriodCustom    TimePeriod = "custom"
)

// FilterAll is the sentinel for single-valued dimensions that carry no
// constraint.
const FilterAll = "ALL"

// FilterCriteria is one filtering session's worth of dimensions. The zero
// value of every field is its unconstrained default; DefaultCriteria returns
// the explicit defaults used for the active-filter count.
type FilterCriteria struct {
	Period    TimePeriod
	StartDate *time.Time // custom window lower bound, inclusive
	EndDate   *time.Time // custom window upper bound, inclusive

	Region   string
	District string
	Parish   string
	Village  string

	Gender       string
	Verification string

	Roles      Selection[string]
	FundTypes  Selection[FundType]
	EventTypes Selection[EventType]
	GroupIDs   Selection[string]

	AmountMin *int64
	AmountMax *int64
}

// DefaultCriteria returns the unconstrained criteria: this-month window,
// every geography and demographic dimension open, all event and fund types.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Period:       PeriodThisMonth,
		Region:       FilterAll,
		District:     FilterAll,
		Parish:       FilterAll,
		Village:      FilterAll,
		Gender:       FilterAll,
		Verification: FilterAll,
	}
}

// IsConstrained reports whether a single-valued dimension holds a real
// constraint. An empty string is treated the same as FilterAll so that
// partially populated criteria (e.g. decoded from a sparse query string)
// behave like the default.
func IsConstrained(v string) bool {
	return v != "" && v != FilterAll
}

// CustomBounds reports whether the criteria carry a usable custom window.
// An incomplete custom range is an editing-in-progress state and resolves
// to "unconstrained", not an error.
func (c FilterCriteria) CustomBounds() (start, end time.Time, ok bool) {
	if c.Period != PeriodCustom || c.StartDate == nil || c.EndDate == nil {
		return time.Time{}, time.Time{}, false
	}
	return *c.StartDate, *c.EndDate, true
}

// ActiveFilterCount returns how many dimensions deviate from their default.
// Purely display-driving; it has no effect on matching.
func (c FilterCriteria) ActiveFilterCount() int {
	count := 0
	if c.Period != "" && c.Period != PeriodThisMonth {
		count++
	}
	for _, dim := range []string{c.Region, c.District, c.Parish, c.Village, c.Gender, c.Verification} {
		if IsConstrained(dim) {
			count++
		}
	}
	for _, constrained := range []bool{
		!c.Roles.Unconstrained(),
		!c.FundTypes.Unconstrained(),
		!c.EventTypes.Unconstrained(),
		!c.GroupIDs.Unconstrained(),
	} {
		if constrained {
			count++
		}
	}
	if c.AmountMin != nil {
		count++
	}
	if c.AmountMax != nil {
		count++
	}
	return count
}
