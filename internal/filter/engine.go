// Package filter implements the predicate engine that decides which calendar
// events survive a filtering session.
package filter

import (
	"time"

	"github.com/ssewanyana/groupcal/internal/model"
)

// Predicate is a compiled filter: criteria validated once, time window
// resolved once against a fixed "now". Every clause is AND-combined and
// clause order never changes the outcome, so the cheap membership checks run
// before the amount and geography chains.
type Predicate struct {
	loc       *time.Location
	criteria  model.FilterCriteria
	window    Window
	hasWindow bool
}

// New validates the criteria and compiles a predicate anchored to now.
// An impossible criteria state (min above max, custom start after custom
// end) is reported as *InvalidCriteriaError before any event is examined.
func New(criteria model.FilterCriteria, now time.Time, loc *time.Location) (*Predicate, error) {
	if err := Validate(criteria); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	window, hasWindow := ResolveWindow(criteria, now, loc)
	return &Predicate{
		criteria:  criteria,
		window:    window,
		hasWindow: hasWindow,
		loc:       loc,
	}, nil
}

// Validate checks a criteria object for logically impossible states.
func Validate(c model.FilterCriteria) error {
	if c.AmountMin != nil && c.AmountMax != nil && *c.AmountMin > *c.AmountMax {
		return &InvalidCriteriaError{
			Field:  "amount",
			Reason: "minimum amount is greater than maximum amount",
		}
	}
	if start, end, ok := c.CustomBounds(); ok && start.After(end) {
		return &InvalidCriteriaError{
			Field:  "time_period",
			Reason: "custom range start date is after end date",
		}
	}
	return nil
}

// Matches reports whether the event survives every criteria dimension.
// Absent optional fields never satisfy a real constraint: an event with no
// fund type fails any concrete fund type selection, an event with no amount
// fails any amount bound.
func (p *Predicate) Matches(e model.CalendarEvent) bool {
	c := p.criteria

	if !c.EventTypes.Contains(e.Type) {
		return false
	}
	if model.IsConstrained(c.Verification) && string(e.Verification) != c.Verification {
		return false
	}
	if model.IsConstrained(c.Gender) && string(e.MemberGender) != c.Gender {
		return false
	}
	if !c.Roles.Contains(e.MemberRole) {
		return false
	}
	if !c.GroupIDs.Contains(e.GroupID) {
		return false
	}
	if !c.FundTypes.Contains(e.FundType) {
		return false
	}
	if c.AmountMin != nil && (e.Amount == nil || *e.Amount < *c.AmountMin) {
		return false
	}
	if c.AmountMax != nil && (e.Amount == nil || *e.Amount > *c.AmountMax) {
		return false
	}
	if p.hasWindow && !p.window.Contains(e.Day(p.loc)) {
		return false
	}

	// Geography dimensions are independent equality checks: a district
	// constraint never requires the region to be constrained too.
	if model.IsConstrained(c.Region) && e.Region != c.Region {
		return false
	}
	if model.IsConstrained(c.District) && e.District != c.District {
		return false
	}
	if model.IsConstrained(c.Parish) && e.Parish != c.Parish {
		return false
	}
	if model.IsConstrained(c.Village) && e.Village != c.Village {
		return false
	}

	return true
}

// Apply filters a feed, preserving input order.
func (p *Predicate) Apply(events []model.CalendarEvent) []model.CalendarEvent {
	kept := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if p.Matches(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
