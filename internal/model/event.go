// Package model contains the canonical domain types shared across the application.
package model

import "time"

// EventType identifies the kind of activity an event represents.
type EventType string

// Supported event types.
const (
	EventTransaction EventType = "TRANSACTION"
	EventMeeting     EventType = "MEETING"
	EventLoan        EventType = "LOAN"
	EventCampaign    EventType = "CAMPAIGN"
	EventFine        EventType = "FINE"
)

// AllEventTypes is the full event type domain, in display order.
var AllEventTypes = []EventType{EventTransaction, EventMeeting, EventLoan, EventCampaign, EventFine}

// FundType identifies the sub-ledger a financial transaction belongs to.
type FundType string

// Supported fund types. An empty FundType means the event carries no fund
// information at all (meetings, campaigns), which is different from any
// concrete value.
const (
	FundPersonal FundType = "PERSONAL"
	FundECD      FundType = "ECD"
	FundSocial   FundType = "SOCIAL"
	FundTarget   FundType = "TARGET"
)

// AllFundTypes is the full fund type domain.
var AllFundTypes = []FundType{FundPersonal, FundECD, FundSocial, FundTarget}

// VerificationStatus reflects whether an event has been reviewed upstream.
type VerificationStatus string

// Supported verification statuses.
const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Gender is the reported gender of the member attached to an event.
type Gender string

// Supported gender values.
const (
	GenderFemale Gender = "F"
	GenderMale   Gender = "M"
	GenderOther  Gender = "OTHER"
)

// CalendarEvent is the canonical, immutable representation of any activity
// displayed on the calendar, regardless of which subsystem produced it.
//
// EventDate is always present. Every other field is optional: string fields
// use "" and Amount uses nil for "absent". Absent fields never satisfy a
// specific filter value (closed world, not wildcard).
type CalendarEvent struct {
	Date         time.Time
	OccurredAt   time.Time // full timestamp where the source provides one; zero otherwise
	ID           string
	Type         EventType
	Title        string
	Description  string
	GroupID      string
	GroupName    string
	Region       string
	District     string
	Parish       string
	Village      string
	MemberRole   string
	MemberGender Gender
	FundType     FundType
	Verification VerificationStatus
	Amount       *int64 // smallest currency unit; nil when the event has no monetary value
}

// HasAmount reports whether the event carries a monetary value.
func (e CalendarEvent) HasAmount() bool {
	return e.Amount != nil
}

// AmountValue returns the monetary value, or 0 when absent.
func (e CalendarEvent) AmountValue() int64 {
	if e.Amount == nil {
		return 0
	}
	return *e.Amount
}

// Day returns the event's calendar date truncated to day granularity in the
// given location. The same truncation is used for time-window filtering and
// for bucket grouping so window boundaries and buckets can never disagree.
func (e CalendarEvent) Day(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := e.Date.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SortTime returns the timestamp used for recency ordering: the full
// timestamp when the source provided one, else the calendar date.
func (e CalendarEvent) SortTime() time.Time {
	if !e.OccurredAt.IsZero() {
		return e.OccurredAt
	}
	return e.Date
}

// GroupRef is a selectable group in the filter option catalog.
type GroupRef struct {
	ID   string
	Name string
}

// FilterOptions is the catalog of selectable filter values served to the UI.
// Filtering itself never depends on this catalog being complete: a value
// missing here still filters correctly when it appears on an event.
type FilterOptions struct {
	Regions              []string
	Districts            []string
	Parishes             []string
	Villages             []string
	Roles                []string
	Genders              []Gender
	FundTypes            []FundType
	EventTypes           []EventType
	VerificationStatuses []VerificationStatus
	Groups               []GroupRef
}

// DateRange is a half-open request window handed to the event source.
type DateRange struct {
	Start time.Time
	End   time.Time
}
