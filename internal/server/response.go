package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/model"
)

// Wire DTOs. The model stays free of serialization concerns; the shapes here
// are what the web UI consumes.

type eventDTO struct {
	ID           string `json:"id"`
	EventType    string `json:"eventType"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	EventDate    string `json:"eventDate"`
	GroupID      string `json:"groupId,omitempty"`
	GroupName    string `json:"groupName,omitempty"`
	Region       string `json:"region,omitempty"`
	District     string `json:"district,omitempty"`
	Parish       string `json:"parish,omitempty"`
	Village      string `json:"village,omitempty"`
	Amount       *int64 `json:"amount,omitempty"`
	FundType     string `json:"fundType,omitempty"`
	Verification string `json:"verificationStatus,omitempty"`
	MemberGender string `json:"memberGender,omitempty"`
	MemberRole   string `json:"memberRole,omitempty"`
}

type bucketDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}

type summaryDTO struct {
	TotalEvents        int            `json:"totalEvents"`
	TotalAmount        int64          `json:"totalAmount"`
	EventTypeBreakdown map[string]int `json:"eventTypeBreakdown"`
	FundTypeBreakdown  map[string]int `json:"fundTypeBreakdown"`
}

type pageDTO struct {
	Items      []eventDTO `json:"items"`
	PageNumber int        `json:"pageNumber"`
	TotalPages int        `json:"totalPages"`
	TotalCount int        `json:"totalCount"`
	StartIndex int        `json:"startIndex"`
	EndIndex   int        `json:"endIndex"`
}

type calendarDTO struct {
	Days           []string    `json:"days"`
	Buckets        []bucketDTO `json:"buckets"`
	Summary        summaryDTO  `json:"summary"`
	Page           pageDTO     `json:"page"`
	ActiveFilters  int         `json:"activeFilters"`
	DroppedRecords int         `json:"droppedRecords"`
}

func toEventDTO(e model.CalendarEvent) eventDTO {
	return eventDTO{
		ID:           e.ID,
		EventType:    string(e.Type),
		Title:        e.Title,
		Description:  e.Description,
		EventDate:    e.Date.Format("2006-01-02"),
		GroupID:      e.GroupID,
		GroupName:    e.GroupName,
		Region:       e.Region,
		District:     e.District,
		Parish:       e.Parish,
		Village:      e.Village,
		Amount:       e.Amount,
		FundType:     string(e.FundType),
		Verification: string(e.Verification),
		MemberGender: string(e.MemberGender),
		MemberRole:   e.MemberRole,
	}
}

func toCalendarDTO(vm *calendar.ViewModel) calendarDTO {
	dto := calendarDTO{
		Days:           make([]string, len(vm.Days)),
		Buckets:        make([]bucketDTO, len(vm.Buckets)),
		ActiveFilters:  vm.ActiveFilters,
		DroppedRecords: vm.DroppedRecords,
		Summary: summaryDTO{
			TotalEvents:        vm.Summary.TotalEvents,
			TotalAmount:        vm.Summary.TotalAmount,
			EventTypeBreakdown: make(map[string]int, len(vm.Summary.EventTypeBreakdown)),
			FundTypeBreakdown:  make(map[string]int, len(vm.Summary.FundTypeBreakdown)),
		},
		Page: pageDTO{
			Items:      make([]eventDTO, len(vm.Page.Items)),
			PageNumber: vm.Page.PageNumber,
			TotalPages: vm.Page.TotalPages,
			TotalCount: vm.Page.TotalCount,
			StartIndex: vm.Page.StartIndex,
			EndIndex:   vm.Page.EndIndex,
		},
	}
	for i, day := range vm.Days {
		dto.Days[i] = day.Format("2006-01-02")
	}
	for i, b := range vm.Buckets {
		events := make([]eventDTO, len(b.Events))
		for j, e := range b.Events {
			events[j] = toEventDTO(e)
		}
		dto.Buckets[i] = bucketDTO{Date: b.Date.Format("2006-01-02"), Events: events}
	}
	for t, count := range vm.Summary.EventTypeBreakdown {
		dto.Summary.EventTypeBreakdown[string(t)] = count
	}
	for f, count := range vm.Summary.FundTypeBreakdown {
		dto.Summary.FundTypeBreakdown[string(f)] = count
	}
	for i, e := range vm.Page.Items {
		dto.Page.Items[i] = toEventDTO(e)
	}
	return dto
}

type optionsDTO struct {
	Regions              []string   `json:"regions"`
	Districts            []string   `json:"districts"`
	Parishes             []string   `json:"parishes"`
	Villages             []string   `json:"villages"`
	Roles                []string   `json:"roles"`
	Genders              []string   `json:"genders"`
	FundTypes            []string   `json:"fundTypes"`
	EventTypes           []string   `json:"eventTypes"`
	VerificationStatuses []string   `json:"verificationStatuses"`
	Groups               []groupDTO `json:"groups"`
}

type groupDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toOptionsDTO(o *model.FilterOptions) optionsDTO {
	dto := optionsDTO{
		Regions:              emptyIfNil(o.Regions),
		Districts:            emptyIfNil(o.Districts),
		Parishes:             emptyIfNil(o.Parishes),
		Villages:             emptyIfNil(o.Villages),
		Roles:                emptyIfNil(o.Roles),
		Genders:              []string{},
		FundTypes:            []string{},
		EventTypes:           []string{},
		VerificationStatuses: []string{},
		Groups:               []groupDTO{},
	}
	for _, g := range o.Genders {
		dto.Genders = append(dto.Genders, string(g))
	}
	for _, f := range o.FundTypes {
		dto.FundTypes = append(dto.FundTypes, string(f))
	}
	for _, e := range o.EventTypes {
		dto.EventTypes = append(dto.EventTypes, string(e))
	}
	for _, v := range o.VerificationStatuses {
		dto.VerificationStatuses = append(dto.VerificationStatuses, string(v))
	}
	for _, g := range o.Groups {
		dto.Groups = append(dto.Groups, groupDTO{ID: g.ID, Name: g.Name})
	}
	return dto
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeJSON encodes v with a status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError sends the error envelope the UI expects.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// healthDTO is the healthz payload.
type healthDTO struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func healthNow(now time.Time) healthDTO {
	return healthDTO{Status: "ok", Time: now.UTC().Format(time.RFC3339)}
}
