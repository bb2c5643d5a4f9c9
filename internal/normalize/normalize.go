package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ssewanyana/groupcal/internal/model"
)

// Record converts one raw record into a canonical calendar event. It returns
// a *MalformedEventError when the record's id, kind, or date is missing or
// unparseable; missing optional fields stay absent and never default to a
// value that could satisfy a filter.
func Record(raw RawRecord) (model.CalendarEvent, error) {
	switch raw.Kind {
	case KindTransaction:
		return transactionEvent(raw.Data)
	case KindMeeting:
		return meetingEvent(raw.Data)
	case KindLoan:
		return loanEvent(raw.Data)
	case KindCampaign:
		return campaignEvent(raw.Data)
	default:
		return model.CalendarEvent{}, &MalformedEventError{
			Kind:   raw.Kind,
			Reason: fmt.Sprintf("unknown source kind %q", string(raw.Kind)),
		}
	}
}

// Feed converts a whole feed, dropping malformed records. It returns the
// surviving events in feed order and the number of records dropped.
func Feed(records []RawRecord) ([]model.CalendarEvent, int) {
	events := make([]model.CalendarEvent, 0, len(records))
	dropped := 0
	for _, raw := range records {
		event, err := Record(raw)
		if err != nil {
			dropped++
			slog.Debug("Dropping malformed record", "error", err)
			continue
		}
		events = append(events, event)
	}
	if dropped > 0 {
		slog.Warn("Dropped malformed records from feed", "dropped", dropped, "kept", len(events))
	}
	return events, dropped
}

func transactionEvent(data json.RawMessage) (model.CalendarEvent, error) {
	var raw rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CalendarEvent{}, &MalformedEventError{Kind: KindTransaction, Reason: err.Error()}
	}
	date, occurred, err := requireDate(KindTransaction, raw.ID, raw.Date, raw.CreatedAt)
	if err != nil {
		return model.CalendarEvent{}, err
	}

	// Fines arrive on the transaction feed tagged by category.
	eventType := model.EventTransaction
	title := raw.Description
	if strings.EqualFold(raw.Category, "fine") {
		eventType = model.EventFine
		if title == "" {
			title = "Fine"
		}
	}
	if title == "" {
		title = "Transaction"
	}

	event := model.CalendarEvent{
		ID:           raw.ID,
		Type:         eventType,
		Title:        title,
		Description:  raw.Description,
		Date:         date,
		OccurredAt:   occurred,
		Amount:       raw.Amount,
		FundType:     fundType(raw.FundType),
		Verification: verification(raw.Status),
		MemberGender: gender(raw.Member.Gender),
		MemberRole:   raw.Member.Role,
	}
	applyGroup(&event, raw.Group)
	return event, nil
}

func meetingEvent(data json.RawMessage) (model.CalendarEvent, error) {
	var raw rawMeeting
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CalendarEvent{}, &MalformedEventError{Kind: KindMeeting, Reason: err.Error()}
	}
	date, occurred, err := requireDate(KindMeeting, raw.ID, raw.Date, raw.CreatedAt)
	if err != nil {
		return model.CalendarEvent{}, err
	}

	title := raw.Title
	if title == "" {
		title = "Group meeting"
	}

	event := model.CalendarEvent{
		ID:           raw.ID,
		Type:         model.EventMeeting,
		Title:        title,
		Description:  raw.Agenda,
		Date:         date,
		OccurredAt:   occurred,
		Amount:       raw.Collected,
		Verification: verification(raw.Status),
	}
	applyGroup(&event, raw.Group)
	return event, nil
}

func loanEvent(data json.RawMessage) (model.CalendarEvent, error) {
	var raw rawLoan
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CalendarEvent{}, &MalformedEventError{Kind: KindLoan, Reason: err.Error()}
	}
	date, occurred, err := requireDate(KindLoan, raw.ID, raw.Date, raw.CreatedAt)
	if err != nil {
		return model.CalendarEvent{}, err
	}

	title := "Loan disbursement"
	if raw.Purpose != "" {
		title = fmt.Sprintf("Loan: %s", raw.Purpose)
	}

	event := model.CalendarEvent{
		ID:           raw.ID,
		Type:         model.EventLoan,
		Title:        title,
		Description:  raw.Purpose,
		Date:         date,
		OccurredAt:   occurred,
		Amount:       raw.Principal,
		Verification: verification(raw.Status),
		MemberGender: gender(raw.Member.Gender),
		MemberRole:   raw.Member.Role,
	}
	applyGroup(&event, raw.Group)
	return event, nil
}

func campaignEvent(data json.RawMessage) (model.CalendarEvent, error) {
	var raw rawCampaign
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CalendarEvent{}, &MalformedEventError{Kind: KindCampaign, Reason: err.Error()}
	}
	date, occurred, err := requireDate(KindCampaign, raw.ID, raw.Date, raw.CreatedAt)
	if err != nil {
		return model.CalendarEvent{}, err
	}

	title := raw.Name
	if title == "" {
		title = "Campaign"
	}

	event := model.CalendarEvent{
		ID:           raw.ID,
		Type:         model.EventCampaign,
		Title:        title,
		Description:  raw.Description,
		Date:         date,
		OccurredAt:   occurred,
		Amount:       raw.Target,
		Verification: verification(raw.Status),
	}
	applyGroup(&event, raw.Group)
	return event, nil
}

// requireDate validates the mandatory id/date pair shared by all kinds. The
// optional createdAt timestamp, when parseable, becomes the recency anchor.
func requireDate(kind SourceKind, id, dateStr, createdAt string) (date, occurred time.Time, err error) {
	if id == "" {
		return time.Time{}, time.Time{}, &MalformedEventError{Kind: kind, Reason: "missing id"}
	}
	if dateStr == "" {
		return time.Time{}, time.Time{}, &MalformedEventError{Kind: kind, ID: id, Reason: "missing event date"}
	}
	date, perr := parseDate(dateStr)
	if perr != nil {
		return time.Time{}, time.Time{}, &MalformedEventError{
			Kind: kind, ID: id, Reason: fmt.Sprintf("unparseable event date %q", dateStr),
		}
	}
	if createdAt != "" {
		if ts, terr := parseDate(createdAt); terr == nil {
			occurred = ts
		}
	}
	return date, occurred, nil
}

// parseDate accepts the two timestamp layouts the backend emits.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func applyGroup(event *model.CalendarEvent, g rawGroup) {
	event.GroupID = g.ID
	event.GroupName = g.Name
	event.Region = g.Region
	event.District = g.District
	event.Parish = g.Parish
	event.Village = g.Village
}

// fundType maps a raw fund label onto the canonical enum. Unknown or empty
// labels stay absent rather than defaulting to a real fund.
func fundType(s string) model.FundType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(model.FundPersonal):
		return model.FundPersonal
	case string(model.FundECD):
		return model.FundECD
	case string(model.FundSocial):
		return model.FundSocial
	case string(model.FundTarget):
		return model.FundTarget
	default:
		return ""
	}
}

func verification(s string) model.VerificationStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(model.VerificationPending):
		return model.VerificationPending
	case string(model.VerificationVerified):
		return model.VerificationVerified
	case string(model.VerificationRejected):
		return model.VerificationRejected
	default:
		return ""
	}
}

func gender(s string) model.Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FEMALE":
		return model.GenderFemale
	case "M", "MALE":
		return model.GenderMale
	case "OTHER":
		return model.GenderOther
	default:
		return ""
	}
}
