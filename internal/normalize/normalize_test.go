package normalize

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssewanyana/groupcal/internal/model"
)

func raw(t *testing.T, kind SourceKind, payload string) RawRecord {
	t.Helper()
	return RawRecord{Kind: kind, Data: json.RawMessage(payload)}
}

func TestRecordTransaction(t *testing.T) {
	payload := `{
		"transactionId": "txn-1",
		"description": "Weekly saving",
		"transactionDate": "2024-03-14",
		"createdAt": "2024-03-14T10:15:00Z",
		"fundType": "personal",
		"status": "verified",
		"amount": 75000,
		"group": {
			"groupId": "grp-1",
			"groupName": "Bweyogerere Women",
			"region": "Central",
			"district": "Wakiso",
			"parish": "Kirinya",
			"village": "Bweyogerere"
		},
		"member": {"gender": "female", "role": "treasurer"}
	}`

	event, err := Record(raw(t, KindTransaction, payload))
	require.NoError(t, err)

	assert.Equal(t, "txn-1", event.ID)
	assert.Equal(t, model.EventTransaction, event.Type)
	assert.Equal(t, "Weekly saving", event.Title)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), event.Date)
	assert.Equal(t, time.Date(2024, 3, 14, 10, 15, 0, 0, time.UTC), event.OccurredAt)
	assert.Equal(t, model.FundPersonal, event.FundType)
	assert.Equal(t, model.VerificationVerified, event.Verification)
	assert.Equal(t, model.GenderFemale, event.MemberGender)
	assert.Equal(t, "treasurer", event.MemberRole)
	require.True(t, event.HasAmount())
	assert.Equal(t, int64(75000), event.AmountValue())
	assert.Equal(t, "grp-1", event.GroupID)
	assert.Equal(t, "Central", event.Region)
	assert.Equal(t, "Wakiso", event.District)
	assert.Equal(t, "Kirinya", event.Parish)
	assert.Equal(t, "Bweyogerere", event.Village)
}

func TestRecordFineCategory(t *testing.T) {
	payload := `{
		"transactionId": "txn-2",
		"transactionDate": "2024-03-10",
		"category": "Fine",
		"amount": 5000
	}`

	event, err := Record(raw(t, KindTransaction, payload))
	require.NoError(t, err)
	assert.Equal(t, model.EventFine, event.Type)
	assert.Equal(t, "Fine", event.Title)
}

func TestRecordPreservesAbsence(t *testing.T) {
	// A record with only the mandatory fields must not grow default values
	// that could later satisfy a filter.
	payload := `{"transactionId": "txn-3", "transactionDate": "2024-03-01"}`

	event, err := Record(raw(t, KindTransaction, payload))
	require.NoError(t, err)

	assert.False(t, event.HasAmount())
	assert.Empty(t, string(event.FundType))
	assert.Empty(t, string(event.Verification))
	assert.Empty(t, string(event.MemberGender))
	assert.Empty(t, event.MemberRole)
	assert.Empty(t, event.Region)
	assert.Empty(t, event.GroupID)
	assert.True(t, event.OccurredAt.IsZero())
	// Display fallback only.
	assert.Equal(t, "Transaction", event.Title)
}

func TestRecordUnknownEnumValuesStayAbsent(t *testing.T) {
	payload := `{
		"transactionId": "txn-4",
		"transactionDate": "2024-03-01",
		"fundType": "mystery",
		"status": "half-checked",
		"member": {"gender": "unknown"}
	}`

	event, err := Record(raw(t, KindTransaction, payload))
	require.NoError(t, err)
	assert.Empty(t, string(event.FundType))
	assert.Empty(t, string(event.Verification))
	assert.Empty(t, string(event.MemberGender))
}

func TestRecordMeeting(t *testing.T) {
	payload := `{
		"meetingId": "mtg-1",
		"title": "March review",
		"agenda": "Share-out planning",
		"meetingDate": "2024-03-20",
		"amountCollected": 120000,
		"status": "pending",
		"group": {"groupId": "grp-2", "groupName": "Kira Savers"}
	}`

	event, err := Record(raw(t, KindMeeting, payload))
	require.NoError(t, err)
	assert.Equal(t, model.EventMeeting, event.Type)
	assert.Equal(t, "March review", event.Title)
	assert.Equal(t, "Share-out planning", event.Description)
	assert.Equal(t, model.VerificationPending, event.Verification)
	require.True(t, event.HasAmount())
	assert.Equal(t, int64(120000), event.AmountValue())
	assert.Equal(t, "grp-2", event.GroupID)
}

func TestRecordLoan(t *testing.T) {
	payload := `{
		"loanId": "loan-1",
		"purpose": "School fees",
		"disbursementDate": "2024-03-05",
		"principalAmount": 500000,
		"member": {"gender": "M", "role": "member"}
	}`

	event, err := Record(raw(t, KindLoan, payload))
	require.NoError(t, err)
	assert.Equal(t, model.EventLoan, event.Type)
	assert.Equal(t, "Loan: School fees", event.Title)
	assert.Equal(t, model.GenderMale, event.MemberGender)
	require.True(t, event.HasAmount())
	assert.Equal(t, int64(500000), event.AmountValue())
}

func TestRecordCampaign(t *testing.T) {
	payload := `{
		"campaignId": "cmp-1",
		"name": "Clean water drive",
		"startDate": "2024-04-01",
		"targetAmount": 2000000
	}`

	event, err := Record(raw(t, KindCampaign, payload))
	require.NoError(t, err)
	assert.Equal(t, model.EventCampaign, event.Type)
	assert.Equal(t, "Clean water drive", event.Title)
}

func TestRecordMalformed(t *testing.T) {
	tests := []struct {
		name   string
		record RawRecord
		reason string
	}{
		{
			name:   "unknown kind",
			record: RawRecord{Kind: "webhook", Data: json.RawMessage(`{}`)},
			reason: "unknown source kind",
		},
		{
			name:   "invalid json",
			record: raw(t, KindMeeting, `{"meetingId":`),
		},
		{
			name:   "missing id",
			record: raw(t, KindTransaction, `{"transactionDate": "2024-03-01"}`),
			reason: "missing id",
		},
		{
			name:   "missing date",
			record: raw(t, KindLoan, `{"loanId": "loan-2"}`),
			reason: "missing event date",
		},
		{
			name:   "unparseable date",
			record: raw(t, KindCampaign, `{"campaignId": "cmp-2", "startDate": "14/03/2024"}`),
			reason: "unparseable event date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Record(tt.record)
			require.Error(t, err)

			var malformed *MalformedEventError
			require.True(t, errors.As(err, &malformed))
			if tt.reason != "" {
				assert.Contains(t, malformed.Reason, tt.reason)
			}
		})
	}
}

func TestRecordBadCreatedAtIsNotFatal(t *testing.T) {
	payload := `{"meetingId": "mtg-2", "meetingDate": "2024-03-01", "createdAt": "yesterday"}`

	event, err := Record(raw(t, KindMeeting, payload))
	require.NoError(t, err)
	assert.True(t, event.OccurredAt.IsZero())
}

func TestFeedDropsMalformedRecords(t *testing.T) {
	records := []RawRecord{
		raw(t, KindTransaction, `{"transactionId": "txn-1", "transactionDate": "2024-03-01"}`),
		raw(t, KindTransaction, `{"transactionDate": "2024-03-02"}`),
		raw(t, KindMeeting, `{"meetingId": "mtg-1", "meetingDate": "2024-03-03"}`),
		{Kind: "unknown", Data: json.RawMessage(`{}`)},
	}

	events, dropped := Feed(records)
	assert.Equal(t, 2, dropped)
	require.Len(t, events, 2)
	// Feed order is preserved for the survivors.
	assert.Equal(t, "txn-1", events[0].ID)
	assert.Equal(t, "mtg-1", events[1].ID)
}

func TestFeedEmpty(t *testing.T) {
	events, dropped := Feed(nil)
	assert.Empty(t, events)
	assert.Zero(t, dropped)
}
