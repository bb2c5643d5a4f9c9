// Package normalize converts raw activity records from the group-management
// backend into canonical calendar events.
package normalize

import "encoding/json"

// SourceKind tags a raw record with the subsystem that produced it.
type SourceKind string

// Recognized source kinds.
const (
	KindTransaction SourceKind = "transaction"
	KindMeeting     SourceKind = "meeting"
	KindLoan        SourceKind = "loan"
	KindCampaign    SourceKind = "campaign"
)

// RawRecord is one untyped record from the activity feed. Data stays opaque
// until the kind-specific converter decodes it; the backend is free to omit
// any field a given record does not carry.
type RawRecord struct {
	Kind SourceKind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// rawGroup carries the geography fields shared by every record kind.
type rawGroup struct {
	ID       string `json:"groupId"`
	Name     string `json:"groupName"`
	Region   string `json:"region"`
	District string `json:"district"`
	Parish   string `json:"parish"`
	Village  string `json:"village"`
}

// rawMember carries the demographic fields attached to member-linked records.
type rawMember struct {
	Gender string `json:"gender"`
	Role   string `json:"role"`
}

type rawTransaction struct {
	ID          string    `json:"transactionId"`
	Description string    `json:"description"`
	Date        string    `json:"transactionDate"`
	CreatedAt   string    `json:"createdAt"`
	Category    string    `json:"category"`
	FundType    string    `json:"fundType"`
	Status      string    `json:"status"`
	Amount      *int64    `json:"amount"`
	Group       rawGroup  `json:"group"`
	Member      rawMember `json:"member"`
}

type rawMeeting struct {
	ID        string   `json:"meetingId"`
	Title     string   `json:"title"`
	Agenda    string   `json:"agenda"`
	Date      string   `json:"meetingDate"`
	CreatedAt string   `json:"createdAt"`
	Status    string   `json:"status"`
	Collected *int64   `json:"amountCollected"`
	Group     rawGroup `json:"group"`
}

type rawLoan struct {
	ID        string    `json:"loanId"`
	Purpose   string    `json:"purpose"`
	Date      string    `json:"disbursementDate"`
	CreatedAt string    `json:"createdAt"`
	Status    string    `json:"status"`
	Principal *int64    `json:"principalAmount"`
	Group     rawGroup  `json:"group"`
	Member    rawMember `json:"member"`
}

type rawCampaign struct {
	ID          string   `json:"campaignId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        string   `json:"startDate"`
	CreatedAt   string   `json:"createdAt"`
	Status      string   `json:"status"`
	Target      *int64   `json:"targetAmount"`
	Group       rawGroup `json:"group"`
}
