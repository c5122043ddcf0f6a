package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names one observable event emitted by the core.
type EventType string

const (
	EventRoundCreated         EventType = "ROUND_CREATED"
	EventCompanyAdded         EventType = "COMPANY_ADDED"
	EventInvestmentMade       EventType = "INVESTMENT_MADE"
	EventRoundCompleted       EventType = "ROUND_COMPLETED"
	EventRoundVerified        EventType = "ROUND_VERIFIED"
	EventCreditsIssued        EventType = "CREDITS_ISSUED"
	EventShareClaimed         EventType = "SHARE_CLAIMED"
	EventProjectCompleted     EventType = "PROJECT_COMPLETED"
	EventOffsetAgainstProject EventType = "OFFSET_AGAINST_PROJECT"
	EventTokensClaimed        EventType = "TOKENS_CLAIMED"
	EventOffsetToProject      EventType = "OFFSET_TO_PROJECT"
)

// Event records one observable state change. Events are written inside the
// same transaction as the state change they describe, in the order the
// operation's effects occur, so the event log never disagrees with the state.
type Event struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	RoundID       *int64    `json:"round_id,omitempty"`
	CertificateID *int64    `json:"certificate_id,omitempty"`
	Account       string    `json:"account,omitempty"`
	Amount        int64     `json:"amount,omitempty"`
	Project       string    `json:"project,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewRoundEvent builds an event scoped to a round.
func NewRoundEvent(t EventType, roundID int64, account string, amount int64) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      t,
		RoundID:   &roundID,
		Account:   account,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// NewOffsetEvent builds an event scoped to the offset ledger.
func NewOffsetEvent(t EventType, account string, amount int64, project string) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      t,
		Account:   account,
		Amount:    amount,
		Project:   project,
		CreatedAt: time.Now().UTC(),
	}
}
