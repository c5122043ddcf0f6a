package domain

import (
	"time"
)

// RoundStatus represents the lifecycle state of an investment round.
// The status only ever advances: OPEN -> COMPLETED -> VERIFIED -> CREDITS_ISSUED.
type RoundStatus string

const (
	RoundStatusOpen          RoundStatus = "OPEN"
	RoundStatusCompleted     RoundStatus = "COMPLETED"
	RoundStatusVerified      RoundStatus = "VERIFIED"
	RoundStatusCreditsIssued RoundStatus = "CREDITS_ISSUED"
)

// Rank returns the position of the status in the lifecycle order.
// Used to enforce that a round never regresses.
func (s RoundStatus) Rank() int {
	switch s {
	case RoundStatusOpen:
		return 0
	case RoundStatusCompleted:
		return 1
	case RoundStatusVerified:
		return 2
	case RoundStatusCreditsIssued:
		return 3
	default:
		return -1
	}
}

// Party identifies a named account on the value ledger.
// Immutable once recorded in a round.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Pledge is one investor's contribution record. Append-only, never mutated.
type Pledge struct {
	Investor  string    `json:"investor"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// InvestmentRound is the aggregate root for one fundraising campaign.
//
// Invariants: RaisedAmount equals the sum of all pledge amounts, Status only
// advances forward, and once credits are issued CreditAmount is fixed.
// Participant order is insertion order and is significant for distribution.
type InvestmentRound struct {
	ID           int64       `json:"id"`
	Lead         Party       `json:"lead"`
	TargetAmount int64       `json:"target_amount"`
	RaisedAmount int64       `json:"raised_amount"`
	CreditAmount int64       `json:"credit_amount"`
	Participants []Party     `json:"participants"`
	Pledges      []Pledge    `json:"pledges"`
	Status       RoundStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsOpen returns true while the round still accepts investment.
func (r *InvestmentRound) IsOpen() bool {
	return r.Status == RoundStatusOpen
}

// CreditsIssued returns true once credits have been issued for the round.
func (r *InvestmentRound) CreditsIssued() bool {
	return r.Status == RoundStatusCreditsIssued
}

// PledgedTotal returns the sum of all recorded pledge amounts.
func (r *InvestmentRound) PledgedTotal() int64 {
	var total int64
	for _, p := range r.Pledges {
		total += p.Amount
	}
	return total
}

// HasParticipant reports whether address is registered as a participant.
// Duplicates are allowed; the first match wins.
func (r *InvestmentRound) HasParticipant(address string) bool {
	for _, p := range r.Participants {
		if p.Address == address {
			return true
		}
	}
	return false
}

// Share computes the per-participant claim using integer floor division.
// The remainder of CreditAmount modulo the participant count is never
// distributed; it stays in custody. Returns 0 when there are no participants.
func (r *InvestmentRound) Share() int64 {
	if len(r.Participants) == 0 {
		return 0
	}
	return r.CreditAmount / int64(len(r.Participants))
}
