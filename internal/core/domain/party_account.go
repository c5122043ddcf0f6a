package domain

import (
	"time"

	"github.com/google/uuid"
)

// PartyAccount is a registered caller: a party with API credentials.
// Address is the party's account handle on the value ledger and doubles as
// the caller identity passed to the authorization gate.
type PartyAccount struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	AccessKey    string    `json:"access_key"`
	SecretKeyEnc string    `json:"-"` // Encrypted, never expose
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Operation names one gated entry point of the registry. The authorization
// gate is consulted with the operation constant of the entry point being
// called, so capabilities are granted per operation, not globally.
type Operation string

const (
	OpCreateRound     Operation = "create_round"
	OpAddParticipant  Operation = "add_participant"
	OpInvest          Operation = "invest"
	OpForceComplete   Operation = "force_complete"
	OpVerifyRound     Operation = "verify_round"
	OpIssueCredits    Operation = "issue_credits"
	OpProjectComplete Operation = "project_complete"
	OpClaimTokens     Operation = "claim_tokens"
	OpGrantCapability Operation = "grant_capability"
)
