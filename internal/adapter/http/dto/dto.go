package dto

// RegisterRequest is the request body for party registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Address  string `json:"address" binding:"required,max=100,safe_id"`
}

// LoginRequest is the request body for party login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	PartyID   string `json:"party_id"`
	Address   string `json:"address"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateRoundRequest is the request body for opening an investment round.
type CreateRoundRequest struct {
	LeadName     string `json:"lead_name" binding:"required,min=1,max=100"`
	LeadAddress  string `json:"lead_address" binding:"required,max=100,safe_id"`
	TargetAmount int64  `json:"target_amount" binding:"required,gt=0"`
}

// AddParticipantRequest is the request body for registering a participant.
type AddParticipantRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"required,max=100,safe_id"`
}

// InvestRequest is the request body for pledging into a round. Investor is
// optional; when omitted the pledge is recorded against the caller's address.
type InvestRequest struct {
	Investor string `json:"investor,omitempty" binding:"omitempty,max=100,safe_id"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

// IssueCreditsRequest is the request body for credit issuance.
type IssueCreditsRequest struct {
	CreditAmount int64 `json:"credit_amount" binding:"required,gt=0"`
}

// ClaimShareRequest is the request body for claiming a credit share.
// Participant is optional; when omitted the claim is made for the caller.
type ClaimShareRequest struct {
	Participant string `json:"participant,omitempty" binding:"omitempty,max=100,safe_id"`
}

// ClaimShareResponse reports the amount transferred out of custody.
type ClaimShareResponse struct {
	RoundID     int64  `json:"round_id"`
	Participant string `json:"participant"`
	Share       int64  `json:"share"`
}

// ProjectCompleteRequest is the request body for minting on project completion.
type ProjectCompleteRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ProjectName string `json:"project_name" binding:"required,min=1,max=100"`
}

// OffsetRequest is the request body for a retirement from central custody.
type OffsetRequest struct {
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	SourceParty string  `json:"source_party" binding:"required,max=100,safe_id"`
	SinkParty   *string `json:"sink_party,omitempty" binding:"omitempty,max=100,safe_id"`
	FromProject string  `json:"from_project,omitempty" binding:"omitempty,max=100"`
	ToProject   string  `json:"to_project" binding:"required,min=1,max=100"`
}

// ClaimTokensRequest is the request body for releasing credits to a user.
// User is optional; when omitted the credits go to the caller's address.
type ClaimTokensRequest struct {
	User   string `json:"user,omitempty" binding:"omitempty,max=100,safe_id"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// SelfOffsetRequest is the request body for retiring a party's own balance.
type SelfOffsetRequest struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	ToProject string `json:"to_project" binding:"required,min=1,max=100"`
}

// GrantCapabilityRequest is the request body for capability administration.
type GrantCapabilityRequest struct {
	Address   string `json:"address" binding:"required,max=100,safe_id"`
	Operation string `json:"operation" binding:"required,max=50,safe_id"`
}

// PartyResponse describes a named ledger account.
type PartyResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PledgeResponse describes one recorded contribution.
type PledgeResponse struct {
	Investor  string `json:"investor"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// RoundResponse is the response body for round queries and mutations.
type RoundResponse struct {
	ID           int64            `json:"id"`
	Lead         PartyResponse    `json:"lead"`
	TargetAmount int64            `json:"target_amount"`
	RaisedAmount int64            `json:"raised_amount"`
	CreditAmount int64            `json:"credit_amount"`
	Status       string           `json:"status"`
	Participants []PartyResponse  `json:"participants"`
	Pledges      []PledgeResponse `json:"pledges"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

// CertificateResponse is the response body for retirement certificates.
type CertificateResponse struct {
	ID          int64   `json:"id"`
	Amount      int64   `json:"amount"`
	SourceParty string  `json:"source_party"`
	SinkParty   *string `json:"sink_party,omitempty"`
	Beneficiary string  `json:"beneficiary"`
	FromProject string  `json:"from_project,omitempty"`
	ToProject   string  `json:"to_project"`
	IssuedAt    string  `json:"issued_at"`
}

// CertificateListResponse wraps a certificate listing.
type CertificateListResponse struct {
	Items []CertificateResponse `json:"items"`
	Count int                   `json:"count"`
}
