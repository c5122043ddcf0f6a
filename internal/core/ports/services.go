package ports

import (
	"context"
	"time"

	"carbon-offset-registry/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(partyID uuid.UUID, address string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	PartyID uuid.UUID
	Address string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, callerAddress string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// PoolService manages the lifecycle of investment rounds.
type PoolService interface {
	CreateRound(ctx context.Context, req CreateRoundRequest) (*domain.InvestmentRound, error)
	AddParticipant(ctx context.Context, req AddParticipantRequest) error
	Invest(ctx context.Context, req InvestRequest) (*domain.InvestmentRound, error)
	ForceComplete(ctx context.Context, caller string, roundID int64) error
	Verify(ctx context.Context, caller string, roundID int64) error
	IssueCredits(ctx context.Context, req IssueCreditsRequest) error
	ClaimShare(ctx context.Context, roundID int64, participantAddress string) (int64, error)
	GetDetails(ctx context.Context, roundID int64) (*domain.InvestmentRound, error)
}

// CreateRoundRequest holds validated input for round creation.
type CreateRoundRequest struct {
	Caller       string
	LeadName     string
	LeadAddress  string
	TargetAmount int64
}

// AddParticipantRequest holds validated input for participant registration.
type AddParticipantRequest struct {
	Caller  string
	RoundID int64
	Name    string
	Address string
}

// InvestRequest holds validated input for a pledge.
type InvestRequest struct {
	Caller   string
	RoundID  int64
	Investor string
	Amount   int64
}

// IssueCreditsRequest holds validated input for credit issuance. The credit
// amount is supplied by the caller: it represents the verified real-world
// emission reduction and need not equal the amount raised.
type IssueCreditsRequest struct {
	Caller       string
	RoundID      int64
	CreditAmount int64
}

// OffsetService manages circulation of issued credits.
type OffsetService interface {
	OnProjectComplete(ctx context.Context, caller string, amount int64, projectName string) error
	OffsetAgainstProject(ctx context.Context, req OffsetRequest) (*domain.Certificate, error)
	Claim(ctx context.Context, caller string, user string, amount int64) error
	OffsetToProject(ctx context.Context, req SelfOffsetRequest) (*domain.Certificate, error)
	GetCertificate(ctx context.Context, id int64) (*domain.Certificate, error)
	ListCertificates(ctx context.Context, limit int) ([]domain.Certificate, error)
}

// OffsetRequest holds validated input for a retirement from central custody.
type OffsetRequest struct {
	Caller      string
	Amount      int64
	SourceParty string
	SinkParty   *string
	FromProject string
	ToProject   string
}

// SelfOffsetRequest holds validated input for a self-funded retirement: the
// source party's own balance moves into escrow and is burned there.
type SelfOffsetRequest struct {
	SourceParty string
	Amount      int64
	ToProject   string
}

// AuthService defines party registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for party registration.
type RegisterRequest struct {
	Username string
	Password string
	Name     string
	Address  string
}

// RegisterResponse holds the registration result shown once.
type RegisterResponse struct {
	PartyID   uuid.UUID
	Address   string
	AccessKey string
	SecretKey string // Plaintext, shown only at registration
}

// CapabilityService administers per-operation grants on the gate.
type CapabilityService interface {
	Grant(ctx context.Context, caller string, address string, op domain.Operation) error
	Revoke(ctx context.Context, caller string, address string, op domain.Operation) error
}
