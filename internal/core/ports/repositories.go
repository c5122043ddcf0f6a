package ports

import (
	"context"

	"carbon-offset-registry/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RoundRepository defines persistence operations for investment rounds.
// Methods accepting pgx.Tx run inside transaction blocks; locking reads take
// a row lock on the round so mutations against one round serialize.
type RoundRepository interface {
	// Create inserts a new round and returns its identifier, drawn from a
	// monotonically increasing sequence. Identifiers are never reused.
	Create(ctx context.Context, tx pgx.Tx, round *domain.InvestmentRound) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.InvestmentRound, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.InvestmentRound, error)
	AddParticipant(ctx context.Context, tx pgx.Tx, roundID int64, party domain.Party) error
	// AddPledge appends the pledge and sets the round's raised amount in one
	// step, keeping the raised-equals-sum-of-pledges invariant transactional.
	AddPledge(ctx context.Context, tx pgx.Tx, roundID int64, pledge domain.Pledge, newRaised int64) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, roundID int64, status domain.RoundStatus) error
	SetCreditAmount(ctx context.Context, tx pgx.Tx, roundID int64, creditAmount int64) error
}

// CertificateRepository owns retirement certificates. Certificates are
// write-once: there is no update or delete.
type CertificateRepository interface {
	// Create inserts the certificate and returns its monotonic identifier.
	Create(ctx context.Context, tx pgx.Tx, cert *domain.Certificate) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Certificate, error)
	List(ctx context.Context, limit int) ([]domain.Certificate, error)
}

// EventRepository appends observable events. Events are recorded within the
// transaction of the operation that caused them.
type EventRepository interface {
	Create(ctx context.Context, tx pgx.Tx, event *domain.Event) error
	ListByRound(ctx context.Context, roundID int64) ([]domain.Event, error)
}

// PartyRepository defines persistence operations for registered parties.
type PartyRepository interface {
	Create(ctx context.Context, party *domain.PartyAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PartyAccount, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.PartyAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.PartyAccount, error)
	GetByAddress(ctx context.Context, address string) (*domain.PartyAccount, error)
}

// CapabilityRepository stores per-operation capability grants backing the
// authorization gate.
type CapabilityRepository interface {
	Grant(ctx context.Context, address string, op domain.Operation) error
	Revoke(ctx context.Context, address string, op domain.Operation) error
	Has(ctx context.Context, address string, op domain.Operation) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
