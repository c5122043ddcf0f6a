package postgres

import (
	"context"
	"errors"
	"fmt"

	"carbon-offset-registry/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PartyRepo implements ports.PartyRepository.
type PartyRepo struct {
	pool Pool
}

// NewPartyRepo creates a new PartyRepo.
func NewPartyRepo(pool Pool) *PartyRepo {
	return &PartyRepo{pool: pool}
}

const partyColumns = `id, name, address, username, password_hash, access_key, secret_key_enc, created_at, updated_at`

// Create inserts a new party account.
func (r *PartyRepo) Create(ctx context.Context, party *domain.PartyAccount) error {
	query := `INSERT INTO parties (id, name, address, username, password_hash, access_key, secret_key_enc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		party.ID, party.Name, party.Address, party.Username,
		party.PasswordHash, party.AccessKey, party.SecretKeyEnc,
		party.CreatedAt, party.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

// GetByID fetches a party by its UUID.
func (r *PartyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PartyAccount, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1`
	return r.scanParty(r.pool.QueryRow(ctx, query, id), "get party by id")
}

// GetByAccessKey fetches a party by its API access key.
func (r *PartyRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.PartyAccount, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE access_key = $1`
	return r.scanParty(r.pool.QueryRow(ctx, query, accessKey), "get party by access key")
}

// GetByUsername fetches a party by its login username.
func (r *PartyRepo) GetByUsername(ctx context.Context, username string) (*domain.PartyAccount, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE username = $1`
	return r.scanParty(r.pool.QueryRow(ctx, query, username), "get party by username")
}

// GetByAddress fetches a party by its registry address.
func (r *PartyRepo) GetByAddress(ctx context.Context, address string) (*domain.PartyAccount, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE address = $1`
	return r.scanParty(r.pool.QueryRow(ctx, query, address), "get party by address")
}

func (r *PartyRepo) scanParty(row pgx.Row, op string) (*domain.PartyAccount, error) {
	party := &domain.PartyAccount{}
	err := row.Scan(
		&party.ID, &party.Name, &party.Address, &party.Username,
		&party.PasswordHash, &party.AccessKey, &party.SecretKeyEnc,
		&party.CreatedAt, &party.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return party, nil
}
