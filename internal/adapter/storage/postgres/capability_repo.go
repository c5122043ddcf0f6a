package postgres

import (
	"context"
	"errors"
	"fmt"

	"carbon-offset-registry/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CapabilityRepo implements ports.CapabilityRepository as an (address,
// operation) grant table.
type CapabilityRepo struct {
	pool Pool
}

// NewCapabilityRepo creates a new CapabilityRepo.
func NewCapabilityRepo(pool Pool) *CapabilityRepo {
	return &CapabilityRepo{pool: pool}
}

// Grant stores a capability. Granting twice is a no-op.
func (r *CapabilityRepo) Grant(ctx context.Context, address string, op domain.Operation) error {
	query := `INSERT INTO capabilities (address, operation, granted_at)
		VALUES ($1, $2, NOW()) ON CONFLICT (address, operation) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, address, op); err != nil {
		return fmt.Errorf("grant capability: %w", err)
	}
	return nil
}

// Revoke removes a capability. Revoking a missing grant is a no-op.
func (r *CapabilityRepo) Revoke(ctx context.Context, address string, op domain.Operation) error {
	query := `DELETE FROM capabilities WHERE address = $1 AND operation = $2`

	if _, err := r.pool.Exec(ctx, query, address, op); err != nil {
		return fmt.Errorf("revoke capability: %w", err)
	}
	return nil
}

// Has reports whether address holds a grant for op.
func (r *CapabilityRepo) Has(ctx context.Context, address string, op domain.Operation) (bool, error) {
	query := `SELECT 1 FROM capabilities WHERE address = $1 AND operation = $2`

	var one int
	err := r.pool.QueryRow(ctx, query, address, op).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check capability: %w", err)
	}
	return true, nil
}
