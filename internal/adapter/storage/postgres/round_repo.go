package postgres

import (
	"context"
	"errors"
	"fmt"

	"carbon-offset-registry/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// querier is satisfied by both Pool and pgx.Tx, so aggregate loading works
// inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RoundRepo implements ports.RoundRepository. A round is stored as a root row
// plus child rows for participants and pledges; locking the root row with
// FOR UPDATE serializes every state change on the round.
type RoundRepo struct {
	pool Pool
}

// NewRoundRepo creates a new RoundRepo.
func NewRoundRepo(pool Pool) *RoundRepo {
	return &RoundRepo{pool: pool}
}

const roundColumns = `id, lead_name, lead_address, target_amount, raised_amount, credit_amount, status, created_at, updated_at`

// Create inserts a new round and returns its generated id.
func (r *RoundRepo) Create(ctx context.Context, tx pgx.Tx, round *domain.InvestmentRound) (int64, error) {
	query := `INSERT INTO rounds (lead_name, lead_address, target_amount, raised_amount, credit_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		round.Lead.Name, round.Lead.Address, round.TargetAmount,
		round.RaisedAmount, round.CreditAmount, round.Status,
		round.CreatedAt, round.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert round: %w", err)
	}
	return id, nil
}

// GetByID fetches a round with its participants and pledges (without locking).
func (r *RoundRepo) GetByID(ctx context.Context, id int64) (*domain.InvestmentRound, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	round, err := scanRound(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}
	if err := r.loadChildren(ctx, r.pool, round); err != nil {
		return nil, err
	}
	return round, nil
}

// GetByIDForUpdate fetches a round with pessimistic locking.
// This MUST be called within a transaction.
func (r *RoundRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.InvestmentRound, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1 FOR UPDATE`
	round, err := scanRound(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}
	if err := r.loadChildren(ctx, tx, round); err != nil {
		return nil, err
	}
	return round, nil
}

// AddParticipant appends a participant row. Duplicates are allowed; each row
// counts toward the share split.
func (r *RoundRepo) AddParticipant(ctx context.Context, tx pgx.Tx, roundID int64, party domain.Party) error {
	query := `INSERT INTO round_participants (round_id, name, address) VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, roundID, party.Name, party.Address); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// AddPledge appends a pledge row and bumps the round's raised total.
func (r *RoundRepo) AddPledge(ctx context.Context, tx pgx.Tx, roundID int64, pledge domain.Pledge, newRaised int64) error {
	insert := `INSERT INTO round_pledges (round_id, investor, amount, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, insert, roundID, pledge.Investor, pledge.Amount, pledge.CreatedAt); err != nil {
		return fmt.Errorf("insert pledge: %w", err)
	}

	update := `UPDATE rounds SET raised_amount = $1, updated_at = NOW() WHERE id = $2`
	tag, err := tx.Exec(ctx, update, newRaised, roundID)
	if err != nil {
		return fmt.Errorf("update raised amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round not found: %d", roundID)
	}
	return nil
}

// UpdateStatus moves a round to a new lifecycle status.
func (r *RoundRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, roundID int64, status domain.RoundStatus) error {
	query := `UPDATE rounds SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, roundID)
	if err != nil {
		return fmt.Errorf("update round status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round not found: %d", roundID)
	}
	return nil
}

// SetCreditAmount records the issued credit amount on the round.
func (r *RoundRepo) SetCreditAmount(ctx context.Context, tx pgx.Tx, roundID int64, creditAmount int64) error {
	query := `UPDATE rounds SET credit_amount = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, creditAmount, roundID)
	if err != nil {
		return fmt.Errorf("set credit amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round not found: %d", roundID)
	}
	return nil
}

func scanRound(row pgx.Row) (*domain.InvestmentRound, error) {
	round := &domain.InvestmentRound{}
	err := row.Scan(
		&round.ID, &round.Lead.Name, &round.Lead.Address,
		&round.TargetAmount, &round.RaisedAmount, &round.CreditAmount,
		&round.Status, &round.CreatedAt, &round.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get round: %w", err)
	}
	return round, nil
}

// loadChildren fills in participants and pledges in insertion order.
func (r *RoundRepo) loadChildren(ctx context.Context, q querier, round *domain.InvestmentRound) error {
	pRows, err := q.Query(ctx,
		`SELECT name, address FROM round_participants WHERE round_id = $1 ORDER BY id`, round.ID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	defer pRows.Close()
	for pRows.Next() {
		var p domain.Party
		if err := pRows.Scan(&p.Name, &p.Address); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		round.Participants = append(round.Participants, p)
	}
	if err := pRows.Err(); err != nil {
		return fmt.Errorf("iterate participants: %w", err)
	}

	plRows, err := q.Query(ctx,
		`SELECT investor, amount, created_at FROM round_pledges WHERE round_id = $1 ORDER BY id`, round.ID)
	if err != nil {
		return fmt.Errorf("load pledges: %w", err)
	}
	defer plRows.Close()
	for plRows.Next() {
		var p domain.Pledge
		if err := plRows.Scan(&p.Investor, &p.Amount, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan pledge: %w", err)
		}
		round.Pledges = append(round.Pledges, p)
	}
	if err := plRows.Err(); err != nil {
		return fmt.Errorf("iterate pledges: %w", err)
	}
	return nil
}
