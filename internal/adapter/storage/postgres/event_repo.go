package postgres

import (
	"context"
	"fmt"

	"carbon-offset-registry/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository. Events are written inside the
// same transaction as the state change they describe, so a committed operation
// always has its events and a rolled-back one never does.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Create inserts an event within a transaction.
func (r *EventRepo) Create(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	query := `INSERT INTO events (id, event_type, round_id, certificate_id, account, amount, project, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		event.ID, event.Type, event.RoundID, event.CertificateID,
		event.Account, event.Amount, event.Project, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListByRound returns a round's events in commit order.
func (r *EventRepo) ListByRound(ctx context.Context, roundID int64) ([]domain.Event, error) {
	query := `SELECT id, event_type, round_id, certificate_id, account, amount, project, created_at
		FROM events WHERE round_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Type, &e.RoundID, &e.CertificateID,
			&e.Account, &e.Amount, &e.Project, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
