package postgres

import (
	"context"
	"errors"
	"fmt"

	"carbon-offset-registry/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CertificateRepo implements ports.CertificateRepository. Certificate ids come
// off a BIGSERIAL, so issuance order is the id order.
type CertificateRepo struct {
	pool Pool
}

// NewCertificateRepo creates a new CertificateRepo.
func NewCertificateRepo(pool Pool) *CertificateRepo {
	return &CertificateRepo{pool: pool}
}

const certColumns = `id, amount, source_party, sink_party, from_project, to_project, issued_at`

// Create inserts a certificate and returns its generated id.
func (r *CertificateRepo) Create(ctx context.Context, tx pgx.Tx, cert *domain.Certificate) (int64, error) {
	query := `INSERT INTO certificates (amount, source_party, sink_party, from_project, to_project, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		cert.Amount, cert.SourceParty, cert.SinkParty,
		cert.FromProject, cert.ToProject, cert.IssuedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert certificate: %w", err)
	}
	return id, nil
}

// GetByID fetches a certificate by id.
func (r *CertificateRepo) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	query := `SELECT ` + certColumns + ` FROM certificates WHERE id = $1`

	cert := &domain.Certificate{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&cert.ID, &cert.Amount, &cert.SourceParty, &cert.SinkParty,
		&cert.FromProject, &cert.ToProject, &cert.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return cert, nil
}

// List returns the most recently issued certificates, newest first.
func (r *CertificateRepo) List(ctx context.Context, limit int) ([]domain.Certificate, error) {
	query := `SELECT ` + certColumns + ` FROM certificates ORDER BY id DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var certs []domain.Certificate
	for rows.Next() {
		var cert domain.Certificate
		if err := rows.Scan(
			&cert.ID, &cert.Amount, &cert.SourceParty, &cert.SinkParty,
			&cert.FromProject, &cert.ToProject, &cert.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return certs, nil
}
