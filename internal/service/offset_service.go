package service

import (
	"context"
	"fmt"
	"time"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"

	"github.com/rs/zerolog"
)

// OffsetServiceImpl implements ports.OffsetService. Credits minted for
// completed projects live in the central custody account until they are
// retired or claimed out.
type OffsetServiceImpl struct {
	certRepo   ports.CertificateRepository
	eventRepo  ports.EventRepository
	ledger     ports.ValueLedger
	gate       ports.AuthorizationGate
	transactor ports.DBTransactor
	central    string
	escrow     string
	log        zerolog.Logger
}

// NewOffsetService creates a new OffsetServiceImpl. central and escrow are the
// ledger accounts used for custody and self-funded retirements.
func NewOffsetService(
	certRepo ports.CertificateRepository,
	eventRepo ports.EventRepository,
	ledger ports.ValueLedger,
	gate ports.AuthorizationGate,
	transactor ports.DBTransactor,
	central string,
	escrow string,
	log zerolog.Logger,
) *OffsetServiceImpl {
	return &OffsetServiceImpl{
		certRepo:   certRepo,
		eventRepo:  eventRepo,
		ledger:     ledger,
		gate:       gate,
		transactor: transactor,
		central:    central,
		escrow:     escrow,
		log:        log,
	}
}

func (s *OffsetServiceImpl) authorize(ctx context.Context, caller string, op domain.Operation) error {
	ok, err := s.gate.IsAuthorized(ctx, caller, op)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("authorization check: %w", err))
	}
	if !ok {
		return apperror.ErrUnauthorized(string(op))
	}
	return nil
}

// OnProjectComplete mints credits for a completed offset project into the
// central account. No certificate is produced; certificates record
// retirements, not issuance.
func (s *OffsetServiceImpl) OnProjectComplete(ctx context.Context, caller string, amount int64, projectName string) error {
	if err := s.authorize(ctx, caller, domain.OpProjectComplete); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledger.Mint(ctx, s.central, amount); err != nil {
		return ledgerError(err)
	}

	evt := domain.NewOffsetEvent(domain.EventProjectCompleted, caller, amount, projectName)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("project", projectName).
		Int64("amount", amount).
		Msg("project credits minted")

	return nil
}

// OffsetAgainstProject retires credits held in central custody on behalf of a
// source party and issues a certificate for the retirement. Any authenticated
// caller may retire; the balance check happens before anything is burned, so
// an underfunded request produces no certificate.
func (s *OffsetServiceImpl) OffsetAgainstProject(ctx context.Context, req ports.OffsetRequest) (*domain.Certificate, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	balance, err := s.ledger.BalanceOf(ctx, s.central)
	if err != nil {
		return nil, ledgerError(err)
	}
	if balance < req.Amount {
		return nil, apperror.ErrInsufficientCentralBalance()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledger.Burn(ctx, s.central, req.Amount); err != nil {
		return nil, ledgerError(err)
	}

	cert := &domain.Certificate{
		Amount:      req.Amount,
		SourceParty: req.SourceParty,
		SinkParty:   req.SinkParty,
		FromProject: req.FromProject,
		ToProject:   req.ToProject,
		IssuedAt:    time.Now().UTC(),
	}
	id, err := s.certRepo.Create(ctx, dbTx, cert)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create certificate: %w", err))
	}
	cert.ID = id

	evt := domain.NewOffsetEvent(domain.EventOffsetAgainstProject, req.SourceParty, req.Amount, req.ToProject)
	evt.CertificateID = &cert.ID
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("certificate_id", cert.ID).
		Str("source", req.SourceParty).
		Str("beneficiary", cert.Beneficiary()).
		Int64("amount", req.Amount).
		Msg("credits retired from custody")

	return cert, nil
}

// Claim pays credits out of central custody to a user's own ledger account.
func (s *OffsetServiceImpl) Claim(ctx context.Context, caller string, user string, amount int64) error {
	if err := s.authorize(ctx, caller, domain.OpClaimTokens); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	balance, err := s.ledger.BalanceOf(ctx, s.central)
	if err != nil {
		return ledgerError(err)
	}
	if balance < amount {
		return apperror.ErrInsufficientCentralBalance()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledger.Transfer(ctx, s.central, user, amount); err != nil {
		return ledgerError(err)
	}

	evt := domain.NewOffsetEvent(domain.EventTokensClaimed, user, amount, "")
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("user", user).
		Int64("amount", amount).
		Msg("tokens claimed from custody")

	return nil
}

// OffsetToProject retires credits out of the source party's own balance: the
// amount moves into escrow and is burned there, and the certificate carries no
// sink party and no source project.
func (s *OffsetServiceImpl) OffsetToProject(ctx context.Context, req ports.SelfOffsetRequest) (*domain.Certificate, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	balance, err := s.ledger.BalanceOf(ctx, req.SourceParty)
	if err != nil {
		return nil, ledgerError(err)
	}
	if balance < req.Amount {
		return nil, apperror.ErrInsufficientSourceBalance()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledger.Transfer(ctx, req.SourceParty, s.escrow, req.Amount); err != nil {
		return nil, ledgerError(err)
	}
	if err := s.ledger.Burn(ctx, s.escrow, req.Amount); err != nil {
		return nil, ledgerError(err)
	}

	cert := &domain.Certificate{
		Amount:      req.Amount,
		SourceParty: req.SourceParty,
		SinkParty:   nil,
		FromProject: "",
		ToProject:   req.ToProject,
		IssuedAt:    time.Now().UTC(),
	}
	id, err := s.certRepo.Create(ctx, dbTx, cert)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create certificate: %w", err))
	}
	cert.ID = id

	evt := domain.NewOffsetEvent(domain.EventOffsetToProject, req.SourceParty, req.Amount, req.ToProject)
	evt.CertificateID = &cert.ID
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("certificate_id", cert.ID).
		Str("source", req.SourceParty).
		Int64("amount", req.Amount).
		Str("to_project", req.ToProject).
		Msg("credits retired from own balance")

	return cert, nil
}

// GetCertificate returns a certificate by id.
func (s *OffsetServiceImpl) GetCertificate(ctx context.Context, id int64) (*domain.Certificate, error) {
	cert, err := s.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get certificate: %w", err))
	}
	if cert == nil {
		return nil, apperror.ErrNotFound("certificate")
	}
	return cert, nil
}

// ListCertificates returns the most recent certificates.
func (s *OffsetServiceImpl) ListCertificates(ctx context.Context, limit int) ([]domain.Certificate, error) {
	certs, err := s.certRepo.List(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list certificates: %w", err))
	}
	return certs, nil
}
