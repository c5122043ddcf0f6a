package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"

	"github.com/rs/zerolog"
)

// PoolServiceImpl implements ports.PoolService with pessimistic locking: every
// state change locks its round row for the duration of the transaction, so a
// round can never complete twice under concurrent pledges.
type PoolServiceImpl struct {
	roundRepo  ports.RoundRepository
	eventRepo  ports.EventRepository
	ledger     ports.ValueLedger
	gate       ports.AuthorizationGate
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewPoolService creates a new PoolServiceImpl.
func NewPoolService(
	roundRepo ports.RoundRepository,
	eventRepo ports.EventRepository,
	ledger ports.ValueLedger,
	gate ports.AuthorizationGate,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PoolServiceImpl {
	return &PoolServiceImpl{
		roundRepo:  roundRepo,
		eventRepo:  eventRepo,
		ledger:     ledger,
		gate:       gate,
		transactor: transactor,
		log:        log,
	}
}

// CustodyAccount is the ledger account that holds a round's issued credits
// until participants claim their shares.
func CustodyAccount(roundID int64) string {
	return fmt.Sprintf("round:%d:custody", roundID)
}

func (s *PoolServiceImpl) authorize(ctx context.Context, caller string, op domain.Operation) error {
	ok, err := s.gate.IsAuthorized(ctx, caller, op)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("authorization check: %w", err))
	}
	if !ok {
		return apperror.ErrUnauthorized(string(op))
	}
	return nil
}

// ledgerError passes coded errors through and wraps raw transport failures.
func ledgerError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.ErrLedgerCallFailed(err)
}

// CreateRound opens a new investment round for a project lead.
func (s *PoolServiceImpl) CreateRound(ctx context.Context, req ports.CreateRoundRequest) (*domain.InvestmentRound, error) {
	if err := s.authorize(ctx, req.Caller, domain.OpCreateRound); err != nil {
		return nil, err
	}
	if req.TargetAmount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	now := time.Now().UTC()
	round := &domain.InvestmentRound{
		Lead:         domain.Party{Name: req.LeadName, Address: req.LeadAddress},
		TargetAmount: req.TargetAmount,
		Status:       domain.RoundStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	id, err := s.roundRepo.Create(ctx, dbTx, round)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create round: %w", err))
	}
	round.ID = id

	evt := domain.NewRoundEvent(domain.EventRoundCreated, id, req.LeadAddress, req.TargetAmount)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", id).
		Str("lead", req.LeadAddress).
		Int64("target", req.TargetAmount).
		Msg("investment round created")

	return round, nil
}

// AddParticipant registers a company on a round. There is no status check and
// no duplicate check: participants may be added at any stage of the lifecycle,
// and adding the same address twice dilutes every share.
func (s *PoolServiceImpl) AddParticipant(ctx context.Context, req ports.AddParticipantRequest) error {
	if err := s.authorize(ctx, req.Caller, domain.OpAddParticipant); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, req.RoundID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return apperror.ErrNotFound("round")
	}

	party := domain.Party{Name: req.Name, Address: req.Address}
	if err := s.roundRepo.AddParticipant(ctx, dbTx, req.RoundID, party); err != nil {
		return apperror.InternalError(fmt.Errorf("add participant: %w", err))
	}

	evt := domain.NewRoundEvent(domain.EventCompanyAdded, req.RoundID, req.Address, 0)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", req.RoundID).
		Str("address", req.Address).
		Msg("participant added")

	return nil
}

// Invest records a pledge against an open round. When the pledge pushes the
// raised total to or past the target the round completes in the same
// transaction, so exactly one completion is ever recorded.
func (s *PoolServiceImpl) Invest(ctx context.Context, req ports.InvestRequest) (*domain.InvestmentRound, error) {
	if err := s.authorize(ctx, req.Caller, domain.OpInvest); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, req.RoundID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return nil, apperror.ErrNotFound("round")
	}
	if !round.IsOpen() {
		return nil, apperror.ErrRoundClosed()
	}

	now := time.Now().UTC()
	pledge := domain.Pledge{Investor: req.Investor, Amount: req.Amount, CreatedAt: now}
	newRaised := round.RaisedAmount + req.Amount

	if err := s.roundRepo.AddPledge(ctx, dbTx, req.RoundID, pledge, newRaised); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("add pledge: %w", err))
	}

	evt := domain.NewRoundEvent(domain.EventInvestmentMade, req.RoundID, req.Investor, req.Amount)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	round.RaisedAmount = newRaised
	round.Pledges = append(round.Pledges, pledge)
	round.UpdatedAt = now

	if newRaised >= round.TargetAmount {
		if err := s.roundRepo.UpdateStatus(ctx, dbTx, req.RoundID, domain.RoundStatusCompleted); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("complete round: %w", err))
		}
		completed := domain.NewRoundEvent(domain.EventRoundCompleted, req.RoundID, req.Investor, newRaised)
		if err := s.eventRepo.Create(ctx, dbTx, completed); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("record event: %w", err))
		}
		round.Status = domain.RoundStatusCompleted
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", req.RoundID).
		Str("investor", req.Investor).
		Int64("amount", req.Amount).
		Int64("raised", newRaised).
		Str("status", string(round.Status)).
		Msg("investment recorded")

	return round, nil
}

// ForceComplete closes an open round regardless of the amount raised.
func (s *PoolServiceImpl) ForceComplete(ctx context.Context, caller string, roundID int64) error {
	if err := s.authorize(ctx, caller, domain.OpForceComplete); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, roundID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return apperror.ErrNotFound("round")
	}
	if !round.IsOpen() {
		return apperror.ErrAlreadyCompleted()
	}

	if err := s.roundRepo.UpdateStatus(ctx, dbTx, roundID, domain.RoundStatusCompleted); err != nil {
		return apperror.InternalError(fmt.Errorf("complete round: %w", err))
	}

	evt := domain.NewRoundEvent(domain.EventRoundCompleted, roundID, caller, round.RaisedAmount)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", roundID).
		Int64("raised", round.RaisedAmount).
		Msg("round force-completed")

	return nil
}

// Verify marks a completed round as verified.
func (s *PoolServiceImpl) Verify(ctx context.Context, caller string, roundID int64) error {
	if err := s.authorize(ctx, caller, domain.OpVerifyRound); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, roundID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return apperror.ErrNotFound("round")
	}
	switch round.Status {
	case domain.RoundStatusOpen:
		return apperror.ErrNotCompleted()
	case domain.RoundStatusVerified, domain.RoundStatusCreditsIssued:
		return apperror.ErrAlreadyVerified()
	}

	if err := s.roundRepo.UpdateStatus(ctx, dbTx, roundID, domain.RoundStatusVerified); err != nil {
		return apperror.InternalError(fmt.Errorf("verify round: %w", err))
	}

	evt := domain.NewRoundEvent(domain.EventRoundVerified, roundID, caller, round.RaisedAmount)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Int64("round_id", roundID).Msg("round verified")

	return nil
}

// IssueCredits moves the caller-supplied credit amount from the issuer's
// ledger account into the round's custody account and advances the round to
// its terminal status. The credit amount is the verified emission reduction
// and is independent of the amount raised. A failed ledger transfer aborts
// the transaction, leaving the round untouched.
func (s *PoolServiceImpl) IssueCredits(ctx context.Context, req ports.IssueCreditsRequest) error {
	if err := s.authorize(ctx, req.Caller, domain.OpIssueCredits); err != nil {
		return err
	}
	if req.CreditAmount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, req.RoundID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return apperror.ErrNotFound("round")
	}
	switch round.Status {
	case domain.RoundStatusOpen, domain.RoundStatusCompleted:
		return apperror.ErrNotVerified()
	case domain.RoundStatusCreditsIssued:
		return apperror.ErrAlreadyIssued()
	}

	if err := s.ledger.Transfer(ctx, req.Caller, CustodyAccount(req.RoundID), req.CreditAmount); err != nil {
		return ledgerError(err)
	}

	if err := s.roundRepo.SetCreditAmount(ctx, dbTx, req.RoundID, req.CreditAmount); err != nil {
		return apperror.InternalError(fmt.Errorf("set credit amount: %w", err))
	}
	if err := s.roundRepo.UpdateStatus(ctx, dbTx, req.RoundID, domain.RoundStatusCreditsIssued); err != nil {
		return apperror.InternalError(fmt.Errorf("issue credits: %w", err))
	}

	evt := domain.NewRoundEvent(domain.EventCreditsIssued, req.RoundID, req.Caller, req.CreditAmount)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", req.RoundID).
		Str("issuer", req.Caller).
		Int64("credit_amount", req.CreditAmount).
		Msg("credits issued")

	return nil
}

// ClaimShare pays a participant its equal share of the issued credits out of
// the round's custody account. Shares use floor division; any remainder stays
// in custody. Nothing marks a share as claimed, so a participant can claim
// again as long as custody still covers the transfer.
func (s *PoolServiceImpl) ClaimShare(ctx context.Context, roundID int64, participantAddress string) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := s.roundRepo.GetByIDForUpdate(ctx, dbTx, roundID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock round: %w", err))
	}
	if round == nil {
		return 0, apperror.ErrNotFound("round")
	}
	if !round.CreditsIssued() {
		return 0, apperror.ErrCreditsNotIssued()
	}
	if !round.HasParticipant(participantAddress) {
		return 0, apperror.ErrNoShare()
	}

	share := round.Share()
	if share == 0 {
		return 0, apperror.ErrNoShare()
	}

	if err := s.ledger.Transfer(ctx, CustodyAccount(roundID), participantAddress, share); err != nil {
		return 0, ledgerError(err)
	}

	evt := domain.NewRoundEvent(domain.EventShareClaimed, roundID, participantAddress, share)
	if err := s.eventRepo.Create(ctx, dbTx, evt); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("record event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("round_id", roundID).
		Str("participant", participantAddress).
		Int64("share", share).
		Msg("share claimed")

	return share, nil
}

// GetDetails returns a read-only snapshot of a round.
func (s *PoolServiceImpl) GetDetails(ctx context.Context, roundID int64) (*domain.InvestmentRound, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get round: %w", err))
	}
	if round == nil {
		return nil, apperror.ErrNotFound("round")
	}
	return round, nil
}
