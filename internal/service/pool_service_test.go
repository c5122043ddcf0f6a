package service

import (
	"context"
	"errors"
	"testing"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/internal/core/ports/mocks"
	"carbon-offset-registry/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type poolTestDeps struct {
	svc        *PoolServiceImpl
	roundRepo  *mocks.MockRoundRepository
	eventRepo  *mocks.MockEventRepository
	ledger     *mocks.MockValueLedger
	gate       *mocks.MockAuthorizationGate
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupPoolService(t *testing.T) *poolTestDeps {
	ctrl := gomock.NewController(t)
	d := &poolTestDeps{
		roundRepo:  mocks.NewMockRoundRepository(ctrl),
		eventRepo:  mocks.NewMockEventRepository(ctrl),
		ledger:     mocks.NewMockValueLedger(ctrl),
		gate:       mocks.NewMockAuthorizationGate(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewPoolService(
		d.roundRepo, d.eventRepo, d.ledger, d.gate, d.transactor, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func openRound(id, target, raised int64) *domain.InvestmentRound {
	return &domain.InvestmentRound{
		ID:           id,
		Lead:         domain.Party{Name: "GreenLead", Address: "addr-lead"},
		TargetAmount: target,
		RaisedAmount: raised,
		Status:       domain.RoundStatusOpen,
	}
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

// ==================== CreateRound Tests ====================

func TestPoolService_CreateRound_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-lead", domain.OpCreateRound).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(int64(7), nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, evt *domain.Event) error {
			assert.Equal(t, domain.EventRoundCreated, evt.Type)
			require.NotNil(t, evt.RoundID)
			assert.Equal(t, int64(7), *evt.RoundID)
			return nil
		})

	round, err := d.svc.CreateRound(ctx, ports.CreateRoundRequest{
		Caller:       "addr-lead",
		LeadName:     "GreenLead",
		LeadAddress:  "addr-lead",
		TargetAmount: 100,
	})
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.Equal(t, int64(7), round.ID)
	assert.Equal(t, domain.RoundStatusOpen, round.Status)
	assert.Equal(t, int64(0), round.RaisedAmount)
}

func TestPoolService_CreateRound_Unauthorized(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-nobody", domain.OpCreateRound).Return(false, nil)

	round, err := d.svc.CreateRound(ctx, ports.CreateRoundRequest{
		Caller:       "addr-nobody",
		TargetAmount: 100,
	})
	assert.Nil(t, round)
	assertAppError(t, err, "AUTH_001")
}

func TestPoolService_CreateRound_InvalidTarget(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	for _, target := range []int64{0, -5} {
		d.gate.EXPECT().IsAuthorized(ctx, "addr-lead", domain.OpCreateRound).Return(true, nil)
		round, err := d.svc.CreateRound(ctx, ports.CreateRoundRequest{
			Caller:       "addr-lead",
			TargetAmount: target,
		})
		assert.Nil(t, round)
		assertAppError(t, err, "POOL_001")
	}
}

// ==================== AddParticipant Tests ====================

func TestPoolService_AddParticipant_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-admin", domain.OpAddParticipant).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(openRound(1, 100, 0), nil)
	d.roundRepo.EXPECT().AddParticipant(ctx, tx, int64(1), domain.Party{Name: "P1", Address: "addr-p1"}).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.AddParticipant(ctx, ports.AddParticipantRequest{
		Caller:  "addr-admin",
		RoundID: 1,
		Name:    "P1",
		Address: "addr-p1",
	})
	require.NoError(t, err)
}

// Participants can join at any lifecycle stage, including after completion.
func TestPoolService_AddParticipant_AfterCompletion(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusCompleted

	d.gate.EXPECT().IsAuthorized(ctx, "addr-admin", domain.OpAddParticipant).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.roundRepo.EXPECT().AddParticipant(ctx, tx, int64(1), gomock.Any()).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.AddParticipant(ctx, ports.AddParticipantRequest{
		Caller:  "addr-admin",
		RoundID: 1,
		Name:    "Late",
		Address: "addr-late",
	})
	require.NoError(t, err)
}

func TestPoolService_AddParticipant_RoundNotFound(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-admin", domain.OpAddParticipant).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(42)).Return(nil, nil)

	err := d.svc.AddParticipant(ctx, ports.AddParticipantRequest{
		Caller:  "addr-admin",
		RoundID: 42,
		Name:    "P1",
		Address: "addr-p1",
	})
	assertAppError(t, err, "POOL_010")
}

// ==================== Invest Tests ====================

func TestPoolService_Invest_BelowTarget(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-p1", domain.OpInvest).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(openRound(1, 100, 0), nil)
	d.roundRepo.EXPECT().AddPledge(ctx, tx, int64(1), gomock.Any(), int64(60)).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	round, err := d.svc.Invest(ctx, ports.InvestRequest{
		Caller:   "addr-p1",
		RoundID:  1,
		Investor: "addr-p1",
		Amount:   60,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), round.RaisedAmount)
	assert.Equal(t, domain.RoundStatusOpen, round.Status)
}

// A pledge pushing raised past the target completes the round in the same
// transaction, and total raised may exceed the target.
func TestPoolService_Invest_ReachesTarget(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	var eventTypes []domain.EventType
	d.gate.EXPECT().IsAuthorized(ctx, "addr-p2", domain.OpInvest).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(openRound(1, 100, 60), nil)
	d.roundRepo.EXPECT().AddPledge(ctx, tx, int64(1), gomock.Any(), int64(110)).Return(nil)
	d.roundRepo.EXPECT().UpdateStatus(ctx, tx, int64(1), domain.RoundStatusCompleted).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, evt *domain.Event) error {
			eventTypes = append(eventTypes, evt.Type)
			return nil
		})

	round, err := d.svc.Invest(ctx, ports.InvestRequest{
		Caller:   "addr-p2",
		RoundID:  1,
		Investor: "addr-p2",
		Amount:   50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(110), round.RaisedAmount)
	assert.Equal(t, domain.RoundStatusCompleted, round.Status)
	assert.Equal(t, []domain.EventType{domain.EventInvestmentMade, domain.EventRoundCompleted}, eventTypes)
}

func TestPoolService_Invest_RoundClosed(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusCompleted

	d.gate.EXPECT().IsAuthorized(ctx, "addr-p3", domain.OpInvest).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	result, err := d.svc.Invest(ctx, ports.InvestRequest{
		Caller:   "addr-p3",
		RoundID:  1,
		Investor: "addr-p3",
		Amount:   10,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "POOL_002")
}

func TestPoolService_Invest_InvalidAmount(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-p1", domain.OpInvest).Return(true, nil)

	result, err := d.svc.Invest(ctx, ports.InvestRequest{
		Caller:   "addr-p1",
		RoundID:  1,
		Investor: "addr-p1",
		Amount:   0,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "POOL_001")
}

// ==================== ForceComplete Tests ====================

func TestPoolService_ForceComplete_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-admin", domain.OpForceComplete).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(openRound(1, 100, 40), nil)
	d.roundRepo.EXPECT().UpdateStatus(ctx, tx, int64(1), domain.RoundStatusCompleted).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.ForceComplete(ctx, "addr-admin", 1)
	require.NoError(t, err)
}

func TestPoolService_ForceComplete_AlreadyCompleted(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	for _, status := range []domain.RoundStatus{
		domain.RoundStatusCompleted,
		domain.RoundStatusVerified,
		domain.RoundStatusCreditsIssued,
	} {
		round := openRound(1, 100, 110)
		round.Status = status

		d.gate.EXPECT().IsAuthorized(ctx, "addr-admin", domain.OpForceComplete).Return(true, nil)
		d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
		d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

		err := d.svc.ForceComplete(ctx, "addr-admin", 1)
		assertAppError(t, err, "POOL_003")
	}
}

// ==================== Verify Tests ====================

func TestPoolService_Verify_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusCompleted

	d.gate.EXPECT().IsAuthorized(ctx, "addr-verifier", domain.OpVerifyRound).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.roundRepo.EXPECT().UpdateStatus(ctx, tx, int64(1), domain.RoundStatusVerified).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.Verify(ctx, "addr-verifier", 1)
	require.NoError(t, err)
}

func TestPoolService_Verify_NotCompleted(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-verifier", domain.OpVerifyRound).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(openRound(1, 100, 40), nil)

	err := d.svc.Verify(ctx, "addr-verifier", 1)
	assertAppError(t, err, "POOL_004")
}

func TestPoolService_Verify_AlreadyVerified(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusVerified

	d.gate.EXPECT().IsAuthorized(ctx, "addr-verifier", domain.OpVerifyRound).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	err := d.svc.Verify(ctx, "addr-verifier", 1)
	assertAppError(t, err, "POOL_005")
}

// ==================== IssueCredits Tests ====================

func TestPoolService_IssueCredits_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusVerified

	d.gate.EXPECT().IsAuthorized(ctx, "addr-issuer", domain.OpIssueCredits).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.ledger.EXPECT().Transfer(ctx, "addr-issuer", CustodyAccount(1), int64(100)).Return(nil)
	d.roundRepo.EXPECT().SetCreditAmount(ctx, tx, int64(1), int64(100)).Return(nil)
	d.roundRepo.EXPECT().UpdateStatus(ctx, tx, int64(1), domain.RoundStatusCreditsIssued).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.IssueCredits(ctx, ports.IssueCreditsRequest{
		Caller:       "addr-issuer",
		RoundID:      1,
		CreditAmount: 100,
	})
	require.NoError(t, err)
}

func TestPoolService_IssueCredits_NotVerified(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusCompleted

	d.gate.EXPECT().IsAuthorized(ctx, "addr-issuer", domain.OpIssueCredits).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	err := d.svc.IssueCredits(ctx, ports.IssueCreditsRequest{
		Caller:       "addr-issuer",
		RoundID:      1,
		CreditAmount: 100,
	})
	assertAppError(t, err, "POOL_006")
}

func TestPoolService_IssueCredits_AlreadyIssued(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusCreditsIssued

	d.gate.EXPECT().IsAuthorized(ctx, "addr-issuer", domain.OpIssueCredits).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	err := d.svc.IssueCredits(ctx, ports.IssueCreditsRequest{
		Caller:       "addr-issuer",
		RoundID:      1,
		CreditAmount: 100,
	})
	assertAppError(t, err, "POOL_007")
}

// A ledger failure aborts before any round state is written.
func TestPoolService_IssueCredits_LedgerFailure(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusVerified

	d.gate.EXPECT().IsAuthorized(ctx, "addr-issuer", domain.OpIssueCredits).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.ledger.EXPECT().Transfer(ctx, "addr-issuer", CustodyAccount(1), int64(100)).
		Return(errors.New("connection refused"))

	err := d.svc.IssueCredits(ctx, ports.IssueCreditsRequest{
		Caller:       "addr-issuer",
		RoundID:      1,
		CreditAmount: 100,
	})
	assertAppError(t, err, "LED_001")
}

// ==================== ClaimShare Tests ====================

func issuedRound(participants []domain.Party, creditAmount int64) *domain.InvestmentRound {
	return &domain.InvestmentRound{
		ID:           1,
		TargetAmount: 100,
		RaisedAmount: 110,
		CreditAmount: creditAmount,
		Participants: participants,
		Status:       domain.RoundStatusCreditsIssued,
	}
}

func TestPoolService_ClaimShare_EqualSplit(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := issuedRound([]domain.Party{
		{Name: "P1", Address: "addr-p1"},
		{Name: "P2", Address: "addr-p2"},
	}, 100)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.ledger.EXPECT().Transfer(ctx, CustodyAccount(1), "addr-p1", int64(50)).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	share, err := d.svc.ClaimShare(ctx, 1, "addr-p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), share)
}

// 100 credits over 3 participants pays 33 each; the remaining 1 stays in
// custody and is never distributed.
func TestPoolService_ClaimShare_FloorDivision(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := issuedRound([]domain.Party{
		{Name: "P1", Address: "addr-p1"},
		{Name: "P2", Address: "addr-p2"},
		{Name: "P3", Address: "addr-p3"},
	}, 100)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)
	d.ledger.EXPECT().Transfer(ctx, CustodyAccount(1), "addr-p2", int64(33)).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	share, err := d.svc.ClaimShare(ctx, 1, "addr-p2")
	require.NoError(t, err)
	assert.Equal(t, int64(33), share)
}

func TestPoolService_ClaimShare_CreditsNotIssued(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := openRound(1, 100, 110)
	round.Status = domain.RoundStatusVerified

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	share, err := d.svc.ClaimShare(ctx, 1, "addr-p1")
	assert.Zero(t, share)
	assertAppError(t, err, "POOL_008")
}

func TestPoolService_ClaimShare_NotParticipant(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := issuedRound([]domain.Party{{Name: "P1", Address: "addr-p1"}}, 100)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	share, err := d.svc.ClaimShare(ctx, 1, "addr-stranger")
	assert.Zero(t, share)
	assertAppError(t, err, "POOL_009")
}

// More participants than credits rounds every share down to zero.
func TestPoolService_ClaimShare_ZeroShare(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	round := issuedRound([]domain.Party{
		{Name: "P1", Address: "addr-p1"},
		{Name: "P2", Address: "addr-p2"},
		{Name: "P3", Address: "addr-p3"},
	}, 2)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.roundRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(1)).Return(round, nil)

	share, err := d.svc.ClaimShare(ctx, 1, "addr-p1")
	assert.Zero(t, share)
	assertAppError(t, err, "POOL_009")
}

// ==================== GetDetails Tests ====================

func TestPoolService_GetDetails_Success(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.roundRepo.EXPECT().GetByID(ctx, int64(1)).Return(openRound(1, 100, 60), nil)

	round, err := d.svc.GetDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), round.RaisedAmount)
}

func TestPoolService_GetDetails_NotFound(t *testing.T) {
	d := setupPoolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.roundRepo.EXPECT().GetByID(ctx, int64(99)).Return(nil, nil)

	round, err := d.svc.GetDetails(ctx, 99)
	assert.Nil(t, round)
	assertAppError(t, err, "POOL_010")
}
