package service

import (
	"context"
	"errors"
	"testing"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/internal/core/ports/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testCentral = "registry:central"
	testEscrow  = "registry:escrow"
)

type offsetTestDeps struct {
	svc        *OffsetServiceImpl
	certRepo   *mocks.MockCertificateRepository
	eventRepo  *mocks.MockEventRepository
	ledger     *mocks.MockValueLedger
	gate       *mocks.MockAuthorizationGate
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupOffsetService(t *testing.T) *offsetTestDeps {
	ctrl := gomock.NewController(t)
	d := &offsetTestDeps{
		certRepo:   mocks.NewMockCertificateRepository(ctrl),
		eventRepo:  mocks.NewMockEventRepository(ctrl),
		ledger:     mocks.NewMockValueLedger(ctrl),
		gate:       mocks.NewMockAuthorizationGate(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewOffsetService(
		d.certRepo, d.eventRepo, d.ledger, d.gate, d.transactor,
		testCentral, testEscrow, zerolog.Nop(),
	)
	return d
}

// ==================== OnProjectComplete Tests ====================

func TestOffsetService_OnProjectComplete_Success(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-operator", domain.OpProjectComplete).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Mint(ctx, testCentral, int64(500)).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, evt *domain.Event) error {
			assert.Equal(t, domain.EventProjectCompleted, evt.Type)
			assert.Equal(t, "mangrove-1", evt.Project)
			assert.Nil(t, evt.CertificateID)
			return nil
		})

	err := d.svc.OnProjectComplete(ctx, "addr-operator", 500, "mangrove-1")
	require.NoError(t, err)
}

func TestOffsetService_OnProjectComplete_Unauthorized(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-nobody", domain.OpProjectComplete).Return(false, nil)

	err := d.svc.OnProjectComplete(ctx, "addr-nobody", 500, "mangrove-1")
	assertAppError(t, err, "AUTH_001")
}

func TestOffsetService_OnProjectComplete_InvalidAmount(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-operator", domain.OpProjectComplete).Return(true, nil)

	err := d.svc.OnProjectComplete(ctx, "addr-operator", 0, "mangrove-1")
	assertAppError(t, err, "POOL_001")
}

// ==================== OffsetAgainstProject Tests ====================

func TestOffsetService_OffsetAgainstProject_Success(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	sink := "SinkCorp"

	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(500), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Burn(ctx, testCentral, int64(120)).Return(nil)
	d.certRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(int64(9), nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, evt *domain.Event) error {
			assert.Equal(t, domain.EventOffsetAgainstProject, evt.Type)
			require.NotNil(t, evt.CertificateID)
			assert.Equal(t, int64(9), *evt.CertificateID)
			return nil
		})

	cert, err := d.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-anyone",
		Amount:      120,
		SourceParty: "SourceCorp",
		SinkParty:   &sink,
		FromProject: "mangrove-1",
		ToProject:   "solar-2",
	})
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, int64(9), cert.ID)
	assert.Equal(t, int64(120), cert.Amount)
	assert.Equal(t, "SourceCorp", cert.SourceParty)
	assert.Equal(t, "SinkCorp", cert.Beneficiary())
	assert.Equal(t, "mangrove-1", cert.FromProject)
	assert.Equal(t, "solar-2", cert.ToProject)
}

// An underfunded central account fails the balance check before anything is
// burned, so no certificate is produced.
func TestOffsetService_OffsetAgainstProject_InsufficientCentral(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(50), nil)

	cert, err := d.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-anyone",
		Amount:      120,
		SourceParty: "SourceCorp",
		FromProject: "mangrove-1",
		ToProject:   "solar-2",
	})
	assert.Nil(t, cert)
	assertAppError(t, err, "OFF_001")
}

func TestOffsetService_OffsetAgainstProject_NilSink(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(500), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Burn(ctx, testCentral, int64(100)).Return(nil)
	d.certRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(int64(10), nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	cert, err := d.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-anyone",
		Amount:      100,
		SourceParty: "SourceCorp",
		SinkParty:   nil,
		FromProject: "mangrove-1",
		ToProject:   "solar-2",
	})
	require.NoError(t, err)
	assert.Nil(t, cert.SinkParty)
	assert.Equal(t, "SourceCorp", cert.Beneficiary())
}

func TestOffsetService_OffsetAgainstProject_LedgerFailure(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(500), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Burn(ctx, testCentral, int64(100)).Return(errors.New("timeout"))

	cert, err := d.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-anyone",
		Amount:      100,
		SourceParty: "SourceCorp",
		FromProject: "mangrove-1",
		ToProject:   "solar-2",
	})
	assert.Nil(t, cert)
	assertAppError(t, err, "LED_001")
}

// ==================== Claim Tests ====================

func TestOffsetService_Claim_Success(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.gate.EXPECT().IsAuthorized(ctx, "addr-operator", domain.OpClaimTokens).Return(true, nil)
	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(500), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Transfer(ctx, testCentral, "addr-user", int64(40)).Return(nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.Claim(ctx, "addr-operator", "addr-user", 40)
	require.NoError(t, err)
}

func TestOffsetService_Claim_Unauthorized(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-nobody", domain.OpClaimTokens).Return(false, nil)

	err := d.svc.Claim(ctx, "addr-nobody", "addr-user", 40)
	assertAppError(t, err, "AUTH_001")
}

func TestOffsetService_Claim_InsufficientCentral(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.gate.EXPECT().IsAuthorized(ctx, "addr-operator", domain.OpClaimTokens).Return(true, nil)
	d.ledger.EXPECT().BalanceOf(ctx, testCentral).Return(int64(10), nil)

	err := d.svc.Claim(ctx, "addr-operator", "addr-user", 40)
	assertAppError(t, err, "OFF_001")
}

// ==================== OffsetToProject Tests ====================

func TestOffsetService_OffsetToProject_Success(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.ledger.EXPECT().BalanceOf(ctx, "addr-source").Return(int64(200), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Transfer(ctx, "addr-source", testEscrow, int64(80)).Return(nil)
	d.ledger.EXPECT().Burn(ctx, testEscrow, int64(80)).Return(nil)
	d.certRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(int64(11), nil)
	d.eventRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	cert, err := d.svc.OffsetToProject(ctx, ports.SelfOffsetRequest{
		SourceParty: "addr-source",
		Amount:      80,
		ToProject:   "solar-2",
	})
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, int64(11), cert.ID)
	assert.Nil(t, cert.SinkParty)
	assert.Empty(t, cert.FromProject)
	assert.Equal(t, "solar-2", cert.ToProject)
}

func TestOffsetService_OffsetToProject_InsufficientSource(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.ledger.EXPECT().BalanceOf(ctx, "addr-source").Return(int64(10), nil)

	cert, err := d.svc.OffsetToProject(ctx, ports.SelfOffsetRequest{
		SourceParty: "addr-source",
		Amount:      80,
		ToProject:   "solar-2",
	})
	assert.Nil(t, cert)
	assertAppError(t, err, "OFF_002")
}

func TestOffsetService_OffsetToProject_InvalidAmount(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	cert, err := d.svc.OffsetToProject(context.Background(), ports.SelfOffsetRequest{
		SourceParty: "addr-source",
		Amount:      -1,
		ToProject:   "solar-2",
	})
	assert.Nil(t, cert)
	assertAppError(t, err, "POOL_001")
}

// ==================== Certificate Read Tests ====================

func TestOffsetService_GetCertificate_NotFound(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.certRepo.EXPECT().GetByID(ctx, int64(404)).Return(nil, nil)

	cert, err := d.svc.GetCertificate(ctx, 404)
	assert.Nil(t, cert)
	assertAppError(t, err, "POOL_010")
}

func TestOffsetService_ListCertificates(t *testing.T) {
	d := setupOffsetService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.certRepo.EXPECT().List(ctx, 20).Return([]domain.Certificate{{ID: 1}, {ID: 2}}, nil)

	certs, err := d.svc.ListCertificates(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, certs, 2)
}
