package integration

import (
	"context"
	"testing"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/internal/service"
	"carbon-offset-registry/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	centralAccount = "registry:central"
	escrowAccount  = "registry:escrow"
)

type offsetStack struct {
	svc    *service.OffsetServiceImpl
	certs  *inMemoryCertificateRepo
	events *inMemoryEventRepo
	ledger *inMemoryLedger
	caps   *inMemoryCapabilityRepo
}

func newOffsetStack() *offsetStack {
	certs := newInMemoryCertificateRepo()
	events := newInMemoryEventRepo()
	ledger := newInMemoryLedger()
	caps := newInMemoryCapabilityRepo()
	gate := service.NewGateService(caps, adminAddr, zerolog.Nop())
	svc := service.NewOffsetService(
		certs, events, ledger, gate, newInMemoryTransactor(),
		centralAccount, escrowAccount, zerolog.Nop(),
	)
	return &offsetStack{svc: svc, certs: certs, events: events, ledger: ledger, caps: caps}
}

// Mint on completion, retire against a project, then let a user claim
// released credits.
func TestOffsetFlow_MintRetireClaim(t *testing.T) {
	ctx := context.Background()
	s := newOffsetStack()

	require.NoError(t, s.svc.OnProjectComplete(ctx, adminAddr, 500, "reforestation-br"))

	bal, err := s.ledger.BalanceOf(ctx, centralAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(500), bal)

	// Retirement burns from central custody and issues a certificate.
	sink := "addr-beneficiary"
	cert, err := s.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-user",
		Amount:      120,
		SourceParty: "addr-user",
		SinkParty:   &sink,
		FromProject: "reforestation-br",
		ToProject:   "wind-farm-tx",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cert.ID)
	assert.Equal(t, int64(120), cert.Amount)
	assert.Equal(t, "addr-beneficiary", cert.Beneficiary())

	bal, err = s.ledger.BalanceOf(ctx, centralAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(380), bal)

	// Claim moves credits from central custody to the user.
	require.NoError(t, s.svc.Claim(ctx, adminAddr, "addr-user", 80))

	bal, err = s.ledger.BalanceOf(ctx, "addr-user")
	require.NoError(t, err)
	assert.Equal(t, int64(80), bal)

	bal, err = s.ledger.BalanceOf(ctx, centralAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(300), bal)
}

func TestOffsetFlow_RetirementNeedsCentralBalance(t *testing.T) {
	ctx := context.Background()
	s := newOffsetStack()

	require.NoError(t, s.svc.OnProjectComplete(ctx, adminAddr, 50, "solar-in"))

	_, err := s.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
		Caller:      "addr-user",
		Amount:      60,
		SourceParty: "addr-user",
		ToProject:   "solar-in",
	})
	assertAppError(t, err, apperror.ErrInsufficientCentralBalance().Code)

	// Nothing burned, nothing certified.
	bal, err := s.ledger.BalanceOf(ctx, centralAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(50), bal)

	certs, err := s.certs.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestOffsetFlow_SelfRetirementThroughEscrow(t *testing.T) {
	ctx := context.Background()
	s := newOffsetStack()

	require.NoError(t, s.ledger.Mint(ctx, "addr-user", 100))

	cert, err := s.svc.OffsetToProject(ctx, ports.SelfOffsetRequest{
		SourceParty: "addr-user",
		Amount:      40,
		ToProject:   "mangrove-ph",
	})
	require.NoError(t, err)
	assert.Equal(t, "addr-user", cert.SourceParty)
	assert.Nil(t, cert.SinkParty)
	assert.Empty(t, cert.FromProject)
	assert.Equal(t, "addr-user", cert.Beneficiary())

	// The amount passed through escrow and was burned there.
	bal, err := s.ledger.BalanceOf(ctx, "addr-user")
	require.NoError(t, err)
	assert.Equal(t, int64(60), bal)

	bal, err = s.ledger.BalanceOf(ctx, escrowAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)

	// More than the source holds is rejected.
	_, err = s.svc.OffsetToProject(ctx, ports.SelfOffsetRequest{
		SourceParty: "addr-user",
		Amount:      500,
		ToProject:   "mangrove-ph",
	})
	assertAppError(t, err, apperror.ErrInsufficientSourceBalance().Code)
}

func TestOffsetFlow_CertificateIdsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	s := newOffsetStack()

	require.NoError(t, s.svc.OnProjectComplete(ctx, adminAddr, 100, "solar-in"))

	for i := 1; i <= 3; i++ {
		cert, err := s.svc.OffsetAgainstProject(ctx, ports.OffsetRequest{
			Caller:      "addr-user",
			Amount:      10,
			SourceParty: "addr-user",
			ToProject:   "solar-in",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i), cert.ID)
	}

	certs, err := s.svc.ListCertificates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, certs, 3)
	// Newest first.
	assert.Equal(t, int64(3), certs[0].ID)
}

func TestOffsetFlow_GatedOperations(t *testing.T) {
	ctx := context.Background()
	s := newOffsetStack()

	// Minting and claiming are gated.
	err := s.svc.OnProjectComplete(ctx, "addr-nobody", 100, "solar-in")
	assertAppError(t, err, apperror.ErrUnauthorized("x").Code)

	err = s.svc.Claim(ctx, "addr-nobody", "addr-nobody", 10)
	assertAppError(t, err, apperror.ErrUnauthorized("x").Code)

	// A capability grant opens the operation to a non-admin caller.
	require.NoError(t, s.caps.Grant(ctx, "addr-verifier", domain.OpProjectComplete))
	require.NoError(t, s.svc.OnProjectComplete(ctx, "addr-verifier", 100, "solar-in"))

	bal, err := s.ledger.BalanceOf(ctx, centralAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal)
}
