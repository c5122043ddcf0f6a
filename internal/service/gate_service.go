package service

import (
	"context"
	"fmt"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"

	"github.com/rs/zerolog"
)

// GateServiceImpl implements ports.AuthorizationGate and
// ports.CapabilityService. The admin address passes every check; everyone else
// needs a stored per-operation grant.
type GateServiceImpl struct {
	capRepo      ports.CapabilityRepository
	adminAddress string
	log          zerolog.Logger
}

// NewGateService creates a new GateServiceImpl.
func NewGateService(capRepo ports.CapabilityRepository, adminAddress string, log zerolog.Logger) *GateServiceImpl {
	return &GateServiceImpl{
		capRepo:      capRepo,
		adminAddress: adminAddress,
		log:          log,
	}
}

// IsAuthorized reports whether caller may perform op.
func (s *GateServiceImpl) IsAuthorized(ctx context.Context, caller string, op domain.Operation) (bool, error) {
	if caller == s.adminAddress {
		return true, nil
	}
	return s.capRepo.Has(ctx, caller, op)
}

// Grant stores a per-operation capability for address.
func (s *GateServiceImpl) Grant(ctx context.Context, caller string, address string, op domain.Operation) error {
	ok, err := s.IsAuthorized(ctx, caller, domain.OpGrantCapability)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("authorization check: %w", err))
	}
	if !ok {
		return apperror.ErrUnauthorized(string(domain.OpGrantCapability))
	}

	if err := s.capRepo.Grant(ctx, address, op); err != nil {
		return apperror.InternalError(fmt.Errorf("grant capability: %w", err))
	}

	s.log.Info().
		Str("address", address).
		Str("operation", string(op)).
		Str("granted_by", caller).
		Msg("capability granted")

	return nil
}

// Revoke removes a per-operation capability from address.
func (s *GateServiceImpl) Revoke(ctx context.Context, caller string, address string, op domain.Operation) error {
	ok, err := s.IsAuthorized(ctx, caller, domain.OpGrantCapability)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("authorization check: %w", err))
	}
	if !ok {
		return apperror.ErrUnauthorized(string(domain.OpGrantCapability))
	}

	if err := s.capRepo.Revoke(ctx, address, op); err != nil {
		return apperror.InternalError(fmt.Errorf("revoke capability: %w", err))
	}

	s.log.Info().
		Str("address", address).
		Str("operation", string(op)).
		Str("revoked_by", caller).
		Msg("capability revoked")

	return nil
}
