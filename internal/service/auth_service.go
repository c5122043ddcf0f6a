package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	partyRepo ports.PartyRepository
	hashSvc   ports.HashService
	encSvc    ports.EncryptionService
	tokenSvc  ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	partyRepo ports.PartyRepository,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		partyRepo: partyRepo,
		hashSvc:   hashSvc,
		encSvc:    encSvc,
		tokenSvc:  tokenSvc,
	}
}

// Register creates a new party account.
// Returns the access_key and secret_key (plaintext shown only once).
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	existing, err := s.partyRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	existing, err = s.partyRepo.GetByAddress(ctx, req.Address)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check address: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("address already registered")
	}

	// Generate key pair
	accessKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate access key: %w", err))
	}

	secretKey, err := generateRandomHex(32) // 64 hex chars
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret key: %w", err))
	}

	// Hash password with Argon2id
	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	// Encrypt secret key with AES-256
	secretKeyEnc, err := s.encSvc.Encrypt(secretKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encrypt secret key: %w", err))
	}

	now := time.Now().UTC()
	party := &domain.PartyAccount{
		ID:           uuid.New(),
		Name:         req.Name,
		Address:      req.Address,
		Username:     req.Username,
		PasswordHash: passwordHash,
		AccessKey:    accessKey,
		SecretKeyEnc: secretKeyEnc,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create party: %w", err))
	}

	return &ports.RegisterResponse{
		PartyID:   party.ID,
		Address:   party.Address,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	party, err := s.partyRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find party: %w", err))
	}
	if party == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, party.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(party.ID, party.Address)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
