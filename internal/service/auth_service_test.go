package service

import (
	"context"
	"testing"
	"time"

	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockPartyRepository,
	*mocks.MockHashService,
	*mocks.MockEncryptionService,
	*mocks.MockTokenService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	partyRepo := mocks.NewMockPartyRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(partyRepo, hashSvc, encSvc, tokenSvc)
	return svc, partyRepo, hashSvc, encSvc, tokenSvc, ctrl
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, partyRepo, hashSvc, encSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username: "green_corp",
		Password: "StrongP@ss123",
		Name:     "Green Corp",
		Address:  "addr-green",
	}

	partyRepo.EXPECT().GetByUsername(ctx, req.Username).Return(nil, nil)
	partyRepo.EXPECT().GetByAddress(ctx, req.Address).Return(nil, nil)
	hashSvc.EXPECT().Hash(req.Password).Return("$argon2id$hashed", nil)
	encSvc.EXPECT().Encrypt(gomock.Any()).Return("encrypted_secret", nil)
	partyRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.AccessKey)
	assert.NotEmpty(t, resp.SecretKey)
	assert.Len(t, resp.AccessKey, 64) // 32 bytes = 64 hex chars
	assert.Len(t, resp.SecretKey, 64)
	assert.Equal(t, "addr-green", resp.Address)
	assert.NotEqual(t, uuid.Nil, resp.PartyID)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, partyRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	partyRepo.EXPECT().GetByUsername(ctx, "existing_user").Return(&domain.PartyAccount{ID: uuid.New()}, nil)

	resp, err := svc.Register(ctx, ports.RegisterRequest{
		Username: "existing_user",
		Password: "StrongP@ss123",
		Address:  "addr-dup",
	})
	assert.Nil(t, resp)
	assertAppError(t, err, "AUTH_003")
}

func TestAuthService_Register_DuplicateAddress(t *testing.T) {
	svc, partyRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	partyRepo.EXPECT().GetByUsername(ctx, "fresh_user").Return(nil, nil)
	partyRepo.EXPECT().GetByAddress(ctx, "addr-taken").Return(&domain.PartyAccount{ID: uuid.New()}, nil)

	resp, err := svc.Register(ctx, ports.RegisterRequest{
		Username: "fresh_user",
		Password: "StrongP@ss123",
		Address:  "addr-taken",
	})
	assert.Nil(t, resp)
	assertAppError(t, err, "POOL_001")
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, partyRepo, hashSvc, _, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	partyID := uuid.New()
	expiry := time.Now().Add(time.Hour)

	partyRepo.EXPECT().GetByUsername(ctx, "green_corp").Return(&domain.PartyAccount{
		ID:           partyID,
		Address:      "addr-green",
		Username:     "green_corp",
		PasswordHash: "$argon2id$hashed",
	}, nil)
	hashSvc.EXPECT().Verify("StrongP@ss123", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate(partyID, "addr-green").Return("jwt_token", expiry, nil)

	token, exp, err := svc.Login(ctx, "green_corp", "StrongP@ss123")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, partyRepo, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	partyRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	token, _, err := svc.Login(ctx, "ghost", "whatever")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, partyRepo, hashSvc, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	partyRepo.EXPECT().GetByUsername(ctx, "green_corp").Return(&domain.PartyAccount{
		ID:           uuid.New(),
		PasswordHash: "$argon2id$hashed",
	}, nil)
	hashSvc.EXPECT().Verify("wrong", "$argon2id$hashed").Return(false, nil)

	token, _, err := svc.Login(ctx, "green_corp", "wrong")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_002")
}
