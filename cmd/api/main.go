package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbon-offset-registry/config"
	httpHandler "carbon-offset-registry/internal/adapter/http/handler"
	pgStorage "carbon-offset-registry/internal/adapter/storage/postgres"
	redisStorage "carbon-offset-registry/internal/adapter/storage/redis"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/internal/service"
	"carbon-offset-registry/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Carbon Offset Registry")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	roundRepo := pgStorage.NewRoundRepo(pool)
	certRepo := pgStorage.NewCertificateRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	partyRepo := pgStorage.NewPartyRepo(pool)
	capRepo := pgStorage.NewCapabilityRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Value ledger adapter (external collaborator; runs its own transactions)
	ledger := pgStorage.NewAccountLedger(pool, cfg.Ledger.CallTimeout)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	gateSvc := service.NewGateService(capRepo, cfg.Auth.AdminAddress, log)
	authSvc := service.NewAuthService(partyRepo, hashSvc, encSvc, tokenSvc)
	poolSvc := service.NewPoolService(roundRepo, eventRepo, ledger, gateSvc, transactor, log)
	offsetSvc := service.NewOffsetService(
		certRepo,
		eventRepo,
		ledger,
		gateSvc,
		transactor,
		cfg.Ledger.CentralAccount,
		cfg.Ledger.EscrowAccount,
		log,
	)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		PoolSvc:        poolSvc,
		OffsetSvc:      offsetSvc,
		CapabilitySvc:  gateSvc,
		PartyRepo:      partyRepo,
		EncSvc:         encSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
