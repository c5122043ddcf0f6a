package handler

import (
	"carbon-offset-registry/internal/adapter/http/middleware"
	redisStore "carbon-offset-registry/internal/adapter/storage/redis"
	"carbon-offset-registry/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PoolSvc        ports.PoolService
	OffsetSvc      ports.OffsetService
	CapabilitySvc  ports.CapabilityService
	PartyRepo      ports.PartyRepository
	EncSvc         ports.EncryptionService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- HMAC-authenticated routes (party API) ---
	hmacAuth := middleware.HMACAuth(deps.PartyRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)
	poolHandler := NewPoolHandler(deps.PoolSvc)
	rounds := v1.Group("/rounds", hmacAuth)
	{
		rounds.POST("", rl("rounds"), poolHandler.CreateRound)
		rounds.POST("/:id/participants", rl("rounds"), poolHandler.AddParticipant)
		rounds.POST("/:id/investments", rl("rounds"), poolHandler.Invest)
		rounds.POST("/:id/complete", rl("rounds"), poolHandler.ForceComplete)
		rounds.POST("/:id/verify", rl("rounds"), poolHandler.Verify)
		rounds.POST("/:id/credits", rl("rounds"), poolHandler.IssueCredits)
		rounds.POST("/:id/claims", rl("rounds"), poolHandler.ClaimShare)
	}

	offsetHandler := NewOffsetHandler(deps.OffsetSvc)
	offsets := v1.Group("/offsets", hmacAuth)
	{
		offsets.POST("/completions", rl("offsets"), offsetHandler.ProjectComplete)
		offsets.POST("/retirements", rl("offsets"), offsetHandler.Offset)
		offsets.POST("/claims", rl("offsets"), offsetHandler.ClaimTokens)
		offsets.POST("/self-retirements", rl("offsets"), offsetHandler.SelfOffset)
	}

	// --- Capability administration (HMAC-authenticated; gate enforces admin) ---
	adminHandler := NewAdminHandler(deps.CapabilitySvc)
	admin := v1.Group("/admin", hmacAuth)
	{
		admin.POST("/capabilities", rl("rounds"), adminHandler.GrantCapability)
		admin.DELETE("/capabilities", rl("rounds"), adminHandler.RevokeCapability)
	}

	// --- JWT-authenticated read routes (dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	reads := v1.Group("", jwtAuth)
	{
		reads.GET("/rounds/:id", rl("reads"), poolHandler.GetRound)
		reads.GET("/certificates", rl("reads"), offsetHandler.ListCertificates)
		reads.GET("/certificates/:id", rl("reads"), offsetHandler.GetCertificate)
	}

	return r
}
