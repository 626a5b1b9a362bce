package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"portal-service/app/port"
	"portal-service/app/rest/handlers"
	custommw "portal-service/app/rest/middleware"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger      *slog.Logger
	AuthUsecase port.AuthUsecase
	// SeedUsecase is nil when the identity admin endpoint or credential is missing
	SeedUsecase  port.SeedUsecase
	HealthChecks map[string]handlers.DependencyCheck
	RateLimiter  *custommw.RateLimiter
	AllowOrigins []string
	EnableDebug  bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = config.EnableDebug
	e.HTTPErrorHandler = NewHTTPErrorHandler(config.Logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(config.AuthUsecase, config.Logger)
	seedHandler := handlers.NewSeedHandler(config.SeedUsecase, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.HealthChecks, config.Logger)

	authMiddleware := custommw.NewAuthMiddleware(config.AuthUsecase, config.Logger)
	rateLimiter := config.RateLimiter
	if rateLimiter == nil {
		rateLimiter = custommw.NewRateLimiter()
	}

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(custommw.RequestLogging(config.Logger))
	e.Use(middleware.Recover())
	e.Use(custommw.NewCORSMiddleware(custommw.DefaultCORSConfig(config.AllowOrigins)))
	e.Use(custommw.SecurityHeaders())
	e.Use(middleware.BodyLimit("64K"))

	// API versioning
	v1 := e.Group("/v1")

	// Health endpoints (no auth required)
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)
	v1.GET("/live", healthHandler.LivenessCheck)

	// Authentication endpoints
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login, rateLimiter.Limit("login", custommw.LoginRatePolicy))
	auth.POST("/signup", authHandler.Signup, rateLimiter.Limit("signup", custommw.SignupRatePolicy))

	authProtected := auth.Group("", authMiddleware.RequireAuth())
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/me", authHandler.Me)

	// Demo provisioning. Every method is routed so non-POST requests get a 405 body
	// from the handler instead of echo's generic one. A session, when sent, is only
	// used to attribute the run in the logs.
	v1.Any("/admin/seed-demo-users", seedHandler.SeedDemoUsers, authMiddleware.OptionalAuth())

	return e
}
