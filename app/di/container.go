package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"portal-service/app/config"
	"portal-service/app/domain"
	"portal-service/app/driver/kratos"
	"portal-service/app/driver/postgres"
	"portal-service/app/gateway"
	"portal-service/app/port"
	"portal-service/app/rest"
	"portal-service/app/rest/handlers"
	"portal-service/app/rest/middleware"
	"portal-service/app/usecase"
	applogger "portal-service/app/utils/logger"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB           *postgres.DB
	KratosClient *kratos.Client

	// Gateways
	Identities   port.IdentityProvider
	Roles        port.RoleRepository
	AccountStore port.AccountStore

	// Usecases
	AuthUsecase port.AuthUsecase
	// SeedUsecase stays nil unless the identity admin endpoint and credential are configured
	SeedUsecase port.SeedUsecase

	rateLimiter *middleware.RateLimiter
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	var err error

	container.DB, err = postgres.NewConnection(cfg, applogger.DatabaseLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container.KratosClient, err = kratos.NewClient(cfg, applogger.KratosLogger(logger))
	if err != nil {
		container.DB.Close()
		return nil, fmt.Errorf("failed to initialize Kratos client: %w", err)
	}

	container.Roles = postgres.NewRoleRepository(container.DB.Pool(), applogger.DatabaseLogger(logger))
	container.Identities = kratos.NewIdentityAdapter(container.KratosClient, cfg.KratosSchemaID, applogger.KratosLogger(logger))
	container.AccountStore = gateway.NewAccountGateway(container.Identities, container.Roles, logger)

	container.AuthUsecase = usecase.NewAuthUseCase(container.Identities, container.Roles, cfg.ExternalCallTimeout, logger)

	if cfg.SeedingConfigured() {
		container.SeedUsecase = usecase.NewSeedUseCase(container.AccountStore, domain.Roster(), cfg.ExternalCallTimeout, logger)
	} else {
		logger.Warn("demo seeding disabled: KRATOS_ADMIN_URL or KRATOS_ADMIN_TOKEN is not set")
	}

	container.rateLimiter = middleware.NewRateLimiter()

	logger.Info("Container initialized",
		"seeding_enabled", container.SeedUsecase != nil)

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:       c.Logger,
		AuthUsecase:  c.AuthUsecase,
		SeedUsecase:  c.SeedUsecase,
		RateLimiter:  c.rateLimiter,
		AllowOrigins: c.Config.CORSAllowedOrigins,
		EnableDebug:  c.Config.LogLevel == "debug",
		HealthChecks: map[string]handlers.DependencyCheck{
			"database": c.DB.HealthCheck,
			"kratos":   c.KratosClient.HealthCheck,
		},
	}

	router := rest.NewRouter(routerConfig)

	c.Logger.Info("API router created")
	return router
}

// Close closes all resources
func (c *Container) Close() error {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}

	if c.DB != nil {
		c.DB.Close()
	}

	c.Logger.Info("Container closed successfully")
	return nil
}
