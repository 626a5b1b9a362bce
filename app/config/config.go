package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the portal service
type Config struct {
	// Server
	Port     string `env:"PORT" default:"9500"`
	Host     string `env:"HOST" default:"0.0.0.0"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseURL      string `env:"DATABASE_URL" required:"true"`
	DatabaseHost     string `env:"DB_HOST" default:"portal-postgres"`
	DatabasePort     string `env:"DB_PORT" default:"5432"`
	DatabaseName     string `env:"DB_NAME" default:"portal_db"`
	DatabaseUser     string `env:"DB_USER" default:"portal_user"`
	DatabasePassword string `env:"DB_PASSWORD" required:"true"`
	DatabaseSSLMode  string `env:"DB_SSL_MODE" default:"require"`

	// Kratos
	KratosPublicURL string `env:"KRATOS_PUBLIC_URL" required:"true"`
	KratosSchemaID  string `env:"KRATOS_SCHEMA_ID" default:"default"`

	// Privileged identity administration, only needed by the seeder
	KratosAdminURL   string `env:"KRATOS_ADMIN_URL"`
	KratosAdminToken string `env:"KRATOS_ADMIN_TOKEN"`

	// HTTP
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	ExternalCallTimeout time.Duration `env:"EXTERNAL_CALL_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9500")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	config.DatabaseHost = getEnvOrDefault("DB_HOST", "portal-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "portal_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "portal_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	// Kratos configuration
	config.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	if config.KratosPublicURL == "" {
		return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
	}
	config.KratosSchemaID = getEnvOrDefault("KRATOS_SCHEMA_ID", "default")

	// The admin endpoint and its credential are checked when seeding is invoked,
	// so a missing value does not stop the rest of the service from booting.
	config.KratosAdminURL = os.Getenv("KRATOS_ADMIN_URL")
	config.KratosAdminToken = os.Getenv("KRATOS_ADMIN_TOKEN")

	config.CORSAllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	var err error
	config.ExternalCallTimeout, err = time.ParseDuration(getEnvOrDefault("EXTERNAL_CALL_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXTERNAL_CALL_TIMEOUT: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.ExternalCallTimeout < time.Second {
		return fmt.Errorf("external call timeout must be at least 1 second, got: %v", c.ExternalCallTimeout)
	}

	if c.KratosSchemaID == "" {
		return fmt.Errorf("kratos schema id must not be empty")
	}

	return nil
}

// SeedingConfigured reports whether both the admin endpoint and its credential are present
func (c *Config) SeedingConfigured() bool {
	return strings.TrimSpace(c.KratosAdminURL) != "" && strings.TrimSpace(c.KratosAdminToken) != ""
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
