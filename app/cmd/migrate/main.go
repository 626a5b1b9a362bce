package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"portal-service/app/config"
	"portal-service/app/utils/database"
	"portal-service/app/utils/logger"
	"portal-service/app/utils/migration"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	var (
		command = flag.String("command", "up", "Migration command (up, down, status)")
		steps   = flag.Int("steps", 1, "Number of steps for down migration")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		timeout = flag.Duration("timeout", 2*time.Minute, "Overall deadline for the command")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}

	appLogger, err := logger.New(logLevel)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	dbConn, err := database.NewConnection(database.ConfigFrom(cfg), appLogger)
	if err != nil {
		appLogger.Error("Failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		appLogger.Error("Failed to open embedded migrations", "error", err)
		os.Exit(1)
	}
	migrator := migration.NewMigrator(dbConn.DB(), appLogger, sub)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, migrator, *command, *steps, appLogger); err != nil {
		appLogger.Error("Migration command failed", "command", *command, "error", err)
		cancel()
		dbConn.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, migrator *migration.Migrator, command string, steps int, appLogger *slog.Logger) error {
	switch command {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			return err
		}
		appLogger.Info("All migrations applied successfully")

	case "down":
		if steps <= 0 {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			if err := migrator.Down(ctx); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		appLogger.Info("Migrations rolled back successfully", "steps", steps)

	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			if s.Applied {
				appLogger.Info("Migration applied",
					"version", s.Version,
					"name", s.Name,
					"applied_at", s.Timestamp.Format(time.RFC3339))
			} else {
				appLogger.Info("Migration pending", "version", s.Version, "name", s.Name)
			}
		}

	default:
		fmt.Println("Available commands: up, down, status")
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}
