package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/migrations"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query/sqldb"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up|down|status")
	steps := flag.Int("steps", 0, "number of migration steps; 0 means all for up, 1 for down")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("askdata-migrate")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stderr)
	if err := run(cfg, logger, *direction, *steps, *timeout); err != nil {
		logger.Error("migration failed", slog.String("direction", *direction), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, direction string, steps int, timeout time.Duration) error {
	if cfg.History.DSN == "" {
		return fmt.Errorf("ASKDATA_HISTORY_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sqldb.Open(ctx, sqldb.DBConfig{Driver: config.DriverPostgres, DSN: cfg.History.DSN, MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := migrations.NewRunner()
	switch direction {
	case "up":
		applied, err := runner.Up(ctx, db, steps)
		if err != nil {
			return err
		}
		logger.Info("history migrations applied", slog.Int("count", applied))
	case "down":
		rolledBack, err := runner.Down(ctx, db, steps)
		if err != nil {
			return err
		}
		logger.Info("history migrations rolled back", slog.Int("count", rolledBack))
	case "status":
		statuses, err := runner.Status(ctx, db)
		if err != nil {
			return err
		}
		for _, status := range statuses {
			state := "pending"
			if status.Applied {
				state = "applied " + status.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%06d_%s\t%s\n", status.Version, status.Name, state)
		}
	default:
		return fmt.Errorf("invalid direction %q", direction)
	}
	return nil
}
