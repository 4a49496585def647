package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/demo"
	"github.com/askdata/askdata/internal/observability"
	s3store "github.com/askdata/askdata/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("askdata-demo")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	seed := flag.Int64("seed", cfg.Demo.Seed, "random seed; the same seed produces the same dataset")
	projects := flag.Int("projects", cfg.Demo.ProjectCount, "number of projects to generate")
	years := flag.Int("years", cfg.Demo.Years, "number of annual reporting years ending at the last year")
	prefix := flag.String("prefix", cfg.Demo.Prefix, "object prefix the table files are written under")
	flag.Parse()

	if !cfg.ObjectStore.Enabled {
		logger.Error("ASKDATA_OBJECTSTORE_ENABLED is required to seed the demo dataset")
		os.Exit(1)
	}

	generator, err := demo.NewGenerator(demo.Options{Seed: *seed, ProjectCount: *projects, Years: *years})
	if err != nil {
		logger.Error("invalid demo options", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL,
		Prefix:           cfg.ObjectStore.Prefix,
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		logger.Error("failed to initialize object store", slog.Any("error", err))
		os.Exit(1)
	}

	started := time.Now()
	results, err := demo.Seed(ctx, store, *prefix, generator.Generate())
	if err != nil {
		logger.Error("seeding demo dataset failed", slog.Any("error", err))
		os.Exit(1)
	}
	for _, result := range results {
		logger.Info("uploaded demo table",
			slog.String("table", result.Table),
			slog.Int("rows", result.Rows),
			slog.String("key", result.Object.Key),
			slog.Int64("bytes", result.Object.Size),
		)
	}
	logger.Info("demo dataset seeded",
		slog.Int64("seed", *seed),
		slog.String("prefix", *prefix),
		slog.Duration("duration", time.Since(started)),
	)
}
