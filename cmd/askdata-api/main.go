package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/api"
	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/conversation"
	"github.com/askdata/askdata/internal/export"
	historypostgres "github.com/askdata/askdata/internal/history/postgres"
	"github.com/askdata/askdata/internal/knowledge"
	"github.com/askdata/askdata/internal/maintenance"
	"github.com/askdata/askdata/internal/migrations"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/pipeline"
	"github.com/askdata/askdata/internal/query"
	duckdbengine "github.com/askdata/askdata/internal/query/duckdb"
	"github.com/askdata/askdata/internal/query/sqldb"
	"github.com/askdata/askdata/internal/sqlguard"
	"github.com/askdata/askdata/internal/storage"
	s3store "github.com/askdata/askdata/internal/storage/s3"
)

const maxSessionTurns = 100

// healthChecker is satisfied by the executors and the history repository.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("askdata-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Error("askdata-api failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	schema, err := knowledge.Lookup(cfg.Knowledge.Dataset)
	if err != nil {
		return err
	}
	dialect, err := targetDialect(cfg)
	if err != nil {
		return err
	}
	schema = schema.WithDialect(dialect)

	var objectStore storage.ObjectStore
	objectStoreCheck := api.CheckObjectStoreConfig(cfg)
	if cfg.ObjectStore.Enabled {
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
			return fmt.Errorf("initialize object store: %w", err)
		}
		objectStore = store
		objectStoreCheck = store.HealthCheck
	}

	executor, closeExecutor, err := openExecutor(ctx, cfg, schema, objectStore)
	if err != nil {
		return err
	}
	defer func() { _ = closeExecutor.Close() }()

	knownTables := []string(nil)
	if cfg.Guard.EnforceTables {
		knownTables = schema.TableNames()
	}
	service := &pipeline.Service{
		Schema:   schema,
		Gate:     sqlguard.New(sqlguard.Config{AllowMutations: cfg.Guard.AllowMutations, KnownTables: knownTables}),
		Executor: executor,
		Logger:   logger,
	}

	if cfg.AI.Enabled {
		completer, err := nl2sql.NewOpenAICompleter(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			return fmt.Errorf("initialize completion client: %w", err)
		}
		retrying := nl2sql.NewRetryingCompleter(completer, nl2sql.RetryConfig{
			MaxRetries: cfg.AI.MaxRetries,
			Delay:      cfg.AI.RetryDelay,
			OnRetry: func(attempt int, err error) {
				observability.IncrementCompletionRetry()
				logger.Warn("retrying completion", slog.Int("attempt", attempt), slog.Any("error", err))
			},
		})
		translator, err := nl2sql.NewTranslator(schema, retrying, nl2sql.TranslatorConfig{Model: completer.Model(), Timeout: cfg.AI.Timeout})
		if err != nil {
			return fmt.Errorf("initialize translator: %w", err)
		}
		service.Translator = translator
	}

	checks := []api.ReadinessCheck{executor.HealthCheck, objectStoreCheck, api.CheckCompletionConfig(cfg)}
	maintenanceService := &maintenance.Service{
		ObjectStore: objectStore,
		Config: maintenance.Config{
			RetentionInterval: cfg.Maintenance.RetentionInterval,
			Dataset:           schema.Name(),
			ExportPrefix:      cfg.Export.Prefix,
			ExportMaxAge:      cfg.Maintenance.ExportMaxAge,
			HistoryMaxAge:     cfg.Maintenance.HistoryMaxAge,
		},
		Logger: logger,
		Clock:  time.Now,
	}
	if cfg.Database.Driver == config.DriverDuckDBDemo {
		maintenanceService.Config.DemoPrefix = cfg.Demo.Prefix
		maintenanceService.Config.DemoTables = schema.TableNames()
	}

	deps := api.Dependencies{
		Logger:            logger,
		DependencyTimeout: 2 * time.Second,
		Schema:            schema,
		Answerer:          service,
		Conversations:     conversation.NewStore(maxSessionTurns),
		Maintenance:       maintenanceService,
	}

	if cfg.History.DSN != "" {
		historyDB, err := sqldb.Open(ctx, sqldb.DBConfig{
			Driver:          config.DriverPostgres,
			DSN:             cfg.History.DSN,
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxIdleTime: cfg.History.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("open history db: %w", err)
		}
		defer func() { _ = historyDB.Close() }()
		repo := historypostgres.NewRepository(historyDB)
		service.History = repo
		deps.History = repo
		maintenanceService.History = repo
		checks = append(checks, repo.HealthCheck, historySchemaCheck(historyDB))
	}

	if cfg.Export.Archive {
		deps.Exports = &export.Archive{Store: objectStore, Prefix: cfg.Export.Prefix}
	}

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			return fmt.Errorf("parse static auth keys: %w", err)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}
	deps.Readiness = api.CombineReadinessChecks(checks...)

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewHandler(cfg, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Maintenance.Enabled {
		go func() {
			if err := maintenanceService.Run(ctx); err != nil {
				logger.Error("maintenance loop stopped", slog.Any("error", err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("dataset", schema.Name()),
			slog.String("driver", cfg.Database.Driver),
			slog.Bool("completion_enabled", cfg.AI.Enabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// historySchemaCheck fails readiness until askdata-migrate has applied every history migration.
func historySchemaCheck(db *sql.DB) api.ReadinessCheck {
	runner := migrations.NewRunner()
	return func(ctx context.Context) error {
		pending, err := runner.Pending(ctx, db)
		if err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%d history migration(s) pending", pending)
		}
		return nil
	}
}

type executorWithHealth interface {
	query.Executor
	healthChecker
}

// openExecutor returns the executor for the configured driver and the resource to release on exit.
func openExecutor(ctx context.Context, cfg config.Config, schema *knowledge.Schema, store storage.ObjectStore) (executorWithHealth, io.Closer, error) {
	execCfg := sqldb.Config{QueryTimeout: cfg.Database.QueryTimeout, MaxRows: cfg.Database.MaxRows, ReadRetries: 1}

	if cfg.Database.Driver == config.DriverDuckDBDemo {
		files, err := duckdbengine.DatasetFiles(cfg.Demo.Prefix, schema.TableNames())
		if err != nil {
			return nil, nil, err
		}
		db, err := duckdbengine.Open(ctx, store, files, execCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open demo dataset: %w", err)
		}
		return db, db, nil
	}

	db, err := sqldb.Open(ctx, sqldb.DBConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open target db: %w", err)
	}
	return sqldb.NewExecutor(db, execCfg), db, nil
}

// targetDialect prefers the explicit override and otherwise follows the driver.
func targetDialect(cfg config.Config) (knowledge.Dialect, error) {
	if cfg.Knowledge.Dialect != "" {
		return knowledge.ParseDialect(cfg.Knowledge.Dialect)
	}
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return knowledge.DialectPostgres, nil
	case config.DriverDuckDBDemo:
		return knowledge.DialectDuckDB, nil
	default:
		return knowledge.DialectSQLServer, nil
	}
}
