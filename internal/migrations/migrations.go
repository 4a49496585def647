// Package migrations applies the ask-history schema to PostgreSQL. Scripts are embedded as
// sql/<version>_<name>.(up|down).sql; each one runs in its own transaction together with its
// bookkeeping row, under a transaction-scoped advisory lock so concurrent migrators serialize.
package migrations

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/*.sql
var embeddedFS embed.FS

const (
	migrationTable = "askdata_schema_migrations"
	// advisoryLockKey is an arbitrary constant shared by every askdata migrator.
	advisoryLockKey int64 = 0x61736b64617461
)

var migrationNamePattern = regexp.MustCompile(`^([0-9]+)_(.+)\.(up|down)\.sql$`)

type Runner struct {
	fsys fs.FS
}

func NewRunner() *Runner {
	return &Runner{fsys: embeddedFS}
}

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Status is one known migration and when it was applied, if it was.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Up applies pending migrations in version order. steps <= 0 applies all of them.
func (r *Runner) Up(ctx context.Context, db *sql.DB, steps int) (int, error) {
	migrations, err := loadMigrations(r.fsys)
	if err != nil {
		return 0, err
	}
	if err := ensureMigrationTable(ctx, db); err != nil {
		return 0, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range migrations {
		if _, ok := applied[item.Version]; ok {
			continue
		}
		if steps > 0 && count >= steps {
			break
		}
		ran, err := runLocked(ctx, db, item.Version, false, item.UpSQL,
			`INSERT INTO `+migrationTable+` (version, name) VALUES ($1, $2)`, item.Version, item.Name)
		if err != nil {
			return count, fmt.Errorf("apply migration %d_%s: %w", item.Version, item.Name, err)
		}
		if ran {
			count++
		}
	}
	return count, nil
}

// Down rolls back the newest applied migrations. steps <= 0 rolls back one.
func (r *Runner) Down(ctx context.Context, db *sql.DB, steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	migrations, err := loadMigrations(r.fsys)
	if err != nil {
		return 0, err
	}
	if err := ensureMigrationTable(ctx, db); err != nil {
		return 0, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	versions := make([]int64, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	slices.Sort(versions)
	slices.Reverse(versions)

	byVersion := make(map[int64]migration, len(migrations))
	for _, item := range migrations {
		byVersion[item.Version] = item
	}

	count := 0
	for _, version := range versions {
		if count >= steps {
			break
		}
		item, ok := byVersion[version]
		if !ok {
			return count, fmt.Errorf("applied migration %d has no embedded script", version)
		}
		ran, err := runLocked(ctx, db, item.Version, true, item.DownSQL,
			`DELETE FROM `+migrationTable+` WHERE version = $1`, item.Version)
		if err != nil {
			return count, fmt.Errorf("roll back migration %d_%s: %w", item.Version, item.Name, err)
		}
		if ran {
			count++
		}
	}
	return count, nil
}

// Status lists every embedded migration in version order.
func (r *Runner) Status(ctx context.Context, db *sql.DB) ([]Status, error) {
	migrations, err := loadMigrations(r.fsys)
	if err != nil {
		return nil, err
	}
	if err := ensureMigrationTable(ctx, db); err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(migrations))
	for _, item := range migrations {
		appliedAt, ok := applied[item.Version]
		out = append(out, Status{Version: item.Version, Name: item.Name, Applied: ok, AppliedAt: appliedAt})
	}
	return out, nil
}

// Pending counts embedded migrations not yet applied. It never writes, so the API can use it as
// a readiness probe against a database it does not own.
func (r *Runner) Pending(ctx context.Context, db *sql.DB) (int, error) {
	migrations, err := loadMigrations(r.fsys)
	if err != nil {
		return 0, err
	}
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, migrationTable).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check migration table: %w", err)
	}
	if !exists {
		return len(migrations), nil
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, item := range migrations {
		if _, ok := applied[item.Version]; !ok {
			pending++
		}
	}
	return pending, nil
}

// ensureMigrationTable holds the migration lock because concurrent CREATE TABLE IF NOT EXISTS
// statements can still collide in the PostgreSQL catalog.
func ensureMigrationTable(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	statement := `
CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := tx.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return tx.Commit()
}

// runLocked runs script and its bookkeeping statement in one transaction. Another migrator may
// have handled the version while this one waited for the lock; then nothing runs and ran is false.
func runLocked(ctx context.Context, db *sql.DB, version int64, wantApplied bool, script, bookkeeping string, args ...any) (ran bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return false, fmt.Errorf("acquire migration lock: %w", err)
	}
	var applied bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+migrationTable+` WHERE version = $1)`, version).Scan(&applied); err != nil {
		return false, fmt.Errorf("recheck version: %w", err)
	}
	if applied != wantApplied {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, args...); err != nil {
		return false, fmt.Errorf("record version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int64]time.Time, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM `+migrationTable+` ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := map[int64]time.Time{}
	for rows.Next() {
		var version int64
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[version] = appliedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read applied versions: %w", err)
	}
	return applied, nil
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "sql")
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}

	byVersion := map[int64]migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationNamePattern.FindStringSubmatch(path.Base(entry.Name()))
		if matches == nil {
			continue
		}
		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version for %q: %w", entry.Name(), err)
		}
		script, err := fs.ReadFile(fsys, path.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", entry.Name(), err)
		}

		item := byVersion[version]
		if item.Name != "" && item.Name != matches[2] {
			return nil, fmt.Errorf("migration %d has conflicting names %q and %q", version, item.Name, matches[2])
		}
		item.Version = version
		item.Name = matches[2]
		if matches[3] == "up" {
			item.UpSQL = string(script)
		} else {
			item.DownSQL = string(script)
		}
		byVersion[version] = item
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, item := range byVersion {
		if strings.TrimSpace(item.UpSQL) == "" {
			return nil, fmt.Errorf("migration %d missing up SQL", item.Version)
		}
		if strings.TrimSpace(item.DownSQL) == "" {
			return nil, fmt.Errorf("migration %d missing down SQL", item.Version)
		}
		migrations = append(migrations, item)
	}
	slices.SortFunc(migrations, func(a, b migration) int { return cmp.Compare(a.Version, b.Version) })
	return migrations, nil
}
