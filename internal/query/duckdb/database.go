// Package duckdb serves a dataset kept as parquet objects through an embedded DuckDB database:
// each table becomes a view over its downloaded parquet file.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/askdata/askdata/internal/query/sqldb"
	"github.com/askdata/askdata/internal/storage"
)

type TableFile struct {
	TableName  string
	ObjectPath string
}

// Database runs statements through sqldb.Executor against the DuckDB views.
type Database struct {
	*sqldb.Executor

	db      *sql.DB
	workDir string
	tables  []string
}

// DatasetFiles maps each table to <prefix>/<table>.parquet.
func DatasetFiles(prefix string, tables []string) ([]TableFile, error) {
	files := make([]TableFile, 0, len(tables))
	for _, table := range tables {
		key, err := storage.DatasetTableKey(prefix, table)
		if err != nil {
			return nil, err
		}
		files = append(files, TableFile{TableName: table, ObjectPath: key})
	}
	return files, nil
}

// Open downloads every file from store and creates one view per table. Close releases the
// database and the downloaded files.
func Open(ctx context.Context, store storage.ObjectStore, files []TableFile, cfg sqldb.Config) (*Database, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no dataset files")
	}

	workDir, err := os.MkdirTemp("", "askdata-duckdb-")
	if err != nil {
		return nil, fmt.Errorf("create dataset temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(workDir) }

	groupedPaths := map[string][]string{}
	for index, file := range files {
		localPath := filepath.Join(workDir, fmt.Sprintf("%s_%d.parquet", sanitizeFileComponent(file.TableName), index))
		if err := download(ctx, store, file.ObjectPath, localPath); err != nil {
			cleanup()
			return nil, err
		}
		groupedPaths[file.TableName] = append(groupedPaths[file.TableName], localPath)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	tables := make([]string, 0, len(groupedPaths))
	for tableName := range groupedPaths {
		tables = append(tables, tableName)
	}
	sort.Strings(tables)
	for _, tableName := range tables {
		viewSQL := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)`,
			quoteIdent(tableName), quoteStringArray(groupedPaths[tableName]))
		if _, err := db.ExecContext(ctx, viewSQL); err != nil {
			_ = db.Close()
			cleanup()
			return nil, fmt.Errorf("create view for table %q: %w", tableName, err)
		}
	}

	return &Database{
		Executor: sqldb.NewExecutor(db, cfg),
		db:       db,
		workDir:  workDir,
		tables:   tables,
	}, nil
}

func (d *Database) Tables() []string {
	return append([]string(nil), d.tables...)
}

func (d *Database) Close() error {
	err := d.db.Close()
	if removeErr := os.RemoveAll(d.workDir); err == nil {
		err = removeErr
	}
	return err
}

// download copies one object to localPath.
func download(ctx context.Context, store storage.ObjectStore, key, localPath string) error {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get object %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local parquet file %q: %w", localPath, err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return fmt.Errorf("write local parquet file %q: %w", localPath, err)
	}
	return file.Close()
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteStringArray(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, `'`+strings.ReplaceAll(value, `'`, `''`)+`'`)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func sanitizeFileComponent(value string) string {
	value = strings.ReplaceAll(value, "/", "_")
	value = strings.ReplaceAll(value, "..", "_")
	if value == "" {
		return "table"
	}
	return value
}
