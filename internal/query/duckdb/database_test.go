package duckdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/query/sqldb"
	"github.com/askdata/askdata/internal/storage"
)

type annualReturn struct {
	RefNo     string  `parquet:"REFNO"`
	Exports   float64 `parquet:"EXPVLUANU"`
	Employees int64   `parquet:"EMPVLUANU"`
}

func TestOpenCreatesViewsAndExecutes(t *testing.T) {
	parquetBytes, err := buildParquet([]annualReturn{
		{RefNo: "1001", Exports: 120.5, Employees: 30},
		{RefNo: "1002", Exports: 80, Employees: 12},
	})
	if err != nil {
		t.Fatalf("buildParquet() error = %v", err)
	}
	files, err := DatasetFiles("demo/investment", []string{"ANNUAT2024"})
	if err != nil {
		t.Fatalf("DatasetFiles() error = %v", err)
	}
	store := &memoryStore{objects: map[string][]byte{"demo/investment/ANNUAT2024.parquet": parquetBytes}}

	db, err := Open(context.Background(), store, files, sqldb.Config{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	workDir := db.workDir
	defer func() { _ = db.Close() }()

	result, err := db.Execute(context.Background(), "SELECT REFNO, EXPVLUANU FROM ANNUAT2024 ORDER BY REFNO;")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Kind != query.KindRead || result.Table.Len() != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.Table.Columns[0] != "REFNO" || result.Table.Columns[1] != "EXPVLUANU" {
		t.Fatalf("Columns = %#v", result.Table.Columns)
	}
	if result.Table.Rows[0][0] != "1001" || result.Table.Rows[0][1] != 120.5 {
		t.Fatalf("row = %#v", result.Table.Rows[0])
	}

	count, err := db.Execute(context.Background(), "SELECT COUNT(*) AS c FROM ANNUAT2024")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if count.Table.Rows[0][0] != int64(2) {
		t.Fatalf("count = %#v", count.Table.Rows[0][0])
	}
	if got := db.Tables(); len(got) != 1 || got[0] != "ANNUAT2024" {
		t.Fatalf("Tables() = %#v", got)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatalf("work dir still present: %v", err)
	}
}

func TestExecuteReportsUnknownTableAsStatementError(t *testing.T) {
	parquetBytes, err := buildParquet([]annualReturn{{RefNo: "1", Exports: 1, Employees: 1}})
	if err != nil {
		t.Fatalf("buildParquet() error = %v", err)
	}
	store := &memoryStore{objects: map[string][]byte{"ANNUAT2024.parquet": parquetBytes}}
	db, err := Open(context.Background(), store, []TableFile{{TableName: "ANNUAT2024", ObjectPath: "ANNUAT2024.parquet"}}, sqldb.Config{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	_, err = db.Execute(context.Background(), "SELECT * FROM General_Project_Detail")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != query.ErrorStatement {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestOpenFailsOnMissingObject(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	_, err := Open(context.Background(), store, []TableFile{{TableName: "ANNUAT2024", ObjectPath: "missing.parquet"}}, sqldb.Config{})
	if !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := Open(context.Background(), store, nil, sqldb.Config{}); err == nil {
		t.Fatal("Open() expected error without files")
	}
}

func TestQuoteHelpers(t *testing.T) {
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("quoteIdent() = %s", got)
	}
	if got := quoteStringArray([]string{"/tmp/a.parquet", "/tmp/o'b.parquet"}); got != `['/tmp/a.parquet','/tmp/o''b.parquet']` {
		t.Fatalf("quoteStringArray() = %s", got)
	}
	if got := sanitizeFileComponent("../x/y"); got != "__x_y" {
		t.Fatalf("sanitizeFileComponent() = %s", got)
	}
}

func buildParquet(rows []annualReturn) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[annualReturn](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(context.Context, string, io.Reader, int64, storage.PutOptions) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStore) Stat(context.Context, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (m *memoryStore) List(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *memoryStore) Delete(context.Context, string) error {
	return nil
}
