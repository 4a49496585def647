package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query"
)

const mutationMessage = "Query executed successfully"

type Config struct {
	// QueryTimeout bounds each statement. Zero leaves the caller's deadline in charge.
	QueryTimeout time.Duration
	// MaxRows caps rows read per statement. Zero reads everything.
	MaxRows int
	// ReadRetries is how many times a read is retried after a connectivity failure.
	ReadRetries int
}

// Executor runs statement text against a pooled *sql.DB.
type Executor struct {
	db  *sql.DB
	cfg Config
}

func NewExecutor(db *sql.DB, cfg Config) *Executor {
	if cfg.MaxRows < 0 {
		cfg.MaxRows = 0
	}
	if cfg.ReadRetries < 0 {
		cfg.ReadRetries = 0
	}
	return &Executor{db: db, cfg: cfg}
}

func (e *Executor) HealthCheck(ctx context.Context) error {
	if e.db == nil {
		return fmt.Errorf("database is not configured")
	}
	return e.db.PingContext(ctx)
}

func (e *Executor) Execute(ctx context.Context, sqlText string) (query.Result, error) {
	if strings.TrimSpace(sqlText) == "" {
		return query.Result{}, &query.ExecutionError{Kind: query.ErrorStatement, Err: errors.New("sql is required")}
	}
	if e.db == nil {
		return query.Result{}, &query.ExecutionError{Kind: query.ErrorConnectivity, Err: errors.New("database is not configured")}
	}
	if e.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}

	kind := query.Classify(sqlText)
	start := time.Now()
	var (
		result query.Result
		err    error
	)
	if kind == query.KindRead {
		for attempt := 0; attempt <= e.cfg.ReadRetries; attempt++ {
			result, err = e.read(ctx, sqlText)
			if err == nil || !query.IsConnectivityError(err) || ctx.Err() != nil {
				break
			}
		}
	} else {
		result, err = e.mutate(ctx, sqlText)
	}
	elapsed := time.Since(start)
	observability.ObserveQuery(string(kind), err, elapsed)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// drivers report cancellation in their own words
			return query.Result{Kind: kind, Duration: elapsed}, &query.ExecutionError{Kind: query.ErrorTimeout, Err: err}
		}
		return query.Result{Kind: kind, Duration: elapsed}, classifyError(err)
	}
	result.Kind = kind
	result.Duration = elapsed
	return result, nil
}

func (e *Executor) read(ctx context.Context, sqlText string) (query.Result, error) {
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{}, fmt.Errorf("query columns: %w", err)
	}
	typeNames := make([]string, len(columns))
	if columnTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range columnTypes {
			typeNames[i] = strings.ToUpper(ct.DatabaseTypeName())
		}
	}

	table := &query.Table{Columns: columns, Rows: make([][]any, 0)}
	truncated := false
	for rows.Next() {
		if e.cfg.MaxRows > 0 && len(table.Rows) == e.cfg.MaxRows {
			truncated = true
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return query.Result{}, fmt.Errorf("scan row: %w", err)
		}
		table.Rows = append(table.Rows, normalizeValues(values, typeNames))
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, err
	}
	return query.Result{Table: table, Truncated: truncated}, nil
}

func (e *Executor) mutate(ctx context.Context, sqlText string) (query.Result, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return query.Result{}, err
	}
	res, err := tx.ExecContext(ctx, sqlText)
	if err != nil {
		_ = tx.Rollback()
		return query.Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return query.Result{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return query.Result{Message: mutationMessage, RowsAffected: -1}, nil
	}
	return query.Result{
		Message:      fmt.Sprintf("%s (%d rows affected)", mutationMessage, affected),
		RowsAffected: affected,
	}, nil
}

// normalizeValues converts driver-specific cell types into plain JSON-friendly values.
func normalizeValues(values []any, typeNames []string) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		typeName := ""
		if i < len(typeNames) {
			typeName = typeNames[i]
		}
		normalized[i] = normalizeValue(value, typeName)
	}
	return normalized
}

func normalizeValue(value any, typeName string) any {
	switch typed := value.(type) {
	case []byte:
		if typeName == "UNIQUEIDENTIFIER" && len(typed) == 16 {
			var id mssql.UniqueIdentifier
			if err := id.Scan(typed); err == nil {
				return id.String()
			}
		}
		return numericOrString(string(typed), typeName)
	case string:
		return numericOrString(typed, typeName)
	case interface{ Float64() float64 }:
		return typed.Float64()
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case int16:
		return int64(typed)
	case int8:
		return int64(typed)
	case float32:
		return float64(typed)
	default:
		return typed
	}
}

func numericOrString(value, typeName string) any {
	switch typeName {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return value
}

func classifyError(err error) *query.ExecutionError {
	var streamErr mssql.StreamError
	if errors.As(err, &streamErr) {
		return &query.ExecutionError{Kind: query.ErrorConnectivity, Err: err}
	}
	var serverErr mssql.Error
	if errors.As(err, &serverErr) && serverErr.Class >= 20 {
		// severity 20+ terminates the connection
		return &query.ExecutionError{Kind: query.ErrorConnectivity, Err: err}
	}
	return query.NewExecutionError(err)
}
