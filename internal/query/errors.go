package query

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

type ErrorKind string

const (
	// ErrorStatement means the database rejected the statement: syntax, unknown object,
	// type mismatch, constraint violation.
	ErrorStatement ErrorKind = "statement"
	// ErrorConnectivity means the connection could not be established or was lost.
	ErrorConnectivity ErrorKind = "connectivity"
	ErrorTimeout      ErrorKind = "timeout"
)

// ExecutionError carries the database failure text unchanged.
type ExecutionError struct {
	Kind ErrorKind
	Err  error
}

func (e *ExecutionError) Error() string { return e.Err.Error() }

func (e *ExecutionError) Unwrap() error { return e.Err }

func NewExecutionError(err error) *ExecutionError {
	var existing *ExecutionError
	if errors.As(err, &existing) {
		return existing
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &ExecutionError{Kind: ErrorTimeout, Err: err}
	case IsConnectivityError(err):
		return &ExecutionError{Kind: ErrorConnectivity, Err: err}
	default:
		return &ExecutionError{Kind: ErrorStatement, Err: err}
	}
}

func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P01-03: admin/crash shutdown, cannot connect now
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	return false
}
