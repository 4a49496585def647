package sqldb

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/askdata/askdata/internal/query"
)

func newMock(t *testing.T) (*Executor, sqlmock.Sqlmock, func(Config) *Executor) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewExecutor(db, Config{}), mock, func(cfg Config) *Executor { return NewExecutor(db, cfg) }
}

func TestExecuteReadPreservesColumnOrderAndRows(t *testing.T) {
	executor, mock, _ := newMock(t)
	sqlText := "SELECT Status, COUNT(*) AS Projects FROM General_Project_Detail GROUP BY Status"
	mock.ExpectQuery(sqlText).WillReturnRows(
		sqlmock.NewRows([]string{"Status", "Projects"}).
			AddRow("GENN", int64(12)).
			AddRow([]byte("CLSD"), int64(3)),
	)

	result, err := executor.Execute(context.Background(), sqlText)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Kind != query.KindRead {
		t.Fatalf("Kind = %q", result.Kind)
	}
	if got := result.Table.Columns; len(got) != 2 || got[0] != "Status" || got[1] != "Projects" {
		t.Fatalf("Columns = %#v", got)
	}
	if result.Table.Len() != 2 {
		t.Fatalf("rows = %d", result.Table.Len())
	}
	if result.Table.Rows[1][0] != "CLSD" {
		t.Fatalf("byte cell not normalized: %#v", result.Table.Rows[1][0])
	}
	if result.Table.Rows[0][1] != int64(12) {
		t.Fatalf("count = %#v", result.Table.Rows[0][1])
	}
	if result.Truncated {
		t.Fatal("Truncated = true without a row cap")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecuteReadReturnsEmptyTableWithColumns(t *testing.T) {
	executor, mock, _ := newMock(t)
	mock.ExpectQuery("SELECT Name FROM Authors WHERE 1 = 0").
		WillReturnRows(sqlmock.NewRows([]string{"Name"}))

	result, err := executor.Execute(context.Background(), "SELECT Name FROM Authors WHERE 1 = 0")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Table == nil || len(result.Table.Columns) != 1 || result.Table.Len() != 0 {
		t.Fatalf("Table = %#v", result.Table)
	}
}

func TestExecuteReadAppliesRowCap(t *testing.T) {
	_, mock, withConfig := newMock(t)
	executor := withConfig(Config{MaxRows: 2})
	mock.ExpectQuery("SELECT id FROM t").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3)),
	)

	result, err := executor.Execute(context.Background(), "SELECT id FROM t")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Table.Len() != 2 || !result.Truncated {
		t.Fatalf("rows = %d truncated = %v", result.Table.Len(), result.Truncated)
	}
}

func TestExecuteNormalizesDecimalAndUniqueIdentifier(t *testing.T) {
	executor, mock, _ := newMock(t)
	wire := []byte{0x67, 0x45, 0x23, 0x01, 0xAB, 0x89, 0xEF, 0xCD, 0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	mock.ExpectQuery("SELECT Id, Amount FROM t").WillReturnRows(
		sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("Id").OfType("UNIQUEIDENTIFIER", []byte{}),
			sqlmock.NewColumn("Amount").OfType("DECIMAL", []byte{}),
		).AddRow(wire, []byte("1250.50")),
	)

	result, err := executor.Execute(context.Background(), "SELECT Id, Amount FROM t")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	row := result.Table.Rows[0]
	if row[0] != "01234567-89AB-CDEF-0123-456789ABCDEF" {
		t.Fatalf("id = %#v", row[0])
	}
	if row[1] != 1250.5 {
		t.Fatalf("amount = %#v", row[1])
	}
}

func TestExecuteMutationCommitsAndReportsRowsAffected(t *testing.T) {
	executor, mock, _ := newMock(t)
	sqlText := "UPDATE Books SET AvailableCopies = 0 WHERE BookID = 4"
	mock.ExpectBegin()
	mock.ExpectExec(sqlText).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	result, err := executor.Execute(context.Background(), sqlText)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Kind != query.KindMutation || result.Table != nil {
		t.Fatalf("result = %#v", result)
	}
	if result.RowsAffected != 3 {
		t.Fatalf("RowsAffected = %d", result.RowsAffected)
	}
	if result.Message != "Query executed successfully (3 rows affected)" {
		t.Fatalf("Message = %q", result.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecuteCommitsMutationBehindCTEPrelude(t *testing.T) {
	executor, mock, _ := newMock(t)
	sqlText := "WITH stale AS (SELECT MemberID FROM Members WHERE IsActive = 0) DELETE FROM BorrowingRecords WHERE MemberID IN (SELECT MemberID FROM stale)"
	mock.ExpectBegin()
	mock.ExpectExec(sqlText).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	result, err := executor.Execute(context.Background(), sqlText)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Kind != query.KindMutation || result.RowsAffected != 2 {
		t.Fatalf("result = %#v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecuteMutationRollsBackOnFailure(t *testing.T) {
	executor, mock, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM Members").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	_, err := executor.Execute(context.Background(), "DELETE FROM Members")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != query.ErrorStatement {
		t.Fatalf("error = %#v", err)
	}
	if execErr.Error() != "permission denied" {
		t.Fatalf("message = %q", execErr.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecuteRetriesReadOnceAfterConnectivityFailure(t *testing.T) {
	_, mock, withConfig := newMock(t)
	executor := withConfig(Config{ReadRetries: 1})
	reset := &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}
	mock.ExpectQuery("SELECT 1").WillReturnError(reset)
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(1)))

	result, err := executor.Execute(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Table.Len() != 1 {
		t.Fatalf("rows = %d", result.Table.Len())
	}
}

func TestExecuteReportsConnectivityFailureAfterRetries(t *testing.T) {
	executor, mock, _ := newMock(t)
	reset := &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNREFUSED}
	mock.ExpectQuery("SELECT 1").WillReturnError(reset)

	_, err := executor.Execute(context.Background(), "SELECT 1")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != query.ErrorConnectivity {
		t.Fatalf("error = %#v", err)
	}
}

func TestExecuteDoesNotRetryStatementErrors(t *testing.T) {
	_, mock, withConfig := newMock(t)
	executor := withConfig(Config{ReadRetries: 3})
	mock.ExpectQuery("SELECT nope FROM t").WillReturnError(errors.New("Invalid column name 'nope'."))

	_, err := executor.Execute(context.Background(), "SELECT nope FROM t")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != query.ErrorStatement {
		t.Fatalf("error = %#v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExecuteTimesOut(t *testing.T) {
	_, mock, withConfig := newMock(t)
	executor := withConfig(Config{QueryTimeout: 20 * time.Millisecond})
	mock.ExpectQuery("SELECT slow").WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(1)))

	_, err := executor.Execute(context.Background(), "SELECT slow")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != query.ErrorTimeout {
		t.Fatalf("error = %#v", err)
	}
}

func TestExecuteRejectsBlankStatement(t *testing.T) {
	executor, _, _ := newMock(t)
	if _, err := executor.Execute(context.Background(), "   "); err == nil {
		t.Fatal("Execute() expected error for blank sql")
	}
}

func TestClassifyErrorTreatsFatalServerErrorsAsConnectivity(t *testing.T) {
	fatal := classifyError(mssql.Error{Number: 4060, Class: 20, Message: "cannot open database"})
	if fatal.Kind != query.ErrorConnectivity {
		t.Fatalf("Kind = %q", fatal.Kind)
	}
	stream := classifyError(mssql.StreamError{InnerError: errors.New("bad token")})
	if stream.Kind != query.ErrorConnectivity {
		t.Fatalf("Kind = %q", stream.Kind)
	}
	syntax := classifyError(mssql.Error{Number: 102, Class: 15, Message: "Incorrect syntax near 'FROM'."})
	if syntax.Kind != query.ErrorStatement || syntax.Error() != "mssql: Incorrect syntax near 'FROM'." {
		t.Fatalf("syntax = %q %q", syntax.Kind, syntax.Error())
	}
}
