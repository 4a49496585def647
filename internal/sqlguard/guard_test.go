package sqlguard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/askdata/askdata/internal/knowledge"
	"github.com/askdata/askdata/internal/query"
)

func investmentGuard(t *testing.T, allowMutations bool) *Guard {
	t.Helper()
	schema, err := knowledge.Lookup("investment")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	return New(Config{AllowMutations: allowMutations, KnownTables: schema.TableNames()})
}

func TestCheckAcceptsReadStatements(t *testing.T) {
	guard := investmentGuard(t, false)
	tests := []struct {
		sql    string
		tables []string
	}{
		{"SELECT * FROM General_Project_Detail", []string{"General_Project_Detail"}},
		{"select count(*) from [dbo].[general_project_detail];", []string{"general_project_detail"}},
		{
			"SELECT g.Section, SUM(a.Exports_2024) FROM General_Project_Detail g LEFT OUTER JOIN ANNUAT2024 a ON g.File_No = a.File_No GROUP BY g.Section",
			[]string{"ANNUAT2024", "General_Project_Detail"},
		},
		{
			"WITH active AS (SELECT File_No FROM General_Project_Detail WHERE Status = 'GENN') SELECT COUNT(*) FROM active",
			[]string{"General_Project_Detail"},
		},
		{
			"SELECT EXTRACT(YEAR FROM Date_Of_Agreement) AS y FROM BOI.dbo.General_Project_Detail",
			[]string{"General_Project_Detail"},
		},
		{
			"SELECT * FROM General_Project_Detail WHERE File_No IN (SELECT File_No FROM ShareHolders_Country WHERE Country_Code = 'JP')",
			[]string{"General_Project_Detail", "ShareHolders_Country"},
		},
		{
			"SELECT t.n FROM (SELECT COUNT(*) AS n FROM ANNUAT2024) t",
			[]string{"ANNUAT2024"},
		},
		{"-- count\nSELECT 1 /* no tables */", nil},
		{"SELECT 'DELETE FROM x; DROP TABLE y' AS txt FROM ANNUAT2024 WITH (NOLOCK)", []string{"ANNUAT2024"}},
	}
	for _, tt := range tests {
		stmt, err := guard.Check(tt.sql)
		if err != nil {
			t.Fatalf("Check(%q) error = %v", tt.sql, err)
		}
		if stmt.Verb != "SELECT" || stmt.Kind != query.KindRead {
			t.Fatalf("Check(%q) = %+v", tt.sql, stmt)
		}
		if !reflect.DeepEqual(stmt.Tables, tt.tables) {
			t.Fatalf("Check(%q) tables = %#v, want %#v", tt.sql, stmt.Tables, tt.tables)
		}
	}
}

func TestCheckAcceptsCannedReportTemplates(t *testing.T) {
	schema, err := knowledge.Lookup("investment")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	guard := New(Config{KnownTables: schema.TableNames()})
	for _, tmpl := range schema.Templates() {
		sql, err := tmpl.Instantiate("JP")
		if err != nil {
			t.Fatalf("Instantiate() error = %v", err)
		}
		if _, err := guard.Check(sql); err != nil {
			t.Fatalf("Check(%s) error = %v", tmpl.Name, err)
		}
	}
}

func TestCheckRejects(t *testing.T) {
	guard := investmentGuard(t, false)
	tests := []struct {
		sql    string
		reason Reason
	}{
		{"", ReasonEmpty},
		{" ;; ", ReasonEmpty},
		{"SELECT 'open", ReasonUnterminated},
		{"SELECT 1 /* open", ReasonUnterminated},
		{"SELECT [File_No FROM ANNUAT2024", ReasonUnterminated},
		{"SELECT 1; SELECT 2", ReasonMultipleStatements},
		{"SELECT * FROM ANNUAT2024; DROP TABLE ANNUAT2024", ReasonMultipleStatements},
		{"DELETE FROM General_Project_Detail", ReasonMutation},
		{"update ANNUAT2024 set Exports_2024 = 0", ReasonMutation},
		{"WITH x AS (SELECT 1 AS n) DELETE FROM ANNUAT2024", ReasonMutation},
		{"DROP TABLE ANNUAT2024", ReasonDDL},
		{"truncate table ANNUAT2024", ReasonDDL},
		{"EXEC xp_cmdshell 'dir'", ReasonUnsupportedVerb},
		{"GRANT SELECT ON ANNUAT2024 TO public", ReasonUnsupportedVerb},
		{"(1)", ReasonUnsupportedVerb},
		{"SELECT * INTO backup_copy FROM ANNUAT2024", ReasonSelectInto},
		{"SELECT * FROM sys.sql_logins", ReasonUnknownTable},
		{"SELECT * FROM ANNUAT2024 a JOIN Users u ON a.File_No = u.Id", ReasonUnknownTable},
		{"SELECT * FROM read_parquet('s3://bucket/x.parquet')", ReasonTableFunction},
		{"SELECT * FROM OPENROWSET('SQLNCLI', 'Server=x;', 'SELECT 1')", ReasonTableFunction},
		{"SELECT 1 AS n DELETE FROM General_Project_Detail", ReasonMutation},
		{"SELECT TOP 1 * FROM ANNUAT2024 UPDATE ANNUAT2024 SET YEAR = 0", ReasonMutation},
		{"WITH gone AS (DELETE FROM General_Project_Detail RETURNING *) SELECT COUNT(*) FROM gone", ReasonMutation},
		{"WITH g AS (UPDATE ANNUAT2024 SET YEAR = 0 RETURNING *) SELECT * FROM g", ReasonMutation},
		{"SELECT * FROM ANNUAT2024 FOR UPDATE", ReasonMutation},
		{"SELECT COUNT(*) FROM ANNUAT2024 SELECT COUNT(*) FROM General_Project_Detail", ReasonMultipleStatements},
		{"(SELECT 1) SELECT 2", ReasonMultipleStatements},
		{"SELECT 1 SET ROWCOUNT 0", ReasonMultipleStatements},
		{"SELECT * FROM ANNUAT2024 DROP TABLE ANNUAT2024", ReasonDDL},
		{"SELECT 1 EXEC xp_cmdshell 'dir'", ReasonUnsupportedVerb},
		{"SELECT 1 EXEC('DELETE FROM ANNUAT2024')", ReasonUnsupportedVerb},
		{"SELECT ARRAY(SELECT passwd FROM pg_shadow) AS p", ReasonUnknownTable},
		{"SELECT COALESCE((SELECT MAX(x) FROM secrets), 0)", ReasonUnknownTable},
	}
	for _, tt := range tests {
		_, err := guard.Check(tt.sql)
		var rejection *RejectionError
		if !errors.As(err, &rejection) {
			t.Fatalf("Check(%q) error = %v, want rejection", tt.sql, err)
		}
		if rejection.Reason != tt.reason {
			t.Fatalf("Check(%q) reason = %q, want %q", tt.sql, rejection.Reason, tt.reason)
		}
	}
}

func TestCheckAllowsDMLWhenConfigured(t *testing.T) {
	guard := investmentGuard(t, true)
	stmt, err := guard.Check("INSERT INTO ANNUAT2024 (File_No, Exports_2024) VALUES ('F1', 10)")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if stmt.Verb != "INSERT" || stmt.Kind != query.KindMutation {
		t.Fatalf("stmt = %+v", stmt)
	}
	if !reflect.DeepEqual(stmt.Tables, []string{"ANNUAT2024"}) {
		t.Fatalf("tables = %#v", stmt.Tables)
	}
	if _, err := guard.Check("DROP TABLE ANNUAT2024"); err == nil {
		t.Fatal("Check() accepted DDL with mutations allowed")
	}
	if _, err := guard.Check("UPDATE Unknown SET x = 1"); err == nil {
		t.Fatal("Check() accepted mutation on an unknown table")
	}
}

func TestCheckAcceptsSetOperationsAndSubqueryCalls(t *testing.T) {
	guard := investmentGuard(t, false)
	tests := []struct {
		sql    string
		tables []string
	}{
		{
			"SELECT File_No FROM ANNUAT2024 UNION ALL SELECT File_No FROM General_Project_Detail",
			[]string{"ANNUAT2024", "General_Project_Detail"},
		},
		{
			"SELECT File_No FROM ANNUAT2024 EXCEPT SELECT File_No FROM ShareHolders_Country",
			[]string{"ANNUAT2024", "ShareHolders_Country"},
		},
		{
			"SELECT ARRAY(SELECT File_No FROM ANNUAT2024) AS files",
			[]string{"ANNUAT2024"},
		},
		{
			"SELECT g.Project_Name AS comment, g.Status AS [delete] FROM General_Project_Detail g",
			[]string{"General_Project_Detail"},
		},
	}
	for _, tt := range tests {
		stmt, err := guard.Check(tt.sql)
		if err != nil {
			t.Fatalf("Check(%q) error = %v", tt.sql, err)
		}
		if stmt.Kind != query.KindRead {
			t.Fatalf("Check(%q) kind = %q", tt.sql, stmt.Kind)
		}
		if !reflect.DeepEqual(stmt.Tables, tt.tables) {
			t.Fatalf("Check(%q) tables = %#v, want %#v", tt.sql, stmt.Tables, tt.tables)
		}
	}
}

func TestCheckBatchesWithMutationsAllowed(t *testing.T) {
	guard := investmentGuard(t, true)

	accepted := []struct {
		sql  string
		verb string
	}{
		{"INSERT INTO ANNUAT2024 (File_No) SELECT File_No FROM General_Project_Detail", "INSERT"},
		{"INSERT INTO ANNUAT2024 (File_No) SELECT File_No FROM General_Project_Detail UNION SELECT File_No FROM ShareHolders_Country", "INSERT"},
		{"WITH src AS (SELECT File_No FROM General_Project_Detail) INSERT INTO ANNUAT2024 (File_No) SELECT File_No FROM src", "INSERT"},
		{"MERGE INTO ANNUAT2024 t USING General_Project_Detail s ON t.File_No = s.File_No WHEN MATCHED THEN UPDATE SET t.YEAR = 2024 WHEN NOT MATCHED THEN INSERT (File_No) VALUES (s.File_No)", "MERGE"},
		{"WITH g AS (UPDATE ANNUAT2024 SET YEAR = 0 RETURNING *) SELECT * FROM g", "SELECT"},
	}
	for _, tt := range accepted {
		stmt, err := guard.Check(tt.sql)
		if err != nil {
			t.Fatalf("Check(%q) error = %v", tt.sql, err)
		}
		if stmt.Verb != tt.verb || stmt.Kind != query.KindMutation {
			t.Fatalf("Check(%q) = %+v, want verb %s kind mutation", tt.sql, stmt, tt.verb)
		}
	}

	rejected := []string{
		"UPDATE ANNUAT2024 SET YEAR = 0 DELETE FROM General_Project_Detail",
		"DELETE FROM ANNUAT2024 SELECT * FROM General_Project_Detail",
		"INSERT INTO ANNUAT2024 (File_No) VALUES ('F1') SELECT 1",
		"SELECT 1 AS n DELETE FROM General_Project_Detail",
	}
	for _, sql := range rejected {
		_, err := guard.Check(sql)
		var rejection *RejectionError
		if !errors.As(err, &rejection) || rejection.Reason != ReasonMultipleStatements {
			t.Fatalf("Check(%q) error = %v, want %s", sql, err, ReasonMultipleStatements)
		}
	}

	stmt, err := guard.Check("SELECT * FROM ANNUAT2024 FOR UPDATE")
	if err != nil {
		t.Fatalf("Check(FOR UPDATE) error = %v", err)
	}
	if stmt.Kind != query.KindRead {
		t.Fatalf("FOR UPDATE kind = %q, want read", stmt.Kind)
	}
}

func TestCheckWithoutTableEnforcement(t *testing.T) {
	guard := New(Config{})
	stmt, err := guard.Check("SELECT * FROM read_parquet('x.parquet') JOIN anything ON true")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !reflect.DeepEqual(stmt.Tables, []string{"anything", "read_parquet"}) {
		t.Fatalf("tables = %#v", stmt.Tables)
	}
}

func TestTokenizeHandlesEscapes(t *testing.T) {
	tokens, rejection := tokenize(`SELECT 'it''s', [a]]b], "q""x" -- trailing`)
	if rejection != nil {
		t.Fatalf("tokenize() rejection = %v", rejection)
	}
	want := []token{
		{kind: tokenWord, text: "SELECT"},
		{kind: tokenString, text: "'it''s'"},
		{kind: tokenPunct, text: ","},
		{kind: tokenQuotedIdent, text: "a]b"},
		{kind: tokenPunct, text: ","},
		{kind: tokenQuotedIdent, text: `q"x`},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokens = %#v", tokens)
	}
}
