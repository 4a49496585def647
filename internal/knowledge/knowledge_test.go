package knowledge

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupBuiltins(t *testing.T) {
	for _, name := range Datasets() {
		schema, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", name, err)
		}
		if schema.Name() != name {
			t.Fatalf("Name() = %q, want %q", schema.Name(), name)
		}
		if len(schema.TableNames()) == 0 {
			t.Fatalf("%s has no tables", name)
		}
		if len(schema.QuickStats()) == 0 {
			t.Fatalf("%s has no quick stats", name)
		}
	}
	if _, err := Lookup("payroll"); !errors.Is(err, ErrUnknownDataset) {
		t.Fatalf("Lookup(payroll) error = %v, want ErrUnknownDataset", err)
	}
}

func TestRenderIncludesTablesRelationshipsAndTemplatesVerbatim(t *testing.T) {
	schema, err := Lookup("investment")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	text := schema.Render()
	for _, want := range []string{
		"General_Project_Detail",
		"ShareHolders_Country",
		"ANNUAT2024",
		"ANNUAT2024.REFNO -> General_Project_Detail.Reference_Number",
		"- E1: In Commercial Operation",
		"- LK: Sri Lanka (domestic investors)",
		"ALWAYS USE LEFT OUTER JOIN",
		`"Country Report for [Country_Name]"`,
		`"Summary Report for [Country_Name]"`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("Render() missing %q", want)
		}
	}
	for _, tmpl := range schema.Templates() {
		if !strings.Contains(text, strings.TrimSpace(tmpl.SQL)) {
			t.Fatalf("Render() does not embed template %s verbatim", tmpl.Name)
		}
	}
	if schema.Render() != text {
		t.Fatal("Render() is not stable")
	}
}

func TestSchemaAccessorsReturnCopies(t *testing.T) {
	schema, err := Lookup("library")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	tables := schema.Tables()
	tables[0].Name = "Mutated"
	tables[0].Columns[0].Name = "Mutated"
	rules := schema.Rules()
	rules[0] = "mutated"

	again := schema.Tables()
	if again[0].Name != "Authors" || again[0].Columns[0].Name != "AuthorID" {
		t.Fatalf("Tables() leaked internal state: %+v", again[0])
	}
	if schema.Rules()[0] == "mutated" {
		t.Fatal("Rules() leaked internal state")
	}
	if strings.Contains(schema.Render(), "Mutated") {
		t.Fatal("Render() reflects caller mutation")
	}
}

func TestTemplateInstantiate(t *testing.T) {
	schema, err := Lookup("investment")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	tmpl, ok := schema.Template("summary report")
	if !ok {
		t.Fatal("Template(summary report) not found")
	}
	sql, err := tmpl.Instantiate("JP")
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	if strings.Contains(sql, countryPlaceholder) {
		t.Fatal("Instantiate() left the placeholder in place")
	}
	if !strings.Contains(sql, "'JP' IN (") {
		t.Fatalf("Instantiate() did not substitute the country code")
	}
	quoted, err := tmpl.Instantiate("O'X")
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	if !strings.Contains(quoted, "'O''X' IN (") {
		t.Fatal("Instantiate() did not escape quotes")
	}
	if _, err := tmpl.Instantiate("  "); err == nil {
		t.Fatal("Instantiate() expected error for empty value")
	}
}

func TestNewValidatesDefinition(t *testing.T) {
	cases := []Definition{
		{},
		{Name: "x"},
		{Name: "x", Tables: []Table{{Name: "A"}, {Name: "a"}}},
		{Name: "x", Tables: []Table{{Name: "A"}}, Relationships: []Relationship{{FromTable: "A", ToTable: "B"}}},
		{Name: "x", Tables: []Table{{Name: "A"}}, Templates: []ReportTemplate{{Name: "t", Placeholder: "@p", SQL: "SELECT 1"}}},
	}
	for i, def := range cases {
		if _, err := New(def); err == nil {
			t.Fatalf("case %d: New() expected error", i)
		}
	}
}

func TestWithDialectKeepsContent(t *testing.T) {
	schema, err := Lookup("investment")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	duck := schema.WithDialect(DialectDuckDB)
	if duck.Dialect() != DialectDuckDB || schema.Dialect() != DialectSQLServer {
		t.Fatalf("dialects = %s / %s", duck.Dialect(), schema.Dialect())
	}
	if duck.Render() != schema.Render() {
		t.Fatal("WithDialect() changed the rendered schema")
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{"sqlserver": DialectSQLServer, "MSSQL": DialectSQLServer, "pgx": DialectPostgres, "duckdb": DialectDuckDB}
	for raw, want := range cases {
		got, err := ParseDialect(raw)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Fatal("ParseDialect(oracle) expected error")
	}
}
