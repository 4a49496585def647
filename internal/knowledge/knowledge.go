// Package knowledge holds the static description of the databases questions are asked against:
// tables, column roles, relationships, code tables, business rules and canned report templates.
package knowledge

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownDataset = errors.New("unknown dataset")

type Dialect string

const (
	DialectSQLServer Dialect = "sqlserver"
	DialectPostgres  Dialect = "postgres"
	DialectDuckDB    Dialect = "duckdb"
)

func ParseDialect(raw string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(raw))) {
	case DialectSQLServer, "mssql", "sql server":
		return DialectSQLServer, nil
	case DialectPostgres, "postgresql", "pgx":
		return DialectPostgres, nil
	case DialectDuckDB:
		return DialectDuckDB, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", raw)
	}
}

// Role is the semantic role a column plays in the business domain.
type Role string

const (
	RoleIdentifier Role = "identifier"
	RoleReference  Role = "reference"
	RoleCode       Role = "code"
	RoleText       Role = "text"
	RoleDate       Role = "date"
	RoleAmount     Role = "amount"
	RoleCount      Role = "count"
	RoleRatio      Role = "ratio"
	RoleFlag       Role = "flag"
)

type Column struct {
	Name        string
	Role        Role
	Description string
}

type Table struct {
	Name    string
	Purpose string
	Columns []Column
}

type Relationship struct {
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
}

type Code struct {
	Code  string
	Label string
}

// CodeGroup names a business grouping of codes, e.g. the statuses that count as active.
type CodeGroup struct {
	Name        string
	Description string
	Codes       []string
}

type CodeTable struct {
	Name        string
	Column      string
	Description string
	Codes       []Code
	Groups      []CodeGroup
}

// ReportTemplate is a canned parameterized query the completion service is expected to reproduce
// when it recognizes one of the trigger phrases. Placeholder is the single substitution point.
type ReportTemplate struct {
	Name        string
	Triggers    []string
	Placeholder string
	Description string
	SQL         string
}

// Instantiate replaces every occurrence of the placeholder with value, quoting it as a SQL
// string literal body.
func (t ReportTemplate) Instantiate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("template %s: value is required", t.Name)
	}
	if t.Placeholder == "" || !strings.Contains(t.SQL, t.Placeholder) {
		return "", fmt.Errorf("template %s: no substitution point", t.Name)
	}
	return strings.ReplaceAll(t.SQL, t.Placeholder, strings.ReplaceAll(value, "'", "''")), nil
}

type QuickStat struct {
	Label string
	SQL   string
}

// Definition is the mutable input used to build a Schema.
type Definition struct {
	Name          string
	Title         string
	Database      string
	Domain        string
	Dialect       Dialect
	Tables        []Table
	Relationships []Relationship
	CodeTables    []CodeTable
	QueryPatterns []string
	Notes         []string
	Templates     []ReportTemplate
	Rules         []string
	Examples      []string
	QuickStats    []QuickStat
}

// Schema is an immutable snapshot of a Definition. Accessors return copies.
type Schema struct {
	def      Definition
	rendered string
}

func New(def Definition) (*Schema, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	if len(def.Tables) == 0 {
		return nil, fmt.Errorf("schema %s: at least one table is required", def.Name)
	}
	if def.Dialect == "" {
		def.Dialect = DialectSQLServer
	}
	seen := make(map[string]struct{}, len(def.Tables))
	for _, table := range def.Tables {
		key := strings.ToLower(table.Name)
		if key == "" {
			return nil, fmt.Errorf("schema %s: table name is required", def.Name)
		}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("schema %s: duplicate table %s", def.Name, table.Name)
		}
		seen[key] = struct{}{}
	}
	for _, rel := range def.Relationships {
		if _, ok := seen[strings.ToLower(rel.FromTable)]; !ok {
			return nil, fmt.Errorf("schema %s: relationship references unknown table %s", def.Name, rel.FromTable)
		}
		if _, ok := seen[strings.ToLower(rel.ToTable)]; !ok {
			return nil, fmt.Errorf("schema %s: relationship references unknown table %s", def.Name, rel.ToTable)
		}
	}
	for _, tmpl := range def.Templates {
		if tmpl.Placeholder == "" || !strings.Contains(tmpl.SQL, tmpl.Placeholder) {
			return nil, fmt.Errorf("schema %s: template %s has no substitution point", def.Name, tmpl.Name)
		}
	}
	s := &Schema{def: copyDefinition(def)}
	s.rendered = render(s.def)
	return s, nil
}

func (s *Schema) Name() string     { return s.def.Name }
func (s *Schema) Title() string    { return s.def.Title }
func (s *Schema) Database() string { return s.def.Database }
func (s *Schema) Domain() string   { return s.def.Domain }
func (s *Schema) Dialect() Dialect { return s.def.Dialect }

func (s *Schema) Tables() []Table {
	return copyDefinition(Definition{Tables: s.def.Tables}).Tables
}

func (s *Schema) Relationships() []Relationship {
	return append([]Relationship(nil), s.def.Relationships...)
}

func (s *Schema) CodeTables() []CodeTable {
	return copyDefinition(Definition{CodeTables: s.def.CodeTables}).CodeTables
}

func (s *Schema) Templates() []ReportTemplate {
	return copyDefinition(Definition{Templates: s.def.Templates}).Templates
}

func (s *Schema) Template(name string) (ReportTemplate, bool) {
	for _, tmpl := range s.Templates() {
		if strings.EqualFold(tmpl.Name, name) {
			return tmpl, true
		}
	}
	return ReportTemplate{}, false
}

func (s *Schema) Rules() []string    { return append([]string(nil), s.def.Rules...) }
func (s *Schema) Examples() []string { return append([]string(nil), s.def.Examples...) }
func (s *Schema) QuickStats() []QuickStat {
	return append([]QuickStat(nil), s.def.QuickStats...)
}

// TableNames returns the declared table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.def.Tables))
	for _, table := range s.def.Tables {
		names = append(names, table.Name)
	}
	return names
}

// Render is the single serialization of the schema used as prompt text.
func (s *Schema) Render() string { return s.rendered }

var builtins = map[string]func() Definition{
	"investment": investmentDefinition,
	"library":    libraryDefinition,
}

// Datasets lists the built-in dataset names.
func Datasets() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named built-in schema.
func Lookup(name string) (*Schema, error) {
	build, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return New(build())
}

// WithDialect returns a copy of the schema targeting another SQL dialect.
func (s *Schema) WithDialect(dialect Dialect) *Schema {
	def := copyDefinition(s.def)
	def.Dialect = dialect
	return &Schema{def: def, rendered: render(def)}
}

func copyDefinition(def Definition) Definition {
	out := def
	if def.Tables != nil {
		out.Tables = make([]Table, len(def.Tables))
		for i, table := range def.Tables {
			table.Columns = append([]Column(nil), table.Columns...)
			out.Tables[i] = table
		}
	}
	out.Relationships = append([]Relationship(nil), def.Relationships...)
	if def.CodeTables != nil {
		out.CodeTables = make([]CodeTable, len(def.CodeTables))
		for i, ct := range def.CodeTables {
			ct.Codes = append([]Code(nil), ct.Codes...)
			groups := make([]CodeGroup, len(ct.Groups))
			for j, group := range ct.Groups {
				group.Codes = append([]string(nil), group.Codes...)
				groups[j] = group
			}
			ct.Groups = groups
			out.CodeTables[i] = ct
		}
	}
	out.QueryPatterns = append([]string(nil), def.QueryPatterns...)
	out.Notes = append([]string(nil), def.Notes...)
	if def.Templates != nil {
		out.Templates = make([]ReportTemplate, len(def.Templates))
		for i, tmpl := range def.Templates {
			tmpl.Triggers = append([]string(nil), tmpl.Triggers...)
			out.Templates[i] = tmpl
		}
	}
	out.Rules = append([]string(nil), def.Rules...)
	out.Examples = append([]string(nil), def.Examples...)
	out.QuickStats = append([]QuickStat(nil), def.QuickStats...)
	return out
}
