package nl2sql

import (
	"fmt"
	"strings"

	"github.com/askdata/askdata/internal/knowledge"
)

// Compose builds the single instruction sent to the completion service. The output depends only
// on its inputs: framing, rendered schema, numbered rules, then the question.
func Compose(question string, schema *knowledge.Schema) string {
	dialect := dialectName(schema.Dialect())

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s assistant for %s.\n", dialect, schema.Domain())
	fmt.Fprintf(&b, "Convert the following natural language question into a %s query.\n\n", dialect)
	b.WriteString(schema.Render())
	b.WriteString("\nIMPORTANT RULES:\n")
	for i, rule := range Rules(schema) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n\nSQL Query:", strings.TrimSpace(question))
	return b.String()
}

// Rules returns the ordered generation rules for a schema: dialect syntax, join discipline,
// output format, then the schema's own business rules.
func Rules(schema *knowledge.Schema) []string {
	rules := append([]string(nil), dialectRules(schema.Dialect())...)
	rules = append(rules,
		"Use proper JOINs when querying multiple tables and follow the join rules in the schema notes",
		"Use only the tables and columns listed in the schema",
		"Produce exactly one statement",
		"Return ONLY the SQL query, nothing else",
	)
	return append(rules, schema.Rules()...)
}

func dialectName(dialect knowledge.Dialect) string {
	switch dialect {
	case knowledge.DialectPostgres:
		return "PostgreSQL"
	case knowledge.DialectDuckDB:
		return "DuckDB"
	default:
		return "SQL Server"
	}
}

func dialectRules(dialect knowledge.Dialect) []string {
	switch dialect {
	case knowledge.DialectPostgres:
		return []string{
			"Use PostgreSQL syntax",
			"Quote mixed-case or reserved identifiers with double quotes",
			"Use CURRENT_DATE or NOW() for current date/time",
			"Use LIMIT n to restrict the number of rows",
		}
	case knowledge.DialectDuckDB:
		return []string{
			"Use DuckDB SQL syntax (PostgreSQL-like)",
			"Quote reserved identifiers with double quotes",
			"Use current_date or now() for current date/time",
			"Use LIMIT n to restrict the number of rows",
		}
	default:
		return []string{
			"Use SQL Server syntax (no MySQL backticks)",
			"Use square brackets [ ] for reserved words if needed",
			"Use GETDATE() for current date/time",
			"For date comparisons, use proper SQL Server date functions",
			"Use TOP n to restrict the number of rows",
		}
	}
}
