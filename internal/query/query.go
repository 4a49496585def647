package query

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Kind string

const (
	// KindRead statements produce a result table.
	KindRead Kind = "read"
	// KindMutation covers DML, DDL and anything else that does not produce rows.
	KindMutation Kind = "mutation"
)

// Table is a query result: column names exactly as reported by the database, and rows of
// heterogeneous cell values (string, int64, float64, bool, time.Time, nil).
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Values returns column i across all rows.
func (t *Table) Values(i int) []any {
	if t == nil || i < 0 || i >= len(t.Columns) {
		return nil
	}
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			values = append(values, row[i])
		} else {
			values = append(values, nil)
		}
	}
	return values
}

// Head returns a table holding at most n leading rows.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return nil
	}
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

type Result struct {
	Kind         Kind          `json:"kind"`
	Table        *Table        `json:"table,omitempty"`
	RowsAffected int64         `json:"rows_affected,omitempty"`
	Message      string        `json:"message,omitempty"`
	Truncated    bool          `json:"truncated,omitempty"`
	Duration     time.Duration `json:"-"`
}

type Executor interface {
	Execute(ctx context.Context, sql string) (Result, error)
}

// Classify decides whether sql produces rows from its verb, looking past leading comments,
// parentheses and a WITH prelude. SELECT produces rows and everything else is a mutation. A
// CTE body that starts with INSERT, UPDATE, DELETE or MERGE makes the statement a mutation.
func Classify(sql string) Kind {
	words := scanWords(sql)
	if len(words) == 0 {
		return KindMutation
	}
	if words[0].text != "WITH" {
		return kindOf(words[0].text)
	}
	base := words[0].depth
	for _, w := range words[1:] {
		if w.afterOpen && isDML(w.text) {
			return KindMutation
		}
		if w.depth != base {
			continue
		}
		switch w.text {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "MERGE":
			return kindOf(w.text)
		}
	}
	return KindRead
}

// FirstKeyword returns the upper-cased first word of sql.
func FirstKeyword(sql string) string {
	words := scanWords(sql)
	if len(words) == 0 {
		return ""
	}
	return words[0].text
}

func kindOf(verb string) Kind {
	if verb == "SELECT" {
		return KindRead
	}
	return KindMutation
}

func isDML(word string) bool {
	switch word {
	case "INSERT", "UPDATE", "DELETE", "MERGE":
		return true
	}
	return false
}

// word is a bare upper-cased word with its parenthesis depth; afterOpen marks the first token
// inside a parenthesis.
type word struct {
	text      string
	depth     int
	afterOpen bool
}

// scanWords lists the bare words of sql, skipping comments, literals and quoted identifiers.
// Scanning stops at an unterminated comment or quote.
func scanWords(sql string) []word {
	var (
		words     []word
		depth     int
		afterOpen bool
	)
	rest := sql
	for rest != "" {
		r := rest[0]
		switch {
		case strings.HasPrefix(rest, "--"):
			_, after, found := strings.Cut(rest, "\n")
			if !found {
				return words
			}
			rest = after
		case strings.HasPrefix(rest, "/*"):
			_, after, found := strings.Cut(rest[2:], "*/")
			if !found {
				return words
			}
			rest = after
		case r == '\'' || r == '"' || r == '`' || r == '[':
			closing := r
			if r == '[' {
				closing = ']'
			}
			end := strings.IndexByte(rest[1:], closing)
			if end < 0 {
				return words
			}
			// doubled quotes scan as two adjacent literals
			rest = rest[end+2:]
			afterOpen = false
		case r == '(':
			depth++
			afterOpen = true
			rest = rest[1:]
		case r == ')':
			depth--
			afterOpen = false
			rest = rest[1:]
		case isWordByte(r):
			end := strings.IndexFunc(rest, func(c rune) bool {
				return !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_')
			})
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				// non-ASCII punctuation
				_, size := utf8.DecodeRuneInString(rest)
				rest = rest[size:]
				continue
			}
			words = append(words, word{text: strings.ToUpper(rest[:end]), depth: depth, afterOpen: afterOpen})
			afterOpen = false
			rest = rest[end:]
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
			rest = rest[1:]
		default:
			afterOpen = false
			rest = rest[1:]
		}
	}
	return words
}

func isWordByte(b byte) bool {
	return b >= utf8.RuneSelf || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
