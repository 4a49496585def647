// Package sqlguard is the gate between generated query text and the database: it accepts a
// single read statement over known tables and rejects everything else.
package sqlguard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query"
)

type Reason string

const (
	ReasonEmpty              Reason = "empty"
	ReasonUnterminated       Reason = "unterminated"
	ReasonMultipleStatements Reason = "multiple_statements"
	ReasonMutation           Reason = "mutation"
	ReasonDDL                Reason = "ddl"
	ReasonUnsupportedVerb    Reason = "unsupported_verb"
	ReasonSelectInto         Reason = "select_into"
	ReasonUnknownTable       Reason = "unknown_table"
	ReasonTableFunction      Reason = "table_function"
)

type RejectionError struct {
	Reason Reason
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("query rejected (%s): %s", e.Reason, e.Detail)
}

func reject(reason Reason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Statement is what the guard learned about an accepted query.
type Statement struct {
	Verb   string     `json:"verb"`
	Kind   query.Kind `json:"kind"`
	Tables []string   `json:"tables"`
}

type Config struct {
	// AllowMutations admits INSERT, UPDATE, DELETE and MERGE. DDL is never admitted.
	AllowMutations bool
	// KnownTables, when non-empty, is the allow list of table names (case-insensitive).
	KnownTables []string
}

type Guard struct {
	allowMutations bool
	known          map[string]struct{}
}

func New(cfg Config) *Guard {
	g := &Guard{allowMutations: cfg.AllowMutations}
	if len(cfg.KnownTables) > 0 {
		g.known = make(map[string]struct{}, len(cfg.KnownTables))
		for _, name := range cfg.KnownTables {
			g.known[strings.ToLower(name)] = struct{}{}
		}
	}
	return g
}

var (
	dmlVerbs = map[string]struct{}{"INSERT": {}, "UPDATE": {}, "DELETE": {}, "MERGE": {}}
	ddlVerbs = map[string]struct{}{
		"CREATE": {}, "ALTER": {}, "DROP": {}, "TRUNCATE": {}, "RENAME": {}, "COMMENT": {},
	}
	// commandVerbs start statements that are never admitted, wherever they appear.
	commandVerbs = map[string]struct{}{
		"EXEC": {}, "EXECUTE": {}, "CALL": {}, "GRANT": {}, "REVOKE": {}, "DENY": {},
		"COPY": {}, "ATTACH": {}, "DETACH": {}, "INSTALL": {}, "LOAD": {}, "PRAGMA": {},
		"VACUUM": {}, "CHECKPOINT": {}, "BACKUP": {}, "RESTORE": {}, "SHUTDOWN": {},
		"DBCC": {}, "DECLARE": {}, "USE": {}, "BEGIN": {}, "COMMIT": {}, "ROLLBACK": {},
		"KILL": {}, "WAITFOR": {}, "RECONFIGURE": {}, "PREPARE": {}, "DEALLOCATE": {},
	}
	// continuations may precede a verb that belongs to the same statement.
	continuations = map[string]struct{}{
		"UNION": {}, "ALL": {}, "DISTINCT": {}, "EXCEPT": {}, "INTERSECT": {}, "MINUS": {},
		"THEN": {}, "DO": {}, "KEY": {},
	}
)

// Check validates sql and reports the statement verb, kind and referenced tables.
func (g *Guard) Check(sql string) (Statement, error) {
	stmt, rejection := g.check(sql)
	if rejection != nil {
		observability.IncrementGuardRejection(string(rejection.Reason))
		return Statement{}, rejection
	}
	return stmt, nil
}

func (g *Guard) check(sql string) (Statement, *RejectionError) {
	tokens, rejection := tokenize(sql)
	if rejection != nil {
		return Statement{}, rejection
	}
	tokens = trimTrailingSemicolons(tokens)
	if len(tokens) == 0 {
		return Statement{}, reject(ReasonEmpty, "no statement text")
	}
	for _, tok := range tokens {
		if tok.isPunct(";") {
			return Statement{}, reject(ReasonMultipleStatements, "only one statement may be executed")
		}
	}

	verb, verbAt, ctes := effectiveVerb(tokens)
	stmt := Statement{Verb: verb, Kind: query.KindMutation}
	switch {
	case verb == "SELECT":
		stmt.Kind = query.KindRead
		if hasTopLevelInto(tokens) {
			return Statement{}, reject(ReasonSelectInto, "SELECT ... INTO creates a table")
		}
	case isIn(verb, dmlVerbs):
		if !g.allowMutations {
			return Statement{}, reject(ReasonMutation, "%s statements are not allowed", verb)
		}
	case isIn(verb, ddlVerbs):
		return Statement{}, reject(ReasonDDL, "%s statements are not allowed", verb)
	case verb == "":
		return Statement{}, reject(ReasonUnsupportedVerb, "statement does not start with a keyword")
	default:
		return Statement{}, reject(ReasonUnsupportedVerb, "%s statements are not allowed", verb)
	}

	mutating, rejection := g.checkBatch(tokens, verbAt)
	if rejection != nil {
		return Statement{}, rejection
	}
	if mutating {
		stmt.Kind = query.KindMutation
	}

	refs := tableRefs(tokens)
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		key := strings.ToLower(ref.name)
		if _, isCTE := ctes[key]; isCTE && !ref.call {
			continue
		}
		if g.known != nil {
			if ref.call {
				return Statement{}, reject(ReasonTableFunction, "table function %s is not allowed", ref.name)
			}
			if _, ok := g.known[key]; !ok {
				return Statement{}, reject(ReasonUnknownTable, "table %s is not part of the schema", ref.name)
			}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		stmt.Tables = append(stmt.Tables, ref.name)
	}
	sort.Strings(stmt.Tables)
	return stmt, nil
}

func trimTrailingSemicolons(tokens []token) []token {
	for len(tokens) > 0 && tokens[len(tokens)-1].isPunct(";") {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// effectiveVerb returns the statement verb and its index, looking past a WITH prelude, and the
// CTE names the prelude defines. The index is -1 when no verb was found.
func effectiveVerb(tokens []token) (string, int, map[string]struct{}) {
	ctes := map[string]struct{}{}
	i := 0
	for i < len(tokens) && tokens[i].isPunct("(") {
		i++
	}
	if i >= len(tokens) {
		return "", -1, ctes
	}
	if tokens[i].upper() != "WITH" {
		return tokens[i].upper(), i, ctes
	}
	i++
	if i < len(tokens) && tokens[i].upper() == "RECURSIVE" {
		i++
	}
	for i < len(tokens) {
		if !tokens[i].isName() {
			return "", -1, ctes
		}
		ctes[strings.ToLower(tokens[i].text)] = struct{}{}
		i++
		if i < len(tokens) && tokens[i].isPunct("(") {
			i = skipParens(tokens, i)
		}
		if i >= len(tokens) || tokens[i].upper() != "AS" {
			return "", -1, ctes
		}
		i++
		if i < len(tokens) && tokens[i].upper() == "NOT" {
			i++
		}
		if i < len(tokens) && tokens[i].upper() == "MATERIALIZED" {
			i++
		}
		if i >= len(tokens) || !tokens[i].isPunct("(") {
			return "", -1, ctes
		}
		i = skipParens(tokens, i)
		if i < len(tokens) && tokens[i].isPunct(",") {
			i++
			continue
		}
		break
	}
	for i < len(tokens) && tokens[i].isPunct("(") {
		i++
	}
	if i >= len(tokens) {
		return "", -1, ctes
	}
	return tokens[i].upper(), i, ctes
}

// checkBatch scans every keyword other than the statement verb at verbAt. A verb that starts
// a second statement is rejected even without a separator, and so is DML anywhere, CTE bodies
// included, while mutations are off. mutating reports DML nested inside the statement.
func (g *Guard) checkBatch(tokens []token, verbAt int) (mutating bool, rejection *RejectionError) {
	mainVerb := tokens[verbAt].upper()
	mutationStmt := isIn(mainVerb, dmlVerbs)
	pendingInsertSelect := mainVerb == "INSERT"
	depth := 0
	for i, tok := range tokens {
		switch {
		case tok.isPunct("("):
			depth++
			continue
		case tok.isPunct(")"):
			depth--
			continue
		}
		if i == verbAt || tok.kind != tokenWord {
			continue
		}
		if i > 0 && (tokens[i-1].isPunct(".") || tokens[i-1].upper() == "AS") {
			// qualified column or alias
			continue
		}
		kw := tok.upper()
		switch {
		case isIn(kw, ddlVerbs):
			return false, reject(ReasonDDL, "%s statements are not allowed", kw)
		case isIn(kw, commandVerbs):
			return false, reject(ReasonUnsupportedVerb, "%s statements are not allowed", kw)
		case isIn(kw, dmlVerbs):
			locking := i > 0 && tokens[i-1].upper() == "FOR"
			if !g.allowMutations {
				return false, reject(ReasonMutation, "%s statements are not allowed", kw)
			}
			if depth == 0 && !locking && !continues(tokens, i) {
				return false, reject(ReasonMultipleStatements, "%s starts a second statement", kw)
			}
			if !locking {
				mutating = true
			}
		case kw == "VALUES" && depth == 0:
			pendingInsertSelect = false
		case kw == "SET":
			if !mutationStmt && !mutating {
				return false, reject(ReasonMultipleStatements, "SET starts a second statement")
			}
		case kw == "SELECT" && depth == 0:
			if continues(tokens, i) {
				continue
			}
			if pendingInsertSelect {
				pendingInsertSelect = false
				continue
			}
			return false, reject(ReasonMultipleStatements, "only one statement may be executed")
		}
	}
	return mutating, nil
}

func continues(tokens []token, i int) bool {
	if i == 0 {
		return false
	}
	prev := tokens[i-1].upper()
	if prev == "KEY" {
		// ON DUPLICATE KEY UPDATE
		return i >= 2 && tokens[i-2].upper() == "DUPLICATE"
	}
	_, ok := continuations[prev]
	return ok
}

// skipParens returns the index just past the parenthesis group opening at open.
func skipParens(tokens []token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch {
		case tokens[i].isPunct("("):
			depth++
		case tokens[i].isPunct(")"):
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(tokens)
}

func hasTopLevelInto(tokens []token) bool {
	calls := callStack(tokens)
	for i, tok := range tokens {
		if tok.upper() == "INTO" && !calls[i] {
			return true
		}
	}
	return false
}

// callStack marks, for each token, whether its innermost enclosing parenthesis is a function call.
func callStack(tokens []token) []bool {
	inCall := make([]bool, len(tokens))
	var stack []bool
	for i, tok := range tokens {
		if len(stack) > 0 {
			inCall[i] = stack[len(stack)-1]
		}
		switch {
		case tok.isPunct("("):
			stack = append(stack, i > 0 && isCallee(tokens[i-1]) && !opensSubquery(tokens, i))
		case tok.isPunct(")"):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return inCall
}

// opensSubquery reports a parenthesis whose body is a query, as in ARRAY(SELECT ...).
func opensSubquery(tokens []token, open int) bool {
	if open+1 >= len(tokens) {
		return false
	}
	switch tokens[open+1].upper() {
	case "SELECT", "WITH":
		return true
	}
	return false
}

func isCallee(tok token) bool {
	if tok.kind == tokenQuotedIdent {
		return true
	}
	if tok.kind != tokenWord {
		return false
	}
	_, keyword := nonCalleeKeywords[tok.upper()]
	return !keyword
}

var nonCalleeKeywords = map[string]struct{}{
	"FROM": {}, "JOIN": {}, "IN": {}, "EXISTS": {}, "AS": {}, "ON": {}, "AND": {}, "OR": {},
	"NOT": {}, "WHERE": {}, "SELECT": {}, "UNION": {}, "ALL": {}, "ANY": {}, "SOME": {},
	"VALUES": {}, "INTO": {}, "APPLY": {}, "LATERAL": {}, "USING": {}, "HAVING": {},
	"WHEN": {}, "THEN": {}, "ELSE": {}, "EXCEPT": {}, "INTERSECT": {}, "BY": {}, "MATERIALIZED": {},
	"WITH": {}, "SET": {}, "DISTINCT": {}, "TOP": {}, "IS": {}, "LIKE": {}, "BETWEEN": {},
	"RETURN": {}, "CASE": {}, "TABLE": {},
}

// tableRef is a name appearing in table position; call is set for table-valued functions.
type tableRef struct {
	name string
	call bool
}

var aliasStop = map[string]struct{}{
	"ON": {}, "WHERE": {}, "GROUP": {}, "ORDER": {}, "LEFT": {}, "RIGHT": {}, "INNER": {},
	"OUTER": {}, "FULL": {}, "CROSS": {}, "JOIN": {}, "UNION": {}, "EXCEPT": {}, "INTERSECT": {},
	"HAVING": {}, "LIMIT": {}, "OFFSET": {}, "FETCH": {}, "SET": {}, "USING": {}, "WITH": {},
	"WINDOW": {}, "QUALIFY": {}, "NATURAL": {}, "VALUES": {}, "SELECT": {}, "OUTPUT": {},
	"WHEN": {}, "FOR": {}, "OPTION": {}, "RETURNING": {}, "DEFAULT": {},
	"OF": {}, "NOWAIT": {}, "SKIP": {}, "PIVOT": {}, "UNPIVOT": {}, "TABLESAMPLE": {},
}

// tableRefs collects names that follow FROM, JOIN, UPDATE, INTO, USING and APPLY anywhere in
// the statement, including subqueries. FROM inside a function call (EXTRACT, SUBSTRING, TRIM)
// is skipped.
func tableRefs(tokens []token) []tableRef {
	calls := callStack(tokens)
	var refs []tableRef
	for i := 0; i < len(tokens); i++ {
		switch kw := tokens[i].upper(); kw {
		case "FROM":
			if !calls[i] {
				readRefList(tokens, i+1, &refs)
			}
		case "JOIN", "UPDATE", "INTO", "USING", "APPLY":
			if kw == "USING" && i+1 < len(tokens) && tokens[i+1].isPunct("(") {
				// JOIN ... USING (col)
				continue
			}
			if _, ref, ok := readRef(tokens, i+1, kw == "INTO"); ok {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// readRefList reads a comma-separated FROM list.
func readRefList(tokens []token, i int, refs *[]tableRef) {
	for {
		if i < len(tokens) && tokens[i].isPunct("(") {
			// derived table; its own FROM clauses are visited by the caller
			i = skipAlias(tokens, skipParens(tokens, i))
			if i < len(tokens) && tokens[i].isPunct(",") {
				i++
				continue
			}
			return
		}
		next, ref, ok := readRef(tokens, i, false)
		if !ok {
			return
		}
		*refs = append(*refs, ref)
		i = skipAlias(tokens, next)
		if i < len(tokens) && tokens[i].isPunct(",") {
			i++
			continue
		}
		return
	}
}

// readRef reads a possibly dotted name starting at i and returns the index after it. A
// parenthesis after the name is a column list when columnList is set, else a function call.
func readRef(tokens []token, i int, columnList bool) (int, tableRef, bool) {
	if i < len(tokens) && tokens[i].upper() == "ONLY" {
		i++
	}
	if i >= len(tokens) || !tokens[i].isName() {
		return i, tableRef{}, false
	}
	if _, stop := aliasStop[tokens[i].upper()]; stop && tokens[i].kind == tokenWord {
		return i, tableRef{}, false
	}
	name := tokens[i].text
	i++
	for i+1 < len(tokens) && tokens[i].isPunct(".") {
		if tokens[i+1].isName() {
			name = tokens[i+1].text
			i += 2
			continue
		}
		// db..table
		if tokens[i+1].isPunct(".") {
			i++
			continue
		}
		break
	}
	if i < len(tokens) && tokens[i].isPunct("(") && !columnList {
		return skipParens(tokens, i), tableRef{name: name, call: true}, true
	}
	return i, tableRef{name: name}, true
}

func skipAlias(tokens []token, i int) int {
	if i < len(tokens) && tokens[i].upper() == "AS" {
		i++
	}
	if i < len(tokens) && tokens[i].isName() {
		if _, stop := aliasStop[tokens[i].upper()]; !stop || tokens[i].kind == tokenQuotedIdent {
			i++
		}
	}
	// table hints: WITH (NOLOCK)
	if i+1 < len(tokens) && tokens[i].upper() == "WITH" && tokens[i+1].isPunct("(") {
		i = skipParens(tokens, i+1)
	}
	return i
}

func isIn(verb string, set map[string]struct{}) bool {
	_, ok := set[verb]
	return ok
}
