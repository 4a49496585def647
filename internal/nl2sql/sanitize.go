package nl2sql

import "strings"

const fence = "```"

var fenceLanguages = map[string]struct{}{
	"sql": {}, "tsql": {}, "mssql": {}, "sqlserver": {}, "postgres": {}, "postgresql": {}, "pgsql": {}, "duckdb": {},
}

// Sanitize strips code-fence markers at the very start and very end of a completion and trims
// surrounding whitespace. Fences inside the text are left alone. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	out := strings.TrimSpace(raw)
	for {
		next := out
		if strings.HasPrefix(next, fence) {
			next = stripFenceLanguage(next[len(fence):])
		}
		if strings.HasSuffix(next, fence) {
			next = next[:len(next)-len(fence)]
		}
		next = strings.TrimSpace(next)
		if next == out {
			return out
		}
		out = next
	}
}

var statementKeywords = map[string]struct{}{
	"select": {}, "with": {}, "insert": {}, "update": {}, "delete": {}, "merge": {},
	"create": {}, "alter": {}, "drop": {}, "truncate": {}, "exec": {}, "execute": {},
}

// stripFenceLanguage drops the info string that follows an opening fence.
func stripFenceLanguage(rest string) string {
	line, remainder, hasNewline := strings.Cut(rest, "\n")
	info := strings.TrimSpace(line)
	if hasNewline && !strings.ContainsAny(info, " \t") {
		if _, isStatement := statementKeywords[strings.ToLower(info)]; !isStatement {
			return remainder
		}
		return rest
	}
	word, after, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	if _, ok := fenceLanguages[strings.ToLower(word)]; ok {
		if hasNewline {
			return after + "\n" + remainder
		}
		return after
	}
	return rest
}
