package sqlguard

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenQuotedIdent
	tokenString
	tokenNumber
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
}

// upper returns the keyword form of a bare word; quoted identifiers never match keywords.
func (t token) upper() string {
	if t.kind != tokenWord {
		return ""
	}
	return strings.ToUpper(t.text)
}

func (t token) isPunct(p string) bool { return t.kind == tokenPunct && t.text == p }

func (t token) isName() bool { return t.kind == tokenWord || t.kind == tokenQuotedIdent }

// tokenize splits sql into words, quoted identifiers, literals and punctuation, dropping
// whitespace and comments. It fails on an unterminated literal, identifier or block comment.
func tokenize(sql string) ([]token, *RejectionError) {
	runes := []rune(sql)
	tokens := make([]token, 0, len(runes)/4)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			end := indexFrom(runes, i+2, "*/")
			if end < 0 {
				return nil, reject(ReasonUnterminated, "block comment is not closed")
			}
			i = end + 2
		case r == '\'':
			end, ok := scanQuoted(runes, i, '\'')
			if !ok {
				return nil, reject(ReasonUnterminated, "string literal is not closed")
			}
			tokens = append(tokens, token{kind: tokenString, text: string(runes[i : end+1])})
			i = end + 1
		case r == '"' || r == '`':
			end, ok := scanQuoted(runes, i, r)
			if !ok {
				return nil, reject(ReasonUnterminated, "quoted identifier is not closed")
			}
			tokens = append(tokens, token{kind: tokenQuotedIdent, text: unquote(runes[i+1:end], r)})
			i = end + 1
		case r == '[':
			end, ok := scanQuoted(runes, i, ']')
			if !ok {
				return nil, reject(ReasonUnterminated, "bracketed identifier is not closed")
			}
			tokens = append(tokens, token{kind: tokenQuotedIdent, text: unquote(runes[i+1:end], ']')})
			i = end + 1
		case isWordStart(r):
			start := i
			for i < len(runes) && isWordPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, text: string(runes[start:i])})
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.' || runes[i] == 'e' || runes[i] == 'E') {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i])})
		default:
			tokens = append(tokens, token{kind: tokenPunct, text: string(r)})
			i++
		}
	}
	return tokens, nil
}

// scanQuoted returns the index of the closing quote, treating a doubled quote as an escape.
func scanQuoted(runes []rune, open int, closing rune) (int, bool) {
	for i := open + 1; i < len(runes); i++ {
		if runes[i] != closing {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == closing {
			i++
			continue
		}
		return i, true
	}
	return 0, false
}

func unquote(body []rune, closing rune) string {
	doubled := string([]rune{closing, closing})
	return strings.ReplaceAll(string(body), doubled, string(closing))
}

func indexFrom(runes []rune, from int, needle string) int {
	idx := strings.Index(string(runes[from:]), needle)
	if idx < 0 {
		return -1
	}
	return from + len([]rune(string(runes[from:])[:idx]))
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '@' || r == '#' || r == '$'
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '@' || r == '#' || r == '$'
}
