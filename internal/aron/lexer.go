package aron

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
)

type TokenKind int

const (
	TokenKeyword TokenKind = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenOperator
	TokenComment
)

// Token is a lexeme positioned on a single line. Col and Len count UTF-16
// code units, the unit LSP clients use for positions.
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
	Len  int
}

// LexError is an unexpected character or an unterminated string.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Col+1, e.Msg)
}

var operators = []string{"==", "!=", "<=", ">=", "=", "<", ">", "(", ")", "+", "-", "*", "/"}

// Lex tokenizes src for editor features. It never stops at the first error:
// the offending rune is skipped and scanning resumes, so every problem in the
// document is reported. RTL marks and a byte order mark are ignored like
// whitespace.
func Lex(src string) ([]Token, []*LexError) {
	var (
		toks []Token
		errs []*LexError
	)
	for lineNo, line := range strings.Split(src, "\n") {
		lt, le := lexLine(lineNo, line)
		toks = append(toks, lt...)
		errs = append(errs, le...)
	}
	return toks, errs
}

func lexLine(lineNo int, line string) ([]Token, []*LexError) {
	var (
		toks []Token
		errs []*LexError
	)
	rs := []rune(line)
	col := func(i int) int { return utf16Len(rs[:i]) }
	emit := func(kind TokenKind, start, end int) {
		toks = append(toks, Token{
			Kind: kind,
			Text: string(rs[start:end]),
			Line: lineNo,
			Col:  col(start),
			Len:  utf16Len(rs[start:end]),
		})
	}

	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r) || r == '\u200f' || r == byteOrderMark:
			i++
		case r == '#':
			emit(TokenComment, i, len(rs))
			i = len(rs)
		case r == '"':
			end, ok := scanString(rs, i)
			if !ok {
				errs = append(errs, &LexError{
					Line: lineNo,
					Col:  col(i),
					Msg:  "unclosed string literal",
				})
			}
			emit(TokenString, i, end)
			i = end
		case isHebrewLetter(r):
			j := i + 1
			for j < len(rs) && (isHebrewLetter(rs[j]) || isDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			kind := TokenIdent
			if IsKeyword(string(rs[i:j])) {
				kind = TokenKeyword
			}
			emit(kind, i, j)
			i = j
		case isDigit(r):
			j := i + 1
			for j < len(rs) && isDigit(rs[j]) {
				j++
			}
			if j+1 < len(rs) && rs[j] == '.' && isDigit(rs[j+1]) {
				j += 2
				for j < len(rs) && isDigit(rs[j]) {
					j++
				}
			}
			emit(TokenNumber, i, j)
			i = j
		default:
			if op := matchOperator(rs[i:]); op != "" {
				n := len([]rune(op))
				emit(TokenOperator, i, i+n)
				i += n
				continue
			}
			errs = append(errs, &LexError{
				Line: lineNo,
				Col:  col(i),
				Msg:  fmt.Sprintf("unexpected character %q", r),
			})
			i++
		}
	}
	return toks, errs
}

// scanString returns the index just past the closing quote, or the end of
// the line when the string is not terminated.
func scanString(rs []rune, start int) (int, bool) {
	for i := start + 1; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return len(rs), false
}

func matchOperator(rs []rune) string {
	for _, op := range operators {
		if strings.HasPrefix(string(rs[:min(len(rs), 2)]), op) {
			return op
		}
	}
	return ""
}

func isHebrewLetter(r rune) bool {
	return unicode.Is(hebrewLetters, r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func utf16Len(rs []rune) int {
	return len(utf16.Encode(rs))
}
