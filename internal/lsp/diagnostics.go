package lsp

import (
	"fmt"
	"sort"

	"github.com/aron-lang/aron-lsp/internal/aron"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.lsp.dev/protocol"
)

const diagnosticSource = "aron-lsp"

// statementKeywords may start a statement; literals may not.
var statementKeywords = aron.WordsWithRole(aron.RoleStatement, aron.RoleBlockOpener, aron.RoleBlockCloser)

type openBlock struct {
	tok     aron.Token
	sawElse bool
}

func collectDiagnostics(text string) []protocol.Diagnostic {
	toks, lexErrs := aron.Lex(text)
	out := make([]protocol.Diagnostic, 0, len(lexErrs))
	for _, e := range lexErrs {
		out = append(out, newDiagnostic(e.Line, e.Col, 1, protocol.DiagnosticSeverityError, e.Msg))
	}
	out = append(out, analyzeStatements(groupByLine(toks))...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range.Start, out[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return out
}

// groupByLine drops comments and returns the remaining tokens per line.
func groupByLine(toks []aron.Token) [][]aron.Token {
	var lines [][]aron.Token
	for _, tok := range toks {
		if tok.Kind == aron.TokenComment {
			continue
		}
		if n := len(lines); n > 0 && lines[n-1][0].Line == tok.Line {
			lines[n-1] = append(lines[n-1], tok)
			continue
		}
		lines = append(lines, []aron.Token{tok})
	}
	return lines
}

func analyzeStatements(lines [][]aron.Token) []protocol.Diagnostic {
	var (
		out   []protocol.Diagnostic
		stack []*openBlock
	)
	for _, line := range lines {
		first := line[0]
		switch {
		case first.Kind == aron.TokenKeyword && first.Text == aron.KeywordIf:
			if len(line) == 1 {
				out = append(out, tokenDiagnostic(first, protocol.DiagnosticSeverityError, "expected condition after "+aron.KeywordIf))
			}
			stack = append(stack, &openBlock{tok: first})
		case first.Kind == aron.TokenKeyword && first.Text == aron.KeywordElse:
			if len(stack) == 0 {
				out = append(out, tokenDiagnostic(first, protocol.DiagnosticSeverityError, aron.KeywordElse+" without matching "+aron.KeywordIf))
				continue
			}
			top := stack[len(stack)-1]
			if top.sawElse {
				out = append(out, tokenDiagnostic(first, protocol.DiagnosticSeverityError, "duplicate "+aron.KeywordElse+" in the same block"))
			}
			top.sawElse = true
		case first.Kind == aron.TokenKeyword && first.Text == aron.KeywordEnd:
			if len(stack) == 0 {
				out = append(out, tokenDiagnostic(first, protocol.DiagnosticSeverityError, aron.KeywordEnd+" without matching "+aron.KeywordIf))
				continue
			}
			stack = stack[:len(stack)-1]
		case first.Kind == aron.TokenKeyword && first.Text == aron.KeywordAssign:
			out = append(out, checkAssignment(line)...)
		case first.Kind == aron.TokenKeyword && first.Text == aron.KeywordPrint:
			if len(line) == 1 {
				out = append(out, tokenDiagnostic(first, protocol.DiagnosticSeverityError, "expected expression after "+aron.KeywordPrint))
			}
		case first.Kind == aron.TokenIdent && len(line) > 1 && line[1].Kind == aron.TokenOperator:
			// bare expression statement, e.g. `א = 1`
		default:
			out = append(out, unexpectedStatement(first))
		}
	}
	for _, b := range stack {
		out = append(out, tokenDiagnostic(b.tok, protocol.DiagnosticSeverityError, fmt.Sprintf("%s block is not closed with %s", aron.KeywordIf, aron.KeywordEnd)))
	}
	return out
}

func checkAssignment(line []aron.Token) []protocol.Diagnostic {
	kw := line[0]
	if len(line) < 2 || line[1].Kind != aron.TokenIdent {
		return []protocol.Diagnostic{tokenDiagnostic(kw, protocol.DiagnosticSeverityError, "expected variable name after "+aron.KeywordAssign)}
	}
	if len(line) < 3 || line[2].Text != "=" {
		return []protocol.Diagnostic{tokenDiagnostic(line[1], protocol.DiagnosticSeverityError, "expected '=' after variable name")}
	}
	if len(line) < 4 {
		return []protocol.Diagnostic{tokenDiagnostic(line[2], protocol.DiagnosticSeverityError, "expected expression after '='")}
	}
	return nil
}

func unexpectedStatement(tok aron.Token) protocol.Diagnostic {
	msg := fmt.Sprintf("unexpected %q at start of statement", tok.Text)
	if tok.Kind == aron.TokenIdent {
		if s := suggestKeyword(tok.Text); s != "" {
			msg += fmt.Sprintf("; did you mean %q?", s)
		}
	}
	return tokenDiagnostic(tok, protocol.DiagnosticSeverityWarning, msg)
}

// suggestKeyword returns the closest statement keyword containing word as a
// subsequence, or "" when none does.
func suggestKeyword(word string) string {
	ranks := fuzzy.RankFindFold(word, statementKeywords)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func tokenDiagnostic(tok aron.Token, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	return newDiagnostic(tok.Line, tok.Col, tok.Len, severity, msg)
}

func newDiagnostic(line, col, length int, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	if length < 1 {
		length = 1
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + length)},
		},
		Severity: severity,
		Source:   diagnosticSource,
		Message:  msg,
	}
}
