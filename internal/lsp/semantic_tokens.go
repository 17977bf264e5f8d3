package lsp

import "github.com/aron-lang/aron-lsp/internal/aron"

const (
	semanticTypeKeyword = iota
	semanticTypeString
	semanticTypeNumber
	semanticTypeComment
	semanticTypeOperator
	semanticTypeVariable
)

var semanticTokenLegendTypes = []string{
	"keyword",
	"string",
	"number",
	"comment",
	"operator",
	"variable",
}

type semanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

type semanticTokensOptions struct {
	Legend semanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

type semanticTokens struct {
	Data []uint32 `json:"data"`
}

type semanticTokensParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type semanticSpan struct {
	line   int
	start  int
	length int
	typ    int
}

func semanticTokensFull(text string) semanticTokens {
	return semanticTokens{Data: encodeSemanticSpans(classifySemanticSpans(text))}
}

func classifySemanticSpans(text string) []semanticSpan {
	toks, _ := aron.Lex(text)
	spans := make([]semanticSpan, 0, len(toks))
	for _, tok := range toks {
		spans = append(spans, semanticSpan{
			line:   tok.Line,
			start:  tok.Col,
			length: tok.Len,
			typ:    semanticType(tok.Kind),
		})
	}
	return spans
}

func semanticType(kind aron.TokenKind) int {
	switch kind {
	case aron.TokenKeyword:
		return semanticTypeKeyword
	case aron.TokenString:
		return semanticTypeString
	case aron.TokenNumber:
		return semanticTypeNumber
	case aron.TokenComment:
		return semanticTypeComment
	case aron.TokenOperator:
		return semanticTypeOperator
	default:
		return semanticTypeVariable
	}
}

func encodeSemanticSpans(spans []semanticSpan) []uint32 {
	if len(spans) == 0 {
		return []uint32{}
	}
	data := make([]uint32, 0, len(spans)*5)
	prevLine := 0
	prevStart := 0
	for i, s := range spans {
		lineDelta := s.line
		startDelta := s.start
		if i > 0 {
			lineDelta = s.line - prevLine
			if lineDelta == 0 {
				startDelta = s.start - prevStart
			}
		}
		data = append(data, uint32(lineDelta), uint32(startDelta), uint32(s.length), uint32(s.typ), 0)
		prevLine = s.line
		prevStart = s.start
	}
	return data
}
