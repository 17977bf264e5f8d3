package lsp

import (
	"github.com/aron-lang/aron-lsp/internal/aron"
	"go.lsp.dev/protocol"
)

// CompletionContext is what the server knows about a completion request.
type CompletionContext struct {
	URI      protocol.DocumentURI
	Text     string
	Position protocol.Position
}

type CompletionProvider interface {
	ProvideCompletions(ctx CompletionContext) []protocol.CompletionItem
}

type HoverProvider interface {
	ProvideHover(word string) (protocol.MarkupContent, bool)
}

// KeywordCompletions offers every keyword on every request, whatever the
// cursor position or typed prefix.
type KeywordCompletions struct{}

func (KeywordCompletions) ProvideCompletions(CompletionContext) []protocol.CompletionItem {
	kws := aron.Keywords()
	items := make([]protocol.CompletionItem, 0, len(kws))
	for _, kw := range kws {
		items = append(items, protocol.CompletionItem{
			Label:  kw.Word,
			Kind:   protocol.CompletionItemKindKeyword,
			Detail: kw.Detail,
			Documentation: protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: kw.Documentation,
			},
		})
	}
	return items
}

// KeywordHover documents exact keyword matches.
type KeywordHover struct{}

func (KeywordHover) ProvideHover(word string) (protocol.MarkupContent, bool) {
	kw, ok := aron.Lookup(word)
	if !ok {
		return protocol.MarkupContent{}, false
	}
	return protocol.MarkupContent{Kind: protocol.Markdown, Value: kw.Hover}, true
}
