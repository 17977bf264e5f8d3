package lsp

import "go.lsp.dev/protocol"

// fullDocumentEdits replaces the whole document with newText. It returns an
// empty list when nothing changes.
func fullDocumentEdits(oldText, newText string) []protocol.TextEdit {
	if oldText == newText {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(oldText),
		},
		NewText: newText,
	}}
}
