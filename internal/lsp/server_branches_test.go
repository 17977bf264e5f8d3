package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"go.lsp.dev/protocol"
)

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

// splitErrWriter succeeds once (header), then fails (body).
type splitErrWriter struct{ calls int }

func (w *splitErrWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls == 1 {
		return len(p), nil
	}
	return 0, errors.New("body write failed")
}

func newTestServer(out io.Writer, opts ...Option) *Server {
	return NewServer(strings.NewReader(""), out, log.New(io.Discard, "", 0), opts...)
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return b
}

func openDoc(t *testing.T, s *Server, uri, languageID, text string) {
	t.Helper()
	params := mustParams(t, map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "textDocument/didOpen", Params: params}); err != nil {
		t.Fatalf("handle didOpen: %v", err)
	}
}

func TestHandle_InitializedAndExitWithoutShutdown(t *testing.T) {
	s := newTestServer(io.Discard)

	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "initialized"}); err != nil {
		t.Fatalf("initialized should be no-op: %v", err)
	}
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "exit"}); !errors.Is(err, io.EOF) {
		t.Fatalf("exit should return EOF, got: %v", err)
	}
}

func TestHandle_UnknownMethod(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	// With ID -> reply with result:null
	rawID := json.RawMessage("10")
	if err := s.handle(inboundMessage{JSONRPC: "2.0", ID: &rawID, Method: "custom/method"}); err != nil {
		t.Fatalf("handle unknown with id: %v", err)
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 1 {
		t.Fatalf("expected one reply for unknown request, got %d", len(msgs))
	}
	if _, ok := msgs[0]["result"]; !ok {
		t.Fatalf("expected result field for unknown request: %+v", msgs[0])
	}

	// Without ID -> notification style, no output.
	out.Reset()
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "custom/notify"}); err != nil {
		t.Fatalf("handle unknown notify: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output for unknown notification, got %d bytes", out.Len())
	}
}

func TestHandle_DidOpenPublishesDiagnostics(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	openDoc(t, s, "file:///tmp/a.aron", "aron", "סוף")

	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 1 || msgs[0]["method"] != "textDocument/publishDiagnostics" {
		t.Fatalf("expected publishDiagnostics, got: %+v", msgs)
	}
	params := msgs[0]["params"].(map[string]any)
	diags := params["diagnostics"].([]any)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got: %+v", diags)
	}
}

func TestHandle_DidChangeBranches(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	// Invalid params should return error.
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "textDocument/didChange", Params: json.RawMessage(`{"oops":`)}); err == nil {
		t.Fatalf("expected unmarshal error for malformed didChange params")
	}

	uri := "file:///tmp/change.aron"
	openDoc(t, s, uri, "aron", "הדפס 1")
	out.Reset()

	// Empty changes -> no diagnostics publish.
	empty := mustParams(t, map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": 2},
		"contentChanges": []any{},
	})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "textDocument/didChange", Params: empty}); err != nil {
		t.Fatalf("didChange with no changes: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output for empty changes, got %d bytes", out.Len())
	}

	changed := mustParams(t, map[string]any{
		"textDocument": map[string]any{"uri": uri, "version": 3},
		"contentChanges": []any{
			map[string]any{"text": "first"},
			map[string]any{"text": "הדפס 2"},
		},
	})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "textDocument/didChange", Params: changed}); err != nil {
		t.Fatalf("didChange should publish diagnostics: %v", err)
	}
	if got := s.docs[protocol.DocumentURI(uri)].text; got != "הדפס 2" {
		t.Fatalf("expected doc updated from last content change, got: %q", got)
	}
	if s.docs[protocol.DocumentURI(uri)].languageID != "aron" {
		t.Fatalf("didChange should keep the language id")
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 1 || msgs[0]["method"] != "textDocument/publishDiagnostics" {
		t.Fatalf("expected one diagnostics publish after didChange, got: %+v", msgs)
	}
}

func TestHandle_DidCloseClearsDiagnostics(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	uri := "file:///tmp/close.aron"
	openDoc(t, s, uri, "aron", "סוף")
	out.Reset()

	params := mustParams(t, map[string]any{"textDocument": map[string]any{"uri": uri}})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", Method: "textDocument/didClose", Params: params}); err != nil {
		t.Fatalf("handle didClose: %v", err)
	}
	if _, ok := s.docs[protocol.DocumentURI(uri)]; ok {
		t.Fatalf("expected document to be dropped")
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 1 {
		t.Fatalf("expected one diagnostics publish, got %d", len(msgs))
	}
	diags := msgs[0]["params"].(map[string]any)["diagnostics"].([]any)
	if len(diags) != 0 {
		t.Fatalf("expected diagnostics to be cleared, got %+v", diags)
	}
}

func TestHandle_CompletionReturnsAllKeywords(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	uri := "file:///tmp/c.aron"
	openDoc(t, s, uri, "aron", "קבע א = 1\nה")
	out.Reset()

	for i, pos := range []map[string]any{
		{"line": 1, "character": 1},
		{"line": 0, "character": 0},
	} {
		rawID := json.RawMessage("8")
		params := mustParams(t, map[string]any{
			"textDocument": map[string]any{"uri": uri},
			"position":     pos,
		})
		if err := s.handle(inboundMessage{JSONRPC: "2.0", ID: &rawID, Method: "textDocument/completion", Params: params}); err != nil {
			t.Fatalf("handle completion %d: %v", i, err)
		}
	}

	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 2 {
		t.Fatalf("expected two completion responses, got %d", len(msgs))
	}
	for _, msg := range msgs {
		items, ok := msg["result"].([]any)
		if !ok || len(items) != 7 {
			t.Fatalf("expected 7 completion items, got: %+v", msg["result"])
		}
	}
}

func TestHandle_InvalidParamsReplyError(t *testing.T) {
	for _, method := range []string{
		"textDocument/hover",
		"textDocument/completion",
		"textDocument/formatting",
		"textDocument/semanticTokens/full",
		"workspace/executeCommand",
	} {
		var out bytes.Buffer
		s := newTestServer(&out)
		rawID := json.RawMessage("7")
		if err := s.handle(inboundMessage{
			JSONRPC: "2.0",
			ID:      &rawID,
			Method:  method,
			Params:  json.RawMessage(`{"oops":`), // malformed JSON
		}); err != nil {
			t.Fatalf("handle %s should not return error: %v", method, err)
		}
		msgs := readAllLSPMessages(t, out.Bytes())
		if len(msgs) != 1 || msgs[0]["error"] == nil {
			t.Fatalf("expected error response for %s, got: %+v", method, msgs)
		}
	}
}

func TestHandle_FormattingReturnsFullEdit(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	uri := "file:///tmp/f.aron"
	openDoc(t, s, uri, "aron", "אם א\nהדפס 1\nסוף")
	out.Reset()

	rawID := json.RawMessage("12")
	params := mustParams(t, map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"options":      map[string]any{"tabSize": 2, "insertSpaces": true},
	})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", ID: &rawID, Method: "textDocument/formatting", Params: params}); err != nil {
		t.Fatalf("handle formatting: %v", err)
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	edits, ok := msgs[0]["result"].([]any)
	if !ok || len(edits) != 1 {
		t.Fatalf("expected one edit, got: %+v", msgs[0])
	}
	newText := edits[0].(map[string]any)["newText"]
	if newText != "אם א\n\u00a0\u00a0\u00a0\u00a0הדפס 1\nסוף" {
		t.Fatalf("unexpected newText: %q", newText)
	}
}

func TestHandle_SemanticTokens(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	uri := "file:///tmp/s.aron"
	openDoc(t, s, uri, "aron", "הדפס 1")
	out.Reset()

	rawID := json.RawMessage("13")
	params := mustParams(t, map[string]any{"textDocument": map[string]any{"uri": uri}})
	if err := s.handle(inboundMessage{JSONRPC: "2.0", ID: &rawID, Method: "textDocument/semanticTokens/full", Params: params}); err != nil {
		t.Fatalf("handle semantic tokens: %v", err)
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	data := msgs[0]["result"].(map[string]any)["data"].([]any)
	if len(data) != 10 {
		t.Fatalf("expected two encoded tokens, got %v", data)
	}
}

func TestRun_InvalidJSONPayloadContinues(t *testing.T) {
	var in bytes.Buffer
	writeLSPMessage(&in, json.RawMessage(`{`)) // malformed JSON payload
	writeLSPMessage(&in, map[string]any{
		"jsonrpc": "2.0",
		"id":      11,
		"method":  "initialize",
		"params":  map[string]any{},
	})

	var out bytes.Buffer
	s := NewServer(&in, &out, log.New(io.Discard, "", 0))
	if err := s.Run(); err != nil {
		t.Fatalf("Run should ignore invalid JSON and continue, got: %v", err)
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 1 || msgs[0]["id"] == nil {
		t.Fatalf("expected initialize response after malformed payload, got: %+v", msgs)
	}
}

func TestRun_MissingContentLength(t *testing.T) {
	s := NewServer(stringsReader("X-Header: 1\r\n\r\n{}"), io.Discard, nil)
	if err := s.Run(); err == nil || !strings.Contains(err.Error(), "missing Content-Length") {
		t.Fatalf("expected missing Content-Length error, got: %v", err)
	}
}

func TestReplyAndReplyError_NilIDNoOutput(t *testing.T) {
	var out bytes.Buffer
	s := NewServer(strings.NewReader(""), &out, nil)
	if err := s.reply(nil, map[string]any{"ok": true}); err != nil {
		t.Fatalf("reply nil id should no-op: %v", err)
	}
	if err := s.replyError(nil, -32600, "bad request"); err != nil {
		t.Fatalf("replyError nil id should no-op: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output when id is nil, got %d bytes", out.Len())
	}
}

func TestWriteMessage_ErrorPaths(t *testing.T) {
	if err := writeMessage(io.Discard, map[string]any{"bad": func() {}}); err == nil {
		t.Fatalf("expected marshal error")
	}

	if err := writeMessage(errWriter{}, map[string]any{"ok": true}); err == nil {
		t.Fatalf("expected header write error")
	}

	w := &splitErrWriter{}
	if err := writeMessage(w, map[string]any{"ok": true}); err == nil {
		t.Fatalf("expected body write error")
	}
}

type fixedCompletions struct{ got CompletionContext }

func (f *fixedCompletions) ProvideCompletions(ctx CompletionContext) []protocol.CompletionItem {
	f.got = ctx
	return []protocol.CompletionItem{{Label: "snippet"}}
}

type echoHover struct{}

func (echoHover) ProvideHover(word string) (protocol.MarkupContent, bool) {
	return protocol.MarkupContent{Kind: protocol.PlainText, Value: "word:" + word}, true
}

func TestHandle_CustomProviders(t *testing.T) {
	var out bytes.Buffer
	completions := &fixedCompletions{}
	s := newTestServer(&out, WithCompletionProvider(completions), WithHoverProvider(echoHover{}))
	uri := "file:///tmp/providers.aron"
	openDoc(t, s, uri, "aron", "קבע משתנה = 1")
	out.Reset()

	pos := map[string]any{"line": 0, "character": 5}
	for i, method := range []string{"textDocument/completion", "textDocument/hover"} {
		rawID := json.RawMessage(fmt.Sprintf("%d", 30+i))
		params := mustParams(t, map[string]any{
			"textDocument": map[string]any{"uri": uri},
			"position":     pos,
		})
		if err := s.handle(inboundMessage{JSONRPC: "2.0", ID: &rawID, Method: method, Params: params}); err != nil {
			t.Fatalf("handle %s: %v", method, err)
		}
	}

	if completions.got.Text != "קבע משתנה = 1" || completions.got.Position.Character != 5 {
		t.Fatalf("completion provider got unexpected context: %+v", completions.got)
	}
	msgs := readAllLSPMessages(t, out.Bytes())
	if len(msgs) != 2 {
		t.Fatalf("expected two responses, got %+v", msgs)
	}
	items := msgs[0]["result"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["label"] != "snippet" {
		t.Fatalf("expected custom completion items, got %+v", msgs[0]["result"])
	}
	contents := msgs[1]["result"].(map[string]any)["contents"].(map[string]any)
	if contents["value"] != "word:משתנה" {
		t.Fatalf("expected custom hover for identifier, got %+v", contents)
	}
}
