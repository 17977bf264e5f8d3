package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/aron-lang/aron-lsp/internal/config"
	"github.com/aron-lang/aron-lsp/internal/runner"
	"go.lsp.dev/protocol"
)

// ServerVersion is reported in the initialize result.
var ServerVersion = "0.1.0"

const languageID = "aron"

type Server struct {
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger

	writeMu sync.Mutex

	docs         map[protocol.DocumentURI]*document
	shuttingDown bool

	completions     CompletionProvider
	hovers          HoverProvider
	terminal        func(dir string) runner.Terminal
	loadConfig      func() (config.Config, error)
	toggleDirection func() (string, error)

	// ctx outlives single requests; interpreter processes started by the run
	// command are bound to it.
	ctx    context.Context
	cancel context.CancelFunc

	nextID  int
	pending map[string]func(result json.RawMessage, rerr *respError)
}

type document struct {
	uri        protocol.DocumentURI
	languageID string
	text       string
}

// Option customizes a Server.
type Option func(*Server)

func WithCompletionProvider(p CompletionProvider) Option {
	return func(s *Server) { s.completions = p }
}

func WithHoverProvider(p HoverProvider) Option {
	return func(s *Server) { s.hovers = p }
}

// WithTerminal replaces the shell used by the run command.
func WithTerminal(t runner.Terminal) Option {
	return func(s *Server) { s.terminal = func(string) runner.Terminal { return t } }
}

// WithConfigStore replaces the global config file used by run and
// toggleDirection.
func WithConfigStore(load func() (config.Config, error), toggle func() (string, error)) Option {
	return func(s *Server) {
		s.loadConfig = load
		s.toggleDirection = toggle
	}
}

func NewServer(in io.Reader, out io.Writer, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		in:              bufio.NewReader(in),
		out:             out,
		logger:          logger,
		docs:            map[protocol.DocumentURI]*document{},
		completions:     KeywordCompletions{},
		hovers:          KeywordHover{},
		loadConfig:      config.Load,
		toggleDirection: config.ToggleDirection,
		ctx:             ctx,
		cancel:          cancel,
		nextID:          1,
		pending:         map[string]func(json.RawMessage, *respError){},
	}
	s.terminal = s.shellTerminal
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type inboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *respError       `json:"error,omitempty"`
}

type responseMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result"`
	Error   *respError  `json:"error,omitempty"`
}

type errorResponseMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Error   *respError  `json:"error"`
}

type requestMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type respError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidParams = -32602
)

func (s *Server) Run() error {
	defer s.cancel()
	s.logger.Printf("server started version=%s", ServerVersion)
	for {
		raw, err := readMessage(s.in)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Printf("invalid JSON-RPC payload: %v", err)
			continue
		}

		if msg.Method == "" {
			if msg.ID != nil {
				s.handleResponse(msg)
			}
			continue
		}
		if err := s.handle(msg); err != nil {
			if err == io.EOF {
				return nil
			}
			s.logger.Printf("handle method=%s error: %v", msg.Method, err)
		}
	}
}

func (s *Server) handle(msg inboundMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg.ID)
	case "initialized":
		return nil
	case "shutdown":
		s.shuttingDown = true
		return s.reply(msg.ID, map[string]any{})
	case "exit":
		if !s.shuttingDown {
			s.logger.Printf("exit received before shutdown")
		}
		s.cancel()
		return io.EOF
	case "textDocument/didOpen":
		var p protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return err
		}
		s.docs[p.TextDocument.URI] = &document{
			uri:        p.TextDocument.URI,
			languageID: string(p.TextDocument.LanguageID),
			text:       p.TextDocument.Text,
		}
		return s.publishDiagnostics(p.TextDocument.URI)
	case "textDocument/didChange":
		var p protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return err
		}
		if len(p.ContentChanges) == 0 {
			return nil
		}
		text := p.ContentChanges[len(p.ContentChanges)-1].Text
		if doc, ok := s.docs[p.TextDocument.URI]; ok {
			doc.text = text
		} else {
			s.docs[p.TextDocument.URI] = &document{uri: p.TextDocument.URI, text: text}
		}
		return s.publishDiagnostics(p.TextDocument.URI)
	case "textDocument/didClose":
		var p protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return err
		}
		delete(s.docs, p.TextDocument.URI)
		return s.notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
			URI:         p.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	case "textDocument/completion":
		return s.handleCompletion(msg.ID, msg.Params)
	case "textDocument/hover":
		return s.handleHover(msg.ID, msg.Params)
	case "textDocument/formatting":
		return s.handleFormatting(msg.ID, msg.Params)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokens(msg.ID, msg.Params)
	case "workspace/executeCommand":
		return s.handleExecuteCommand(msg.ID, msg.Params)
	default:
		if msg.ID != nil {
			return s.reply(msg.ID, nil)
		}
		return nil
	}
}

func (s *Server) handleInitialize(id *json.RawMessage) error {
	res := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindFull,
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: false,
			},
			HoverProvider:              true,
			DocumentFormattingProvider: true,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: commandNames(),
			},
			SemanticTokensProvider: semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     semanticTokenLegendTypes,
					TokenModifiers: []string{},
				},
				Full: true,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "aron-lsp",
			Version: ServerVersion,
		},
	}
	return s.reply(id, res)
}

func (s *Server) handleCompletion(id *json.RawMessage, params json.RawMessage) error {
	var p protocol.CompletionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return s.replyError(id, codeInvalidParams, "invalid params for completion")
	}
	ctx := CompletionContext{
		URI:      p.TextDocument.URI,
		Position: p.Position,
	}
	if doc, ok := s.docs[p.TextDocument.URI]; ok {
		ctx.Text = doc.text
	}
	return s.reply(id, s.completions.ProvideCompletions(ctx))
}

func (s *Server) handleHover(id *json.RawMessage, params json.RawMessage) error {
	var p protocol.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		return s.replyError(id, codeInvalidParams, "invalid params for hover")
	}
	doc, ok := s.docs[p.TextDocument.URI]
	if !ok {
		return s.reply(id, nil)
	}
	word, rng := wordAt(doc.text, p.Position)
	if word == "" {
		return s.reply(id, nil)
	}
	contents, ok := s.hovers.ProvideHover(word)
	if !ok {
		return s.reply(id, nil)
	}
	return s.reply(id, protocol.Hover{
		Contents: contents,
		Range:    &rng,
	})
}

func (s *Server) handleFormatting(id *json.RawMessage, params json.RawMessage) error {
	var p protocol.DocumentFormattingParams
	if err := json.Unmarshal(params, &p); err != nil {
		return s.replyError(id, codeInvalidParams, "invalid params for formatting")
	}
	doc, ok := s.docs[p.TextDocument.URI]
	if !ok {
		return s.reply(id, []protocol.TextEdit{})
	}
	return s.reply(id, fullDocumentEdits(doc.text, FormatText(doc.text, FormatOptions{})))
}

func (s *Server) handleSemanticTokens(id *json.RawMessage, params json.RawMessage) error {
	var p semanticTokensParams
	if err := json.Unmarshal(params, &p); err != nil {
		return s.replyError(id, codeInvalidParams, "invalid params for semantic tokens")
	}
	doc, ok := s.docs[protocol.DocumentURI(p.TextDocument.URI)]
	if !ok {
		return s.reply(id, semanticTokens{Data: []uint32{}})
	}
	return s.reply(id, semanticTokensFull(doc.text))
}

func (s *Server) handleResponse(msg inboundMessage) {
	key := strings.TrimSpace(string(*msg.ID))
	cb, ok := s.pending[key]
	if !ok {
		s.logger.Printf("response for unknown request id=%s", key)
		return
	}
	delete(s.pending, key)
	cb(msg.Result, msg.Error)
}

func (s *Server) publishDiagnostics(uri protocol.DocumentURI) error {
	doc, ok := s.docs[uri]
	if !ok {
		return nil
	}
	return s.notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: collectDiagnostics(doc.text),
	})
}

func (s *Server) showMessage(typ protocol.MessageType, msg string) error {
	return s.notify("window/showMessage", protocol.ShowMessageParams{Type: typ, Message: msg})
}

func (s *Server) logMessage(typ protocol.MessageType, msg string) error {
	return s.notify("window/logMessage", protocol.LogMessageParams{Type: typ, Message: msg})
}

// request sends a server-to-client request. onResult runs when the client's
// response arrives on the read loop.
func (s *Server) request(method string, params interface{}, onResult func(json.RawMessage, *respError)) error {
	id := s.nextID
	s.nextID++
	s.pending[strconv.Itoa(id)] = onResult
	return s.send(requestMessage{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
}

func (s *Server) reply(id *json.RawMessage, result interface{}) error {
	if id == nil {
		return nil
	}
	return s.send(responseMessage{
		JSONRPC: "2.0",
		ID:      rawID(id),
		Result:  result,
	})
}

func (s *Server) replyError(id *json.RawMessage, code int, msg string) error {
	if id == nil {
		return nil
	}
	return s.send(errorResponseMessage{
		JSONRPC: "2.0",
		ID:      rawID(id),
		Error: &respError{
			Code:    code,
			Message: msg,
		},
	})
}

func (s *Server) notify(method string, params interface{}) error {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	return s.send(payload)
}

// send serializes writes; run-command exit reports arrive from other
// goroutines.
func (s *Server) send(payload interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return writeMessage(s.out, payload)
}

func rawID(id *json.RawMessage) interface{} {
	var idVal interface{}
	if err := json.Unmarshal(*id, &idVal); err != nil {
		idVal = string(*id)
	}
	return idVal
}

func readMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			v := strings.TrimSpace(line[len("content-length:"):])
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length %q: %w", v, err)
			}
			contentLength = n
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	buf := make([]byte, contentLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeMessage(w io.Writer, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(body))
	return err
}
