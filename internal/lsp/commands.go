package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aron-lang/aron-lsp/internal/aron"
	"github.com/aron-lang/aron-lsp/internal/runner"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const (
	CommandRun             = "aron.run"
	CommandToggleDirection = "aron.toggleDirection"
	CommandFormat          = "aron.format"
	CommandAddRTLMarks     = "aron.addRtlMarks"
)

var (
	ErrNoDocument = errors.New("no active Aron document")
	ErrNotAron    = errors.New("this is not an Aron file")
	ErrNotOnDisk  = errors.New("document is not saved on disk")
)

func commandNames() []string {
	return []string{CommandRun, CommandToggleDirection, CommandFormat, CommandAddRTLMarks}
}

type applyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  workspaceEdit `json:"edit"`
}

type workspaceEdit struct {
	Changes map[protocol.DocumentURI][]protocol.TextEdit `json:"changes"`
}

type applyWorkspaceEditResult struct {
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
}

func (s *Server) handleExecuteCommand(id *json.RawMessage, params json.RawMessage) error {
	var p protocol.ExecuteCommandParams
	if err := json.Unmarshal(params, &p); err != nil {
		return s.replyError(id, codeInvalidParams, "invalid params for executeCommand")
	}

	var err error
	switch p.Command {
	case CommandRun:
		err = s.runDocument(p.Arguments)
	case CommandToggleDirection:
		err = s.runToggleDirection()
	case CommandFormat:
		err = s.rewriteDocument(p.Arguments, "Format Aron document", func(text string) string {
			return FormatText(text, FormatOptions{})
		})
	case CommandAddRTLMarks:
		err = s.rewriteDocument(p.Arguments, "Add RTL marks", aron.AddRTLMarks)
	default:
		return s.replyError(id, codeInvalidParams, fmt.Sprintf("unknown command %q", p.Command))
	}
	if err != nil {
		if notifyErr := s.showMessage(protocol.MessageTypeError, commandErrorMessage(err)); notifyErr != nil {
			return notifyErr
		}
	}
	return s.reply(id, nil)
}

func commandErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoDocument):
		return "No active editor found!"
	case errors.Is(err, ErrNotAron):
		return "This is not an Aron file!"
	default:
		return err.Error()
	}
}

// activeDocument resolves the URI passed as the first command argument.
func (s *Server) activeDocument(args []interface{}) (*document, error) {
	if len(args) == 0 {
		return nil, ErrNoDocument
	}
	raw, ok := args[0].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrNoDocument
	}
	doc, ok := s.docs[protocol.DocumentURI(raw)]
	if !ok {
		return nil, ErrNoDocument
	}
	if !isAronDocument(doc) {
		return nil, ErrNotAron
	}
	return doc, nil
}

func isAronDocument(doc *document) bool {
	if doc.languageID != "" {
		return doc.languageID == languageID
	}
	return strings.EqualFold(filepath.Ext(string(doc.uri)), "."+languageID)
}

func documentPath(doc *document) (string, error) {
	if !strings.HasPrefix(string(doc.uri), "file://") {
		return "", ErrNotOnDisk
	}
	return uri.URI(doc.uri).Filename(), nil
}

// runDocument saves the server's copy of the document and hands it to the
// interpreter. The process is not awaited.
func (s *Server) runDocument(args []interface{}) error {
	doc, err := s.activeDocument(args)
	if err != nil {
		return err
	}
	path, err := documentPath(doc)
	if err != nil {
		return err
	}
	if err := saveDocument(path, doc.text); err != nil {
		return err
	}
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	line, err := runner.CommandLine(cfg.Interpreter, path)
	if err != nil {
		return err
	}
	s.logger.Printf("run: %s", line)
	return s.terminal(filepath.Dir(path)).SendText(s.ctx, line)
}

func saveDocument(path, text string) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
		if current, err := os.ReadFile(path); err == nil && string(current) == text {
			return nil
		}
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}

// shellTerminal forwards interpreter output to the client log once the
// process exits.
func (s *Server) shellTerminal(dir string) runner.Terminal {
	var out bytes.Buffer
	return &runner.ShellTerminal{
		Dir:    dir,
		Stdout: &out,
		Stderr: &out,
		OnExit: func(line string, err error) {
			typ := protocol.MessageTypeInfo
			msg := fmt.Sprintf("%s\n%s", line, out.String())
			if err != nil {
				typ = protocol.MessageTypeError
				msg += fmt.Sprintf("\nexited: %v", err)
			}
			if logErr := s.logMessage(typ, msg); logErr != nil {
				s.logger.Printf("forward run output: %v", logErr)
			}
		},
	}
}

func (s *Server) runToggleDirection() error {
	dir, err := s.toggleDirection()
	if err != nil {
		return err
	}
	return s.showMessage(protocol.MessageTypeInfo, "Aron text direction: "+dir)
}

// rewriteDocument asks the client to replace the whole document with
// transform(text) and reports the outcome once the client answers.
func (s *Server) rewriteDocument(args []interface{}, label string, transform func(string) string) error {
	doc, err := s.activeDocument(args)
	if err != nil {
		return err
	}
	edits := fullDocumentEdits(doc.text, transform(doc.text))
	params := applyWorkspaceEditParams{
		Label: label,
		Edit: workspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{doc.uri: edits},
		},
	}
	return s.request("workspace/applyEdit", params, func(result json.RawMessage, rerr *respError) {
		var res applyWorkspaceEditResult
		if rerr == nil && len(result) > 0 {
			if err := json.Unmarshal(result, &res); err != nil {
				s.logger.Printf("decode applyEdit result: %v", err)
			}
		}
		var notifyErr error
		if res.Applied {
			notifyErr = s.showMessage(protocol.MessageTypeInfo, label+": done")
		} else {
			notifyErr = s.showMessage(protocol.MessageTypeError, label+": the editor rejected the change")
		}
		if notifyErr != nil {
			s.logger.Printf("notify %s result: %v", label, notifyErr)
		}
	})
}
