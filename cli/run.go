// Package cli is the public entry point of the aron-lsp binary. Editors and
// wrappers that embed the server import it instead of internal/cli.
package cli

import (
	internalcli "github.com/aron-lang/aron-lsp/internal/cli"
	"github.com/aron-lang/aron-lsp/internal/lsp"
)

type BuildInfo = internalcli.BuildInfo
type Options = internalcli.Options

// FormatOptions mirrors the flags of the `format` command.
type FormatOptions = lsp.FormatOptions

func Run(args []string, opts Options) error {
	return internalcli.Run(args, opts)
}

// Format re-indents Aron source the same way the `format` command and the
// language server's formatting request do.
func Format(code string, opts FormatOptions) string {
	return lsp.FormatText(code, opts)
}
