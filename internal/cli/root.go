package cli

import (
	"io"
	"os"

	"github.com/aron-lang/aron-lsp/internal/config"
	"github.com/aron-lang/aron-lsp/internal/runner"
	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

type Options struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	BuildInfo   BuildInfo
	ServeRunner ServeRunner

	// LoadConfig and ToggleDirection default to the config file store.
	LoadConfig      func() (config.Config, error)
	ToggleDirection func() (string, error)
	// Terminal runs interpreter command lines for `run`; it defaults to a
	// blocking shell wired to Stdin/Stdout/Stderr.
	Terminal func(dir string) runner.Terminal
}

func Run(args []string, opts Options) error {
	resolved := normalizeOptions(opts)
	root := newRootCmd(resolved)
	root.SetArgs(args)
	return root.Execute()
}

func normalizeOptions(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ServeRunner == nil {
		opts.ServeRunner = defaultServeRunner
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.ToggleDirection == nil {
		opts.ToggleDirection = config.ToggleDirection
	}
	if opts.Terminal == nil {
		opts.Terminal = defaultTerminal(opts)
	}
	return opts
}

func newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aron-lsp",
		Short:         "Aron language server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeWithOptions(opts)
		},
	}
	cmd.SetIn(opts.Stdin)
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)
	cmd.AddCommand(
		newServeCmd(opts),
		newFormatCmd(opts),
		newRTLCmd(opts),
		newRunCmd(opts),
		newDirectionCmd(opts),
		newKeywordsCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}
