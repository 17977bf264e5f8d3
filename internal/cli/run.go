package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aron-lang/aron-lsp/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(opts Options) *cobra.Command {
	var interpreter string
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run an Aron program with the configured interpreter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("run %q: %w", path, err)
			}
			if interpreter == "" {
				cfg, err := opts.LoadConfig()
				if err != nil {
					return err
				}
				interpreter = cfg.Interpreter
			}
			line, err := runner.CommandLine(interpreter, path)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return opts.Terminal(filepath.Dir(path)).SendText(ctx, line)
		},
	}
	cmd.Flags().StringVar(&interpreter, "interpreter", "", "override the configured interpreter command")
	return cmd
}

func defaultTerminal(opts Options) func(dir string) runner.Terminal {
	return func(dir string) runner.Terminal {
		return &runner.ShellTerminal{
			Dir:    dir,
			Stdin:  opts.Stdin,
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
			Wait:   true,
		}
	}
}
