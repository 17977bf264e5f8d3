package cli

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aron-lang/aron-lsp/internal/config"
	"github.com/aron-lang/aron-lsp/internal/lsp"
	"github.com/spf13/cobra"
)

type ServeRuntimeOptions struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	BuildInfo BuildInfo
}

type ServeRunner func(opts ServeRuntimeOptions) error

func newServeCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Aron language server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeWithOptions(opts)
		},
	}
}

func runServeWithOptions(opts Options) error {
	return opts.ServeRunner(ServeRuntimeOptions{
		Stdin:     opts.Stdin,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
		BuildInfo: opts.BuildInfo,
	})
}

func defaultServeRunner(opts ServeRuntimeOptions) error {
	if v := strings.TrimSpace(opts.BuildInfo.Version); v != "" {
		lsp.ServerVersion = v
	}
	logger := log.New(opts.Stderr, "aron-lsp: ", log.LstdFlags|log.Lshortfile)
	if _, file, err := config.GetConfigPath(); err != nil {
		logger.Printf("config path unavailable: %v", err)
	} else {
		logger.Printf("config file=%s", file)
	}
	srv := lsp.NewServer(opts.Stdin, opts.Stdout, logger)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}
