package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aron-lang/aron-lsp/internal/config"
)

func newVersionCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information and the active Aron config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Fprintf(
				opts.Stdout,
				"aron-lsp version=%s commit=%s build_date=%s\n",
				opts.BuildInfo.Version,
				opts.BuildInfo.Commit,
				strings.TrimSpace(opts.BuildInfo.BuildDate),
			); err != nil {
				return err
			}
			_, err := fmt.Fprintln(opts.Stdout, configSummary(opts))
			return err
		},
	}
}

// configSummary never fails; version must still print with a broken config.
func configSummary(opts Options) string {
	_, file, err := config.GetConfigPath()
	if err != nil {
		return "config=unresolved error=" + err.Error()
	}
	state := "present"
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		state = "missing"
	}
	cfg, err := opts.LoadConfig()
	if err != nil {
		return fmt.Sprintf("config=%s (%s) error=%v", file, state, err)
	}
	return fmt.Sprintf("config=%s (%s) interpreter=%q direction=%s", file, state, cfg.Interpreter, cfg.Direction)
}
