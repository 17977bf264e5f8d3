package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func newDirectionCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:       "direction [show|toggle]",
		Short:     "Show or toggle the configured text direction",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"show", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "toggle" {
				dir, err := opts.ToggleDirection()
				if err != nil {
					return err
				}
				_, err = successColor.Fprintf(opts.Stdout, "Aron text direction: %s\n", dir)
				return err
			}
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			_, err = infoColor.Fprintf(opts.Stdout, "Aron text direction: %s\n", cfg.Direction)
			return err
		},
	}
}
