package cli

import (
	"fmt"

	"github.com/aron-lang/aron-lsp/internal/aron"
	"github.com/spf13/cobra"
)

func newKeywordsCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "List Aron keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kw := range aron.Keywords() {
				if _, err := fmt.Fprintf(opts.Stdout, "%s\t%s\n", infoColor.Sprint(kw.Word), kw.Detail); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
