package cli

import (
	"github.com/aron-lang/aron-lsp/internal/aron"
	"github.com/spf13/cobra"
)

func newRTLCmd(opts Options) *cobra.Command {
	var (
		strip bool
		write bool
	)
	cmd := &cobra.Command{
		Use:   "rtl [file|-]",
		Short: "Prefix Hebrew lines with an RTL mark",
		Long: "Prefix every line containing a Hebrew letter with U+200F so editors\n" +
			"without bidi support display it right-to-left. Running it twice adds a\n" +
			"second mark; use --strip to remove them.",
		Args: atMostOneFile("rtl"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sourcePath(args)
			src, err := readSource(path, opts.Stdin)
			if err != nil {
				return err
			}
			transform := aron.AddRTLMarks
			if strip {
				transform = aron.StripRTLMarks
			}
			return emitResult(opts, path, src, transform(string(src)), write)
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&strip, "strip", false, "remove leading RTL marks instead of adding them")
	fs.BoolVarP(&write, "write", "w", false, "write result back to file")
	return cmd
}
