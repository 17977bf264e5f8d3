package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aron-lang/aron-lsp/internal/lsp"
	"github.com/spf13/cobra"
)

type formatOptions struct {
	indentWidth int
	rtlMarks    bool
	write       bool
}

func newFormatCmd(opts Options) *cobra.Command {
	formatOpts := formatOptions{indentWidth: 4}
	cmd := &cobra.Command{
		Use:   "format [file|-]",
		Short: "Format Aron source for right-to-left display",
		Args:  atMostOneFile("format"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sourcePath(args)
			src, err := readSource(path, opts.Stdin)
			if err != nil {
				return err
			}
			formatted := lsp.FormatText(string(src), lsp.FormatOptions{
				IndentWidth: formatOpts.indentWidth,
				RTLMarks:    formatOpts.rtlMarks,
			})
			return emitResult(opts, path, src, formatted, formatOpts.write)
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&formatOpts.indentWidth, "indent-width", 4, "non-breaking spaces per indentation level")
	fs.BoolVar(&formatOpts.rtlMarks, "rtl-marks", false, "prefix Hebrew lines with an RTL mark")
	fs.BoolVarP(&formatOpts.write, "write", "w", false, "write result back to file")
	return cmd
}

func atMostOneFile(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("%s accepts at most one file path", name)
		}
		return nil
	}
}

func sourcePath(args []string) string {
	if len(args) == 1 {
		if path := strings.TrimSpace(args[0]); path != "" {
			return path
		}
	}
	return "-"
}

func readSource(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", path, err)
	}
	return src, nil
}

// emitResult prints out, or rewrites path in place when write is set.
func emitResult(opts Options, path string, src []byte, out string, write bool) error {
	if write {
		return writeOutput(path, src, out)
	}
	_, err := io.WriteString(opts.Stdout, out)
	return err
}

func writeOutput(path string, src []byte, out string) error {
	if path == "-" {
		return errors.New("--write requires a file path")
	}
	if out == string(src) {
		return nil
	}
	mode := os.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return fmt.Errorf("write file %q: %w", path, err)
	}
	return nil
}
