package main

import (
	"io"
	"os"

	"github.com/aron-lang/aron-lsp/cli"
	"github.com/fatih/color"
)

// Overridden at build time via -ldflags.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var errorColor = color.New(color.FgRed, color.Bold)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := cli.Run(args, cli.Options{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		BuildInfo: cli.BuildInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		},
	})
	if err != nil {
		_, _ = errorColor.Fprintf(stderr, "aron-lsp: %v\n", err)
		return 1
	}
	return 0
}
