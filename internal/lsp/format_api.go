package lsp

import "github.com/aron-lang/aron-lsp/internal/aron"

// FormatOptions controls document formatting.
type FormatOptions struct {
	// IndentWidth is the number of non-breaking spaces per level; zero means 4.
	IndentWidth int
	// RTLMarks prefixes Hebrew lines with an RTL mark after re-indenting.
	RTLMarks bool
}

// FormatText formats Aron source for RTL display.
func FormatText(text string, opts FormatOptions) string {
	out := aron.FormatCodeWith(text, aron.FormatOptions{IndentWidth: opts.IndentWidth})
	if opts.RTLMarks {
		out = aron.AddRTLMarks(out)
	}
	return out
}
