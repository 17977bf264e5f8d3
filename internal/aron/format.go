package aron

import (
	"strings"
	"unicode"
)

const (
	// CommentMarker starts a comment line.
	CommentMarker = "#"

	// NoBreakSpace pads formatted lines so RTL renderers keep the indentation.
	NoBreakSpace = '\u00a0'

	defaultIndentWidth = 4
)

var (
	indentKeywords = WordsWithRole(RoleBlockOpener)
	dedentKeywords = WordsWithRole(RoleBlockCloser)
)

// FormatOptions controls the padding emitted per indentation level.
type FormatOptions struct {
	IndentWidth int
	IndentRune  rune
}

// DefaultFormatOptions pads each level with four non-breaking spaces.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{IndentWidth: defaultIndentWidth, IndentRune: NoBreakSpace}
}

// FormatCode re-indents Aron source for RTL display.
func FormatCode(code string) string {
	return FormatCodeWith(code, DefaultFormatOptions())
}

// FormatCodeWith re-indents code in one forward pass. A line starting with a
// dedent keyword is emitted one level shallower; a line starting with an
// indent keyword deepens the lines after it. Blank and comment lines are kept
// byte for byte.
func FormatCodeWith(code string, opts FormatOptions) string {
	unit := indentUnit(opts)
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	level := 0
	for _, line := range lines {
		stripped := trimLine(line)

		if hasAnyPrefix(stripped, dedentKeywords) && level > 0 {
			level--
		}

		if stripped != "" && !strings.HasPrefix(stripped, CommentMarker) {
			out = append(out, strings.Repeat(unit, level)+stripped)
		} else {
			out = append(out, line)
		}

		if hasAnyPrefix(stripped, indentKeywords) {
			level++
		}
	}
	return strings.Join(out, "\n")
}

// byteOrderMark is trimmed from lines along with whitespace.
const byteOrderMark = '\ufeff'

func trimLine(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == byteOrderMark
	})
}

func indentUnit(opts FormatOptions) string {
	n := opts.IndentWidth
	if n <= 0 || n > 16 {
		n = defaultIndentWidth
	}
	r := opts.IndentRune
	if r == 0 {
		r = NoBreakSpace
	}
	return strings.Repeat(string(r), n)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
