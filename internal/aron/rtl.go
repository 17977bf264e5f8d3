package aron

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// RTLMark is U+200F RIGHT-TO-LEFT MARK.
const RTLMark = "\u200f"

// hebrewLetters covers alef through tav, final forms included. Points and
// cantillation marks are not letters here.
var hebrewLetters = func() *unicode.RangeTable {
	runes := make([]rune, 0, 'ת'-'א'+1)
	for r := 'א'; r <= 'ת'; r++ {
		runes = append(runes, r)
	}
	return rangetable.New(runes...)
}()

// ContainsHebrew reports whether s has at least one Hebrew letter.
func ContainsHebrew(s string) bool {
	for _, r := range s {
		if unicode.Is(hebrewLetters, r) {
			return true
		}
	}
	return false
}

// AddRTLMarks prefixes every non-blank, non-comment line containing Hebrew
// with an RTL mark. The mark is not a Hebrew letter, so applying this twice
// yields two marks.
func AddRTLMarks(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := trimLine(line)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) {
			continue
		}
		if ContainsHebrew(line) {
			lines[i] = RTLMark + line
		}
	}
	return strings.Join(lines, "\n")
}

// StripRTLMarks removes RTL marks from the start of every line.
func StripRTLMarks(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, RTLMark)
	}
	return strings.Join(lines, "\n")
}
