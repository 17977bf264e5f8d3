package lsp

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/rivo/uniseg"
	"go.lsp.dev/protocol"
)

const directionMarks = "\u200e\u200f"

// Segmentation keeps an apostrophe after a Hebrew letter inside the word.
const wordTrailers = directionMarks + "'"

// wordAt returns the word under pos using Unicode word segmentation.
// Segments made only of punctuation or whitespace are not words.
func wordAt(text string, pos protocol.Position) (string, protocol.Range) {
	line := lineAt(text, int(pos.Line))
	if line == "" {
		return "", protocol.Range{}
	}
	target := byteOffset(line, int(pos.Character))

	state := -1
	offset := 0
	rest := line
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		start, end := offset, offset+len(seg)
		offset = end
		if target < start || target > end {
			continue
		}

		trimmed := strings.TrimLeft(seg, directionMarks)
		start += len(seg) - len(trimmed)
		word := strings.TrimRight(trimmed, wordTrailers)
		end = start + len(word)
		if !isWordSegment(word) || target < start || target > end {
			continue
		}
		return word, protocol.Range{
			Start: protocol.Position{Line: pos.Line, Character: uint32(utf16Col(line, start))},
			End:   protocol.Position{Line: pos.Line, Character: uint32(utf16Col(line, end))},
		}
	}
	return "", protocol.Range{}
}

func isWordSegment(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return true
		}
	}
	return false
}

func lineAt(text string, line int) string {
	if line < 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if line >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}

// byteOffset converts a UTF-16 column to a byte offset, clamped to the line.
func byteOffset(line string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

func utf16Col(line string, off int) int {
	if off > len(line) {
		off = len(line)
	}
	units := 0
	for _, r := range line[:off] {
		units += utf16.RuneLen(r)
	}
	return units
}

// endPosition is the position just past the last character of text.
func endPosition(text string) protocol.Position {
	line := 0
	lastBreak := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastBreak = i
		}
	}
	tail := text[lastBreak+1:]
	return protocol.Position{Line: uint32(line), Character: uint32(utf16Col(tail, len(tail)))}
}
