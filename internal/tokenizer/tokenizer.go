// Package tokenizer finds token boundaries in field text and terminates
// committed tokens with a sentinel split character.
//
// Invariants:
//   - A token never starts with leading plain spaces.
//   - The sentinel (Primary) is never a space when another split char exists.
//   - Every function is total: out-of-range cursors are clamped.
package tokenizer

import (
	"slices"
	"strings"
)

// Fallback is the sentinel used when a space is the only configured split char.
const Fallback = '§'

// Tokenizer splits text on a configured set of characters.
type Tokenizer struct {
	splits []rune
}

// New returns a Tokenizer for the given split characters. With no arguments the
// tokenizer splits on ','.
func New(splits ...rune) Tokenizer {
	if len(splits) == 0 {
		splits = []rune{','}
	}
	return Tokenizer{splits: slices.Clone(splits)}
}

// Normalize reorders a split set so that its first entry is not a space.
// A lone space gets Fallback in front of it.
func Normalize(splits []rune) []rune {
	if len(splits) == 0 {
		return []rune{','}
	}
	if splits[0] != ' ' {
		return slices.Clone(splits)
	}
	if len(splits) == 1 {
		return []rune{Fallback, ' '}
	}
	out := make([]rune, 0, len(splits))
	out = append(out, splits[1], splits[0])
	out = append(out, splits[2:]...)
	return out
}

// Splits returns a copy of the configured split characters.
func (t Tokenizer) Splits() []rune {
	return slices.Clone(t.splits)
}

// IsSplit reports whether r is one of the split characters.
func (t Tokenizer) IsSplit(r rune) bool {
	return slices.Contains(t.splits, r)
}

// Primary returns the sentinel appended to terminated tokens.
func (t Tokenizer) Primary() rune {
	if len(t.splits) > 1 && t.splits[0] == ' ' {
		return t.splits[1]
	}
	if len(t.splits) == 0 {
		return ','
	}
	return t.splits[0]
}

// FindTokenStart scans backwards from cursor to the previous split character
// (or the start of text), then skips the run of plain spaces that follows it.
// The result may lie past cursor when cursor sits inside that run; callers that
// slice text[start:cursor] clamp start first.
func (t Tokenizer) FindTokenStart(text []rune, cursor int) int {
	i := clamp(cursor, len(text))
	for i > 0 && !t.IsSplit(text[i-1]) {
		i--
	}
	for i < len(text) && text[i] == ' ' {
		i++
	}
	return i
}

// FindTokenEnd scans forward from cursor to the next split character or the
// end of text.
func (t Tokenizer) FindTokenEnd(text []rune, cursor int) int {
	i := clamp(cursor, len(text))
	for i < len(text) {
		if t.IsSplit(text[i]) {
			return i
		}
		i++
	}
	return len(text)
}

// TerminateToken trims trailing spaces and appends "<primary> " unless the text
// already ends in a split character.
func (t Tokenizer) TerminateToken(text string) string {
	trimmed := strings.TrimRight(text, " ")
	if trimmed != "" {
		last := []rune(trimmed)
		if t.IsSplit(last[len(last)-1]) {
			return text
		}
	}
	return trimmed + string(t.Primary()) + " "
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
