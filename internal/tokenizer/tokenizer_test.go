package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindTokenStartAndEnd_Comma(t *testing.T) {
	tok := New(',')
	text := []rune("bears, ponies")

	starts := []struct {
		cursor int
		want   int
	}{
		{0, 0}, {1, 0}, {5, 0}, {6, 7}, {7, 7}, {11, 7},
	}
	for _, tt := range starts {
		assert.Equal(t, tt.want, tok.FindTokenStart(text, tt.cursor), "FindTokenStart(%d)", tt.cursor)
	}

	ends := []struct {
		cursor int
		want   int
	}{
		{0, 5}, {4, 5}, {5, 5}, {6, 13}, {10, 13}, {11, 13},
	}
	for _, tt := range ends {
		assert.Equal(t, tt.want, tok.FindTokenEnd(text, tt.cursor), "FindTokenEnd(%d)", tt.cursor)
	}
}

func TestFindTokenStartAndEnd_Space(t *testing.T) {
	tok := New(' ')
	text := []rune("bears ponies")

	for cursor, want := range map[int]int{0: 0, 1: 0, 5: 0, 6: 6, 7: 6, 11: 6} {
		assert.Equal(t, want, tok.FindTokenStart(text, cursor), "FindTokenStart(%d)", cursor)
	}
	for cursor, want := range map[int]int{0: 5, 4: 5, 5: 5, 6: 12, 10: 12, 11: 12} {
		assert.Equal(t, want, tok.FindTokenEnd(text, cursor), "FindTokenEnd(%d)", cursor)
	}
}

func TestFindTokenStart_LotsOfWhitespace(t *testing.T) {
	tok := New(',')
	text := []rune("bears,      ponies     ,another")

	assert.Equal(t, 12, tok.FindTokenStart(text, 6))
	assert.Equal(t, 12, tok.FindTokenStart(text, 7))
	assert.Equal(t, 12, tok.FindTokenStart(text, 18))
	assert.Equal(t, 12, tok.FindTokenStart(text, 23))
	assert.Equal(t, 24, tok.FindTokenStart(text, 24))

	assert.Equal(t, 23, tok.FindTokenEnd(text, 18))
	assert.Equal(t, 23, tok.FindTokenEnd(text, 12))
	assert.Equal(t, 31, tok.FindTokenEnd(text, 24))
}

func TestFindToken_ClampsCursor(t *testing.T) {
	tok := New(',')
	text := []rune("ab,cd")

	assert.Equal(t, 3, tok.FindTokenStart(text, 99))
	assert.Equal(t, 0, tok.FindTokenStart(text, -4))
	assert.Equal(t, 5, tok.FindTokenEnd(text, 99))
	assert.Equal(t, 2, tok.FindTokenEnd(text, -1))
	assert.Equal(t, 0, tok.FindTokenStart(nil, 3))
}

func TestTerminateToken(t *testing.T) {
	tests := []struct {
		name   string
		splits []rune
		in     string
		want   string
	}{
		{"appends sentinel", []rune{','}, "Marshall Weir", "Marshall Weir, "},
		{"trims trailing spaces", []rune{','}, "mar   ", "mar, "},
		{"keeps terminated text", []rune{','}, "mar, ", "mar, "},
		{"keeps text ending in split", []rune{',', ';'}, "mar;", "mar;"},
		{"empty text", []rune{','}, "", ", "},
		{"avoids space sentinel", []rune{' ', ','}, "bears", "bears, "},
		{"space only split", []rune{' '}, "bears", "bears  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.splits...).TerminateToken(tt.in))
		})
	}
}

func TestPrimaryAndNormalize(t *testing.T) {
	assert.Equal(t, ',', New().Primary())
	assert.Equal(t, ';', New(' ', ';').Primary())
	assert.Equal(t, ' ', New(' ').Primary())

	assert.Equal(t, []rune{Fallback, ' '}, Normalize([]rune{' '}))
	assert.Equal(t, []rune{',', ' ', ';'}, Normalize([]rune{' ', ',', ';'}))
	assert.Equal(t, []rune{';', ' '}, Normalize([]rune{';', ' '}))
	assert.Equal(t, []rune{','}, Normalize(nil))

	normalized := New(Normalize([]rune{' '})...)
	assert.Equal(t, Fallback, normalized.Primary())
	assert.True(t, normalized.IsSplit(' '))
}
