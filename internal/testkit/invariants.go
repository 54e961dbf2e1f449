package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tokenfield/internal/field"
	"tokenfield/internal/span"
)

// CheckField runs the consistency invariants on a field:
// 1) the token list is a multiset match of attached plus hidden tokens
// 2) every span lies inside the buffer and spans never overlap
// 3) every token span ends in a split char
// 4) the hint never shows next to tokens and hidden tokens imply a count marker
// 5) the caret is outside the prefix and inside the buffer
func CheckField[T comparable](f *field.Field[T], splits ...rune) error {
	if f == nil {
		return fmt.Errorf("nil field")
	}
	text := []rune(f.Text())
	n, err := safecast.Conv[int32](len(text))
	if err != nil {
		return fmt.Errorf("buffer length overflow: %w", err)
	}

	// 1) multiset
	want := map[T]int{}
	for _, tok := range f.Objects() {
		want[tok]++
	}
	got := map[T]int{}
	marks := f.TokenMarks()
	for _, m := range marks {
		got[m.Token]++
	}
	for _, tok := range f.Hidden() {
		got[tok]++
	}
	if len(want) != len(got) {
		return fmt.Errorf("token list %v does not match spans+hidden", f.Objects())
	}
	for tok, c := range want {
		if got[tok] != c {
			return fmt.Errorf("token %v: list has %d, spans+hidden have %d", tok, c, got[tok])
		}
	}

	// 2) bounds and overlap
	var prev *span.Mark[T]
	for _, m := range f.Marks() {
		if m.Start < 0 || int32(m.End) > n || m.End < m.Start {
			return fmt.Errorf("%s span %v outside buffer of %d", m.Kind, m.Range, n)
		}
		if prev != nil && prev.Range.Overlaps(m.Range) {
			return fmt.Errorf("%s span %v overlaps %s span %v", m.Kind, m.Range, prev.Kind, prev.Range)
		}
		prev = m
	}

	// 3) sentinels
	isSplit := func(r rune) bool {
		if len(splits) == 0 {
			return r == ','
		}
		for _, s := range splits {
			if r == s {
				return true
			}
		}
		return false
	}
	for _, m := range marks {
		if m.Empty() || !isSplit(text[m.End-1]) {
			return fmt.Errorf("token %v at %v has no sentinel", m.Token, m.Range)
		}
	}

	// 4) hint only over an otherwise empty field
	if f.HintVisible() && (len(marks) > 0 || f.CountText() != "") {
		return fmt.Errorf("hint shown next to %d tokens", len(marks))
	}
	if f.CountText() == "" && len(f.Hidden()) > 0 {
		return fmt.Errorf("%d hidden tokens without a count marker", len(f.Hidden()))
	}

	// 5) caret
	prefix := len([]rune(f.Config().Prefix))
	if c := f.Caret(); c < min(prefix, len(text)) || c > len(text) {
		return fmt.Errorf("caret %d outside [%d, %d]", c, prefix, len(text))
	}
	return nil
}
