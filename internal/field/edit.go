package field

import (
	"sort"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v13/textseg"

	"tokenfield/internal/span"
	"tokenfield/internal/trace"
)

// InsertText types text at the caret. Edits are ignored without focus.
func (f *Field[T]) InsertText(text string) error {
	if !f.editable() {
		return nil
	}
	return f.edit(f.caret, f.caret, text)
}

// Replace replaces [start, end) with text the way a user edit would.
func (f *Field[T]) Replace(start, end int, text string) error {
	if !f.editable() {
		return nil
	}
	return f.edit(start, end, text)
}

// Backspace removes the selected token when there is one, otherwise the
// grapheme cluster before the caret.
func (f *Field[T]) Backspace() error {
	if !f.editable() {
		return nil
	}
	if f.cfg.ClickStyle.Selectable() && f.selected != nil {
		return f.removeMark(f.selected)
	}
	plen := f.prefixLen()
	if f.HintVisible() || f.caret <= plen {
		return nil
	}
	n := lastGrapheme(f.buf[plen:f.caret])
	return f.edit(f.caret-n, f.caret, "")
}

// DeleteForward removes the grapheme cluster after the caret. At a token
// start the whole token goes.
func (f *Field[T]) DeleteForward() error {
	if !f.editable() {
		return nil
	}
	if f.cfg.ClickStyle.Selectable() && f.selected != nil {
		return f.removeMark(f.selected)
	}
	if f.HintVisible() || f.caret >= len(f.buf) {
		return nil
	}
	for _, m := range f.reg.Tokens() {
		if m.Start == f.caret {
			return f.removeMark(m)
		}
	}
	n := firstGrapheme(f.buf[f.caret:])
	return f.edit(f.caret, f.caret+n, "")
}

// SetSelection moves the caret. Selections always collapse to their start.
func (f *Field[T]) SetSelection(start, _ int) {
	f.clearSelection()
	f.caret = f.clampOffset(start)
}

// MoveCaret moves the caret by delta runes, stepping over tokens.
func (f *Field[T]) MoveCaret(delta int) {
	target := f.caret + delta
	if delta < 0 {
		for _, m := range f.reg.Tokens() {
			if m.Start < target && target <= m.End && f.caret > m.End {
				target = m.Start
				break
			}
		}
	}
	f.SetSelection(target, target)
}

// Click acts on the token at offset according to the click style, or moves
// the caret when there is none. Clicks are ignored without focus.
func (f *Field[T]) Click(offset int) error {
	f.trace.NextOp()
	if !f.focused {
		return nil
	}
	m := f.reg.At(span.KindToken, offset)
	if m == nil {
		f.SetSelection(offset, offset)
		return nil
	}
	switch f.cfg.ClickStyle {
	case ClickSelect, ClickSelectDeselect:
		if f.selected != m {
			f.selected = m
			return nil
		}
		if f.cfg.ClickStyle == ClickSelectDeselect {
			f.selected = nil
			return nil
		}
		return f.removeMark(m)
	case ClickDelete:
		return f.removeMark(m)
	default:
		f.caret = f.clampOffset(m.End + 1)
		return nil
	}
}

// editable starts a user edit and reports whether it may touch the buffer.
// A blurred field may be showing the count marker, so it takes no typing.
func (f *Field[T]) editable() bool {
	f.trace.NextOp()
	if !f.focused {
		f.emit(trace.ScopeEdit, "reject", "unfocused")
		return false
	}
	return true
}

func (f *Field[T]) clearSelection() {
	if f.cfg.ClickStyle.Selectable() {
		f.selected = nil
	}
}

// edit is the single path for user text changes.
func (f *Field[T]) edit(start, end int, text string) error {
	if start > end {
		start, end = end, start
	}
	start = max(0, min(start, len(f.buf)))
	end = max(0, min(end, len(f.buf)))
	ins := []rune(text)

	if len(ins) > 0 {
		if f.list.Full() {
			f.emit(trace.ScopeEdit, "reject", "token limit", "limit", itoa(f.cfg.TokenLimit))
			return nil
		}
		if f.isSplitInput(ins) {
			return f.complete()
		}
	}

	plen := f.prefixLen()
	if len(ins) == 0 && end <= plen {
		return nil
	}
	if start < plen {
		start = plen
		end = max(end, plen)
	}
	if h := f.reg.Hint(); h != nil {
		if len(ins) == 0 {
			return nil
		}
		start, end = hintRelative(h.Range, start), hintRelative(h.Range, end)
		f.removeHint()
	}

	f.clearSelection()
	detached := f.splice(start, end, ins)
	f.dropOrphans(detached)
	f.detachAt(start + len(ins))
	f.updateHint()
	f.clampCaret()
	f.refilter()
	f.emit(trace.ScopeEdit, "edit", text, "start", itoa(start), "end", itoa(end))
	return nil
}

// hintRelative maps an offset to where it lands once the hint text is gone.
func hintRelative(h span.Range, off int) int {
	switch {
	case off <= h.Start:
		return off
	case off < h.End:
		return h.Start
	default:
		return off - h.Len()
	}
}

// isSplitInput reports a lone split character, optionally followed by the
// space a soft keyboard adds after punctuation.
func (f *Field[T]) isSplitInput(ins []rune) bool {
	if !f.tok.IsSplit(ins[0]) {
		return false
	}
	for _, r := range ins[1:] {
		if r != ' ' {
			return false
		}
	}
	return true
}

// dropOrphans deletes the surviving sentinels of partially deleted tokens.
func (f *Field[T]) dropOrphans(detached []span.Detached[T]) {
	var at []int
	for _, d := range detached {
		if d.Mark.Kind != span.KindToken || d.Whole || d.Sentinel < 0 {
			continue
		}
		if d.Sentinel < len(f.buf) && f.tok.IsSplit(f.buf[d.Sentinel]) {
			at = append(at, d.Sentinel)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(at)))
	for _, off := range at {
		f.splice(off, off+1, nil)
	}
}

// detachAt removes the token whose (Start, End] holds position, which is
// where an edit that ate the space after a token ends. The token's sentinel
// goes with it.
func (f *Field[T]) detachAt(position int) {
	for _, m := range f.reg.Tokens() {
		if m.Start < position && position <= m.End {
			f.reg.Detach(m)
			if s := m.End - 1; s >= 0 && s < len(f.buf) && f.tok.IsSplit(f.buf[s]) {
				f.splice(s, s+1, nil)
			}
			return
		}
	}
}

// removeMark deletes a token and the space that follows it.
func (f *Field[T]) removeMark(m *span.Mark[T]) error {
	if !m.Attached() {
		return nil
	}
	end := m.End
	if end < len(f.buf) && f.buf[end] == ' ' {
		end++
	}
	if f.selected == m {
		f.selected = nil
	}
	f.splice(m.Start, end, nil)
	if f.cfg.AllowCollapse && !f.focused {
		f.updateCount()
	}
	f.updateHint()
	f.clampCaret()
	f.refilter()
	return nil
}

func (f *Field[T]) clampCaret() {
	f.caret = f.clampOffset(f.caret)
}

// clampOffset keeps a caret out of the prefix, the hint, and token interiors.
func (f *Field[T]) clampOffset(c int) int {
	c = max(0, min(c, len(f.buf)))
	plen := f.prefixLen()
	if f.reg.Hint() != nil || c < plen {
		return plen
	}
	for _, m := range f.reg.Tokens() {
		if m.Start < c && c <= m.End {
			if m.End >= len(f.buf) {
				return m.End
			}
			return m.End + 1
		}
	}
	if cm := f.reg.Count(); cm != nil && cm.Start < c && c < cm.End {
		return cm.End
	}
	return c
}

func lastGrapheme(rs []rune) int {
	data := []byte(string(rs))
	last := 0
	for len(data) > 0 {
		adv, tok, err := textseg.ScanGraphemeClusters(data, true)
		if err != nil || adv == 0 {
			break
		}
		last = utf8.RuneCount(tok)
		data = data[adv:]
	}
	if last == 0 && len(rs) > 0 {
		return 1
	}
	return last
}

func firstGrapheme(rs []rune) int {
	data := []byte(string(rs))
	_, tok, err := textseg.ScanGraphemeClusters(data, true)
	if err != nil || len(tok) == 0 {
		return min(1, len(rs))
	}
	return utf8.RuneCount(tok)
}
