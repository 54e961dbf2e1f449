package field

import (
	"tokenfield/internal/span"
	"tokenfield/internal/trace"
)

// updateHint shows the hint exactly when nothing but the prefix (and the hint
// itself) is in the buffer.
func (f *Field[T]) updateHint() {
	h := f.reg.Hint()
	plen := f.prefixLen()
	shown := 0
	if h != nil {
		shown = h.Len()
	}
	if len(f.buf) != plen+shown {
		f.removeHint()
		return
	}
	if h != nil || f.cfg.Hint == "" {
		return
	}
	text := []rune(f.cfg.Hint)
	f.splice(plen, plen, text)
	if err := f.reg.Attach(span.NewHint[T](span.Range{Start: plen, End: plen + len(text)})); err != nil {
		f.emit(trace.ScopeEdit, "hint", err.Error())
	}
	f.caret = plen
}

func (f *Field[T]) removeHint() {
	h := f.reg.Hint()
	if h == nil {
		return
	}
	r := h.Range
	f.reg.Detach(h)
	f.splice(r.Start, r.End, nil)
}
