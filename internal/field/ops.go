package field

import (
	"fmt"

	"tokenfield/internal/diag"
	"tokenfield/internal/span"
	"tokenfield/internal/tokens"
	"tokenfield/internal/trace"
)

// AddObject posts an append of tok whose chip leaves no text when deleted.
func (f *Field[T]) AddObject(tok T) {
	f.AddObjectWithText(tok, "")
}

// AddObjectWithText posts an append of tok committed over text.
func (f *Field[T]) AddObjectWithText(tok T, text string) {
	f.post(func() error { return f.addObject(tok, text) })
}

// RemoveObject posts removal of every token equal to tok, hidden ones included.
func (f *Field[T]) RemoveObject(tok T) {
	f.post(func() error { return f.removeObject(tok) })
}

// Clear posts removal of all tokens and text after the prefix.
func (f *Field[T]) Clear() {
	f.post(f.clear)
}

// post queues task as a field operation of its own.
func (f *Field[T]) post(task func() error) {
	f.queue.Post(func() error {
		f.trace.NextOp()
		return task()
	})
}

func (f *Field[T]) addObject(tok T, text string) error {
	if f.ignore != nil && f.ignore(tok) {
		f.listener.OnTokenIgnored(tok)
		return nil
	}
	switch f.list.Check(tok) {
	case tokens.Duplicate:
		f.emit(trace.ScopeEdit, "duplicate", fmt.Sprint(tok))
		f.report(diag.SevWarning, diag.FldDuplicateIgnored, len(f.buf), len(f.buf), fmt.Sprintf("%v is already in the field", tok))
		f.listener.OnTokenIgnored(tok)
		return nil
	case tokens.LimitReached:
		f.emit(trace.ScopeEdit, "limit", fmt.Sprint(tok))
		f.report(diag.SevWarning, diag.FldLimitReached, len(f.buf), len(f.buf), fmt.Sprintf("%v dropped at %d tokens", tok, f.cfg.TokenLimit))
		return nil
	}

	body := f.tokenText(text)
	if f.cfg.AllowCollapse && !f.focused && len(f.hidden) > 0 {
		m := span.NewToken(span.Range{}, tok)
		m.Text = body
		f.hidden = append(f.hidden, m)
		f.list.Insert(tok, -1)
		f.listener.OnTokenAdded(tok)
		f.updateCount()
		return nil
	}

	f.removeHint()
	pos := len(f.buf)
	rs := []rune(body)
	f.splice(pos, pos, rs)
	m := span.NewToken(span.Range{Start: pos, End: pos + len(rs) - 1}, tok)
	m.Text = body
	if err := f.reg.Attach(m); err != nil {
		return fmt.Errorf("add %v: %w", tok, err)
	}
	f.emit(trace.ScopeEdit, "add", fmt.Sprint(tok), "range", m.Range.String())
	f.updateHint()
	if f.focused {
		f.caret = len(f.buf)
	}
	f.clampCaret()
	if !f.focused && f.cfg.AllowCollapse {
		return f.collapse()
	}
	return nil
}

func (f *Field[T]) removeObject(tok T) error {
	kept := f.hidden[:0]
	visible := f.reg.Len(span.KindToken)
	removed := 0
	for i, m := range f.hidden {
		if m.Token == tok {
			f.list.Remove(tok, visible+i-removed)
			f.listener.OnTokenRemoved(tok)
			removed++
			continue
		}
		kept = append(kept, m)
	}
	f.hidden = kept
	if removed > 0 {
		f.updateCount()
	}
	for _, m := range f.reg.Tokens() {
		if m.Token == tok {
			if err := f.removeMark(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Field[T]) clear() error {
	for i := len(f.hidden) - 1; i >= 0; i-- {
		tok := f.hidden[i].Token
		f.list.Remove(tok, f.list.Len()-1)
		f.listener.OnTokenRemoved(tok)
	}
	f.hidden = nil
	f.updateCount()
	marks := f.reg.Tokens()
	for i := len(marks) - 1; i >= 0; i-- {
		if err := f.removeMark(marks[i]); err != nil {
			return err
		}
	}
	if plen := f.prefixLen(); len(f.buf) > plen && !f.HintVisible() {
		f.splice(plen, len(f.buf), nil)
	}
	f.updateHint()
	f.clampCaret()
	f.refilter()
	return nil
}
