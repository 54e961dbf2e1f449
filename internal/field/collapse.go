package field

import (
	"fmt"
	"strconv"

	"tokenfield/internal/span"
	"tokenfield/internal/trace"
)

// SetFocus moves focus in or out. Losing focus commits a dangling token and
// collapses the overflow; gaining it expands again.
func (f *Field[T]) SetFocus(focused bool) error {
	if f.focused == focused {
		return nil
	}
	f.trace.NextOp()
	f.focused = focused
	if !focused {
		f.selected = nil
		if f.EnoughToFilter() {
			if err := f.complete(); err != nil {
				return err
			}
		}
		if f.cfg.AllowCollapse {
			return f.collapse()
		}
		return nil
	}
	if !f.cfg.AllowCollapse && len(f.hidden) == 0 && f.reg.Count() == nil {
		return nil
	}
	return f.expand()
}

// Collapse runs the collapse pass now. It does nothing while focused.
func (f *Field[T]) Collapse() error {
	if f.focused || !f.cfg.AllowCollapse {
		return nil
	}
	f.trace.NextOp()
	return f.collapse()
}

// collapse hides tokens that do not fit on the first line behind "+N".
func (f *Field[T]) collapse() error {
	if f.reg.Count() != nil {
		return nil
	}
	release := f.guard.hold()
	defer release()

	sp := f.trace.Begin(trace.ScopeField, "collapse")
	defer sp.End("")

	last := f.metrics.LineVisibleEnd(f.Doc(), 0)
	var visible []*span.Mark[T]
	for _, m := range f.reg.Tokens() {
		if m.End <= last {
			visible = append(visible, m)
		}
	}
	count := f.list.Len() - len(visible)
	if count <= 0 {
		return nil
	}

	pos := f.countAnchor(visible)
	label := countLabel(count)
	f.splice(pos, pos, label)
	if f.metrics.DesiredWidth(f.Doc(), 0, pos+len(label)) > f.metrics.MaxAvailableWidth() {
		f.splice(pos, pos+len(label), nil)
		if len(visible) > 0 {
			pos = visible[len(visible)-1].Start
			count++
		} else {
			pos = f.prefixLen()
		}
		label = countLabel(count)
		f.splice(pos, pos, label)
	}
	cm := span.NewCount[T](span.Range{Start: pos, End: pos + len(label)}, count)
	if err := f.reg.Attach(cm); err != nil {
		return fmt.Errorf("collapse: %w", err)
	}

	var behind []*span.Mark[T]
	for _, m := range f.reg.Tokens() {
		if m.Start >= cm.End {
			behind = append(behind, m)
		}
	}
	for i := len(behind) - 1; i >= 0; i-- {
		m := behind[i]
		f.reg.Detach(m)
		end := m.End
		if end < len(f.buf) && f.buf[end] == ' ' {
			end++
		}
		f.splice(m.Start, end, nil)
	}
	f.hidden = behind
	if len(f.hidden) != cm.Count {
		f.updateCount()
	}
	f.clampCaret()
	sp.WithExtra("hidden", strconv.Itoa(len(f.hidden)))
	return nil
}

// countAnchor is where the marker goes: after the last visible token and
// the space that follows it, or straight after the prefix. Raw text between
// tokens stays put, so the marker never lands inside a span.
func (f *Field[T]) countAnchor(visible []*span.Mark[T]) int {
	if len(visible) == 0 {
		return f.prefixLen()
	}
	pos := visible[len(visible)-1].End
	if pos < len(f.buf) && f.buf[pos] == ' ' {
		pos++
	}
	return pos
}

// expand drops the count marker and puts hidden tokens back at the end.
func (f *Field[T]) expand() error {
	release := f.guard.hold()
	defer release()

	sp := f.trace.Begin(trace.ScopeField, "expand")
	defer sp.End("")

	if cm := f.reg.Count(); cm != nil {
		r := cm.Range
		f.reg.Detach(cm)
		f.splice(r.Start, r.End, nil)
	}
	for _, m := range f.hidden {
		f.removeHint()
		pos := len(f.buf)
		text := []rune(m.Text)
		f.splice(pos, pos, text)
		m.Range = span.Range{Start: pos, End: pos + len(text) - 1}
		if err := f.reg.Attach(m); err != nil {
			return fmt.Errorf("expand: %w", err)
		}
	}
	f.hidden = nil
	f.updateHint()
	if f.HintVisible() {
		f.caret = f.prefixLen()
	} else {
		f.caret = len(f.buf)
	}
	f.clampCaret()
	return nil
}

// updateCount keeps the "+N" marker in step with the hidden set.
func (f *Field[T]) updateCount() {
	cm := f.reg.Count()
	if cm == nil {
		return
	}
	r := cm.Range
	f.reg.Detach(cm)
	n := len(f.hidden)
	if n == 0 {
		f.splice(r.Start, r.End, nil)
		return
	}
	label := countLabel(n)
	f.splice(r.Start, r.End, label)
	cm.Range = span.Range{Start: r.Start, End: r.Start + len(label)}
	cm.Count = n
	if err := f.reg.Attach(cm); err != nil {
		f.emit(trace.ScopeField, "count", err.Error())
	}
}

func countLabel(n int) []rune {
	return []rune("+" + strconv.Itoa(n))
}
