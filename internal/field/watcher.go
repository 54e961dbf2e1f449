package field

import (
	"tokenfield/internal/span"
	"tokenfield/internal/trace"
)

// listWatcher mirrors token span changes into the token list.
type listWatcher[T comparable] struct {
	f *Field[T]
}

func (w listWatcher[T]) Attached(m *span.Mark[T], ordinal int) {
	f := w.f
	f.emit(trace.ScopeSpan, "attach", m.Kind.String(), "range", m.Range.String())
	if m.Kind != span.KindToken || f.guard.held() {
		return
	}
	f.list.Insert(m.Token, ordinal)
	f.listener.OnTokenAdded(m.Token)
}

func (w listWatcher[T]) Detached(m *span.Mark[T], ordinal int) {
	f := w.f
	f.emit(trace.ScopeSpan, "detach", m.Kind.String(), "range", m.Range.String())
	if m.Kind != span.KindToken || f.guard.held() {
		return
	}
	if f.selected == m {
		f.selected = nil
	}
	f.list.Remove(m.Token, ordinal)
	f.listener.OnTokenRemoved(m.Token)
}
