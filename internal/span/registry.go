package span

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOverlap reports an attach that intersects a same-kind mark.
	ErrOverlap = errors.New("span: overlapping mark")
	// ErrEmpty reports an attach of a zero-length or inverted range.
	ErrEmpty = errors.New("span: empty range")
	// ErrRange reports an attach with a negative offset.
	ErrRange = errors.New("span: range out of bounds")
	// ErrAttached reports an attach of a mark that already lives in a registry.
	ErrAttached = errors.New("span: mark already attached")
)

// Watcher receives attach and detach notifications. The ordinal is the
// mark's index among marks of its kind at the moment of the change.
type Watcher[T any] interface {
	Attached(m *Mark[T], ordinal int)
	Detached(m *Mark[T], ordinal int)
}

// Detached describes a mark dropped by Edit.
type Detached[T any] struct {
	Mark *Mark[T]
	// Old is the mark's range before the edit.
	Old Range
	// Whole is set when the edit covered the full range.
	Whole bool
	// Sentinel is the post-edit offset of the mark's last rune, or -1 when
	// that rune was removed by the edit.
	Sentinel int
}

// Registry keeps range marks sorted by Start per kind and shifts them as the
// buffer changes. It does not own the buffer text.
type Registry[T any] struct {
	marks   [KindCount + 1][]*Mark[T]
	watcher Watcher[T]
	nextID  uint64
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Watch installs w as the notification sink; nil disables notifications.
func (r *Registry[T]) Watch(w Watcher[T]) {
	r.watcher = w
}

// Attach inserts m keeping per-kind order.
func (r *Registry[T]) Attach(m *Mark[T]) error {
	if m == nil {
		return fmt.Errorf("%w: nil mark", ErrEmpty)
	}
	if m.attached {
		return fmt.Errorf("%w: %s %s", ErrAttached, m.Kind, m.Range)
	}
	if m.Start < 0 {
		return fmt.Errorf("%w: %s %s", ErrRange, m.Kind, m.Range)
	}
	if m.Empty() {
		return fmt.Errorf("%w: %s %s", ErrEmpty, m.Kind, m.Range)
	}
	list := r.marks[m.Kind]
	idx := sort.Search(len(list), func(i int) bool { return list[i].Start >= m.Start })
	if idx > 0 && list[idx-1].Overlaps(m.Range) {
		return fmt.Errorf("%w: %s %s intersects %s", ErrOverlap, m.Kind, m.Range, list[idx-1].Range)
	}
	if idx < len(list) && list[idx].Overlaps(m.Range) {
		return fmt.Errorf("%w: %s %s intersects %s", ErrOverlap, m.Kind, m.Range, list[idx].Range)
	}
	if m.id == 0 {
		r.nextID++
		m.id = r.nextID
	}
	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = m
	r.marks[m.Kind] = list
	m.attached = true
	if r.watcher != nil {
		r.watcher.Attached(m, idx)
	}
	return nil
}

// Detach removes m; it reports false when m was not attached here.
func (r *Registry[T]) Detach(m *Mark[T]) bool {
	idx := r.Ordinal(m)
	if idx < 0 {
		return false
	}
	r.removeAt(m.Kind, idx)
	if r.watcher != nil {
		r.watcher.Detached(m, idx)
	}
	return true
}

func (r *Registry[T]) removeAt(kind Kind, idx int) {
	list := r.marks[kind]
	m := list[idx]
	copy(list[idx:], list[idx+1:])
	list[len(list)-1] = nil
	r.marks[kind] = list[:len(list)-1]
	m.attached = false
}

// Edit records that [start, end) was replaced by inserted runes. Marks that
// end at or before start stay put, marks starting at or after end shift, and
// marks whose interior is touched are detached and returned in buffer order.
func (r *Registry[T]) Edit(start, end, inserted int) []Detached[T] {
	if end < start {
		start, end = end, start
	}
	delta := inserted - (end - start)
	var dropped []Detached[T]
	type pending struct {
		m       *Mark[T]
		ordinal int
	}
	var events []pending
	for kind := KindToken; kind <= KindCount; kind++ {
		list := r.marks[kind]
		kept := list[:0]
		removed := 0
		for i, m := range list {
			switch {
			case m.End <= start:
				kept = append(kept, m)
			case m.Start >= end:
				m.Range = m.Shift(delta)
				kept = append(kept, m)
			default:
				d := Detached[T]{
					Mark:     m,
					Old:      m.Range,
					Whole:    start <= m.Start && end >= m.End && end > start,
					Sentinel: -1,
				}
				if m.End-1 >= end {
					d.Sentinel = m.End - 1 + delta
				}
				m.attached = false
				dropped = append(dropped, d)
				events = append(events, pending{m: m, ordinal: i - removed})
				removed++
			}
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		r.marks[kind] = kept
	}
	if r.watcher != nil {
		for _, ev := range events {
			r.watcher.Detached(ev.m, ev.ordinal)
		}
	}
	return dropped
}

// Ordinal returns m's index among attached marks of its kind, or -1.
func (r *Registry[T]) Ordinal(m *Mark[T]) int {
	if m == nil || !m.attached {
		return -1
	}
	for i, x := range r.marks[m.Kind] {
		if x == m {
			return i
		}
	}
	return -1
}

// Tokens returns the attached token marks in buffer order.
func (r *Registry[T]) Tokens() []*Mark[T] {
	return append([]*Mark[T](nil), r.marks[KindToken]...)
}

// Hint returns the hint mark or nil.
func (r *Registry[T]) Hint() *Mark[T] {
	return r.first(KindHint)
}

// Count returns the count mark or nil.
func (r *Registry[T]) Count() *Mark[T] {
	return r.first(KindCount)
}

func (r *Registry[T]) first(kind Kind) *Mark[T] {
	if len(r.marks[kind]) == 0 {
		return nil
	}
	return r.marks[kind][0]
}

// Len returns the number of attached marks of the kind.
func (r *Registry[T]) Len(kind Kind) int {
	return len(r.marks[kind])
}

// Overlapping returns marks of the kind intersecting [start, end). An empty
// query range matches marks containing start.
func (r *Registry[T]) Overlapping(kind Kind, start, end int) []*Mark[T] {
	q := Range{Start: start, End: end}
	var out []*Mark[T]
	for _, m := range r.marks[kind] {
		if q.Empty() {
			if m.Contains(start) {
				out = append(out, m)
			}
			continue
		}
		if m.Overlaps(q) {
			out = append(out, m)
		}
	}
	return out
}

// At returns the mark of the kind containing offset, or nil.
func (r *Registry[T]) At(kind Kind, offset int) *Mark[T] {
	list := r.marks[kind]
	idx := sort.Search(len(list), func(i int) bool { return list[i].End > offset })
	if idx < len(list) && list[idx].Contains(offset) {
		return list[idx]
	}
	return nil
}

// All returns every attached mark ordered by Start, then kind.
func (r *Registry[T]) All() []*Mark[T] {
	var out []*Mark[T]
	for kind := KindToken; kind <= KindCount; kind++ {
		out = append(out, r.marks[kind]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// DetachAll removes every mark, firing Detached for each token mark from
// the last to the first so ordinals stay valid.
func (r *Registry[T]) DetachAll() {
	for kind := KindCount; kind >= KindToken; kind-- {
		for len(r.marks[kind]) > 0 {
			idx := len(r.marks[kind]) - 1
			m := r.marks[kind][idx]
			r.removeAt(kind, idx)
			if r.watcher != nil {
				r.watcher.Detached(m, idx)
			}
		}
	}
}
