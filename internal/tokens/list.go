// Package tokens holds the ordered list of committed token objects.
package tokens

// Outcome is the result of offering a token to a List.
type Outcome uint8

const (
	Accepted Outcome = iota
	Duplicate
	LimitReached
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case LimitReached:
		return "limit"
	default:
		return "unknown"
	}
}

// Policy bounds what a List accepts. Limit 0 means no limit.
type Policy struct {
	AllowDuplicates bool
	Limit           int
}

// List is the ordered token model. Order is buffer order of visible tokens
// followed by hidden ones; callers keep it that way by passing ordinals.
type List[T comparable] struct {
	items  []T
	policy Policy
}

func NewList[T comparable](p Policy) *List[T] {
	return &List[T]{policy: p}
}

func (l *List[T]) Policy() Policy { return l.policy }

func (l *List[T]) SetPolicy(p Policy) { l.policy = p }

// Check reports whether tok would be accepted without changing the list.
func (l *List[T]) Check(tok T) Outcome {
	if l.Full() {
		return LimitReached
	}
	if !l.policy.AllowDuplicates && l.Contains(tok) {
		return Duplicate
	}
	return Accepted
}

// Full reports whether the token limit has been reached.
func (l *List[T]) Full() bool {
	return l.policy.Limit > 0 && len(l.items) >= l.policy.Limit
}

// Add inserts tok at ordinal at (clamped to the list bounds) when the
// policy allows it.
func (l *List[T]) Add(tok T, at int) Outcome {
	if out := l.Check(tok); out != Accepted {
		return out
	}
	l.Insert(tok, at)
	return Accepted
}

// Insert places tok at ordinal at without consulting the policy.
func (l *List[T]) Insert(tok T, at int) {
	if at < 0 || at > len(l.items) {
		at = len(l.items)
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[at+1:], l.items[at:])
	l.items[at] = tok
}

// Remove drops the element at ordinal at when it equals tok, otherwise the
// first element equal to tok.
func (l *List[T]) Remove(tok T, at int) bool {
	if at < 0 || at >= len(l.items) || l.items[at] != tok {
		at = l.Index(tok)
	}
	if at < 0 {
		return false
	}
	copy(l.items[at:], l.items[at+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return true
}

// Index returns the first position of tok, or -1.
func (l *List[T]) Index(tok T) int {
	for i, it := range l.items {
		if it == tok {
			return i
		}
	}
	return -1
}

func (l *List[T]) Contains(tok T) bool {
	return l.Index(tok) >= 0
}

// All returns a copy of the tokens in list order.
func (l *List[T]) All() []T {
	return append([]T(nil), l.items...)
}

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) Reset() {
	l.items = nil
}
