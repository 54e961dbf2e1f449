package span

// Kind tells what a mark annotates.
type Kind uint8

const (
	// KindToken marks a committed token; its range ends with the sentinel.
	KindToken Kind = iota + 1
	// KindHint marks the placeholder text shown after the prefix.
	KindHint
	// KindCount marks the "+N" overflow text shown while collapsed.
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindHint:
		return "hint"
	case KindCount:
		return "count"
	default:
		return "unknown"
	}
}

// Mark is a range annotation anchored to buffer offsets. Marks have identity:
// the same *Mark can be detached and attached again (collapse does this).
type Mark[T any] struct {
	Range
	Kind  Kind
	Token T      // KindToken payload
	Count int    // KindCount hidden token count
	Text  string // buffer text the mark was created over, trailing space included

	id       uint64
	attached bool
}

// NewToken returns an unattached token mark.
func NewToken[T any](r Range, tok T) *Mark[T] {
	return &Mark[T]{Range: r, Kind: KindToken, Token: tok}
}

// NewHint returns an unattached hint mark.
func NewHint[T any](r Range) *Mark[T] {
	return &Mark[T]{Range: r, Kind: KindHint}
}

// NewCount returns an unattached count mark for n hidden tokens.
func NewCount[T any](r Range, n int) *Mark[T] {
	return &Mark[T]{Range: r, Kind: KindCount, Count: n}
}

// ID is assigned on first attach and kept across re-attachment.
func (m *Mark[T]) ID() uint64 { return m.id }

// Attached reports whether the mark currently lives in a registry.
func (m *Mark[T]) Attached() bool { return m.attached }
