package span

import "fmt"

// Range is a half-open rune interval [Start, End) of the field buffer.
type Range struct {
	Start int // inclusive
	End   int // exclusive
}

func (r Range) Empty() bool {
	return r.Start >= r.End
}

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Contains reports whether offset lies inside [Start, End).
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// Overlaps reports whether the two ranges share at least one offset.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Cover returns the smallest range containing both r and other.
func (r Range) Cover(other Range) Range {
	if other.Start < r.Start {
		r.Start = other.Start
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// ShiftLeft moves the range n offsets towards the buffer start.
// A shift that would cross offset 0 leaves the range unchanged.
func (r Range) ShiftLeft(n int) Range {
	if n > r.Start {
		return r
	}
	return Range{Start: r.Start - n, End: r.End - n}
}

// ShiftRight moves the range n offsets towards the buffer end.
func (r Range) ShiftRight(n int) Range {
	return Range{Start: r.Start + n, End: r.End + n}
}

// Shift moves the range by a signed delta.
func (r Range) Shift(delta int) Range {
	if delta < 0 {
		return r.ShiftLeft(-delta)
	}
	return r.ShiftRight(delta)
}
