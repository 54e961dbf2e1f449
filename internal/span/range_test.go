package span

import "testing"

func TestRange_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		shift    int
		expected Range
	}{
		{name: "shift normal range left by 5", r: Range{10, 20}, shift: 5, expected: Range{5, 15}},
		{name: "shift by 0", r: Range{10, 20}, shift: 0, expected: Range{10, 20}},
		{name: "shift equals start", r: Range{10, 20}, shift: 10, expected: Range{0, 10}},
		{name: "shift larger than start returns original", r: Range{10, 20}, shift: 15, expected: Range{10, 20}},
		{name: "range at position 0", r: Range{0, 10}, shift: 5, expected: Range{0, 10}},
		{name: "zero-length range", r: Range{10, 10}, shift: 3, expected: Range{7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestRange_Shift(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		delta    int
		expected Range
	}{
		{name: "positive", r: Range{4, 8}, delta: 3, expected: Range{7, 11}},
		{name: "negative", r: Range{4, 8}, delta: -2, expected: Range{2, 6}},
		{name: "zero", r: Range{4, 8}, delta: 0, expected: Range{4, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Shift(tt.delta); got != tt.expected {
				t.Errorf("Shift() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestRange_Predicates(t *testing.T) {
	r := Range{Start: 3, End: 6}
	if r.Empty() || r.Len() != 3 {
		t.Fatalf("unexpected shape for %s", r)
	}
	if !r.Contains(3) || !r.Contains(5) || r.Contains(6) || r.Contains(2) {
		t.Errorf("Contains boundaries wrong for %s", r)
	}
	if !r.Overlaps(Range{5, 9}) || r.Overlaps(Range{6, 9}) || r.Overlaps(Range{0, 3}) {
		t.Errorf("Overlaps boundaries wrong for %s", r)
	}
	if got := r.Cover(Range{1, 4}); got != (Range{1, 6}) {
		t.Errorf("Cover() = %s, want 1-6", got)
	}
	if (Range{5, 5}).Len() != 0 || (Range{6, 2}).Len() != 0 {
		t.Errorf("degenerate ranges must have zero length")
	}
}
