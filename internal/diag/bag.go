package diag

import (
	"sort"
	"strings"
)

// Bag collects diagnostics from a field session, a script or a config load.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most max diagnostics; max <= 0 means no cap.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{max: max}
}

// Add appends d unless the bag is full and reports whether it did.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors reports a diagnostic at SevError or above.
func (b *Bag) HasErrors() bool {
	return b.AtLeast(SevError)
}

func (b *Bag) HasWarnings() bool {
	return b.AtLeast(SevWarning)
}

// AtLeast reports a diagnostic at min or above.
func (b *Bag) AtLeast(min Severity) bool {
	if b == nil {
		return false
	}
	for i := range b.items {
		if b.items[i].Severity >= min {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items returns the bag's own slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Codes returns the codes in bag order.
func (b *Bag) Codes() []Code {
	out := make([]Code, 0, b.Len())
	for _, d := range b.Items() {
		out = append(out, d.Code)
	}
	return out
}

// Merge appends other's diagnostics, growing the cap when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by source, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Source != dj.Primary.Source {
			return di.Primary.Source < dj.Primary.Source
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup keeps the first diagnostic per code and primary location.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		loc  Location
	}
	seen := make(map[key]bool)
	items := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		k := key{d.Code, d.Primary}
		if seen[k] {
			continue
		}
		seen[k] = true
		items = append(items, d)
	}
	b.items = items
}

// Format renders one diagnostic per line in bag order.
func (b *Bag) Format() string {
	var sb strings.Builder
	for i, d := range b.Items() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
		for _, n := range d.Notes {
			sb.WriteString("\n  note: ")
			sb.WriteString(n.Loc.String())
			sb.WriteByte(' ')
			sb.WriteString(n.Msg)
		}
	}
	return sb.String()
}
