// Package layout measures a field buffer laid out on a terminal cell grid.
package layout

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// Chip is a buffer range drawn as one unbreakable box of Width cells.
type Chip struct {
	Start int
	End   int
	Width int
}

// Doc is the measured content: buffer runes plus chip overrides sorted by Start.
type Doc struct {
	Text  []rune
	Chips []Chip
}

// Metrics answers the line questions the collapse pass asks.
type Metrics interface {
	// LineVisibleEnd returns the offset just past the last non-space rune
	// of the given line.
	LineVisibleEnd(doc Doc, line int) int
	// DesiredWidth returns the cell width of [start, end) on a single line.
	DesiredWidth(doc Doc, start, end int) int
	// MaxAvailableWidth returns the cell width of one line.
	MaxAvailableWidth() int
}

// Line is one wrapped line as a half-open offset range.
type Line struct {
	Start int
	End   int
	Width int
}

type unit struct {
	start, end, width int
	space             bool
}

// units splits doc into chips, words and single spaces.
func units(doc Doc) []unit {
	var out []unit
	chip := 0
	for i := 0; i < len(doc.Text); {
		for chip < len(doc.Chips) && doc.Chips[chip].End <= i {
			chip++
		}
		if chip < len(doc.Chips) && doc.Chips[chip].Start == i {
			c := doc.Chips[chip]
			out = append(out, unit{start: c.Start, end: c.End, width: c.Width})
			i = c.End
			continue
		}
		r := doc.Text[i]
		if r == ' ' || r == '\n' {
			out = append(out, unit{start: i, end: i + 1, width: 1, space: true})
			i++
			continue
		}
		j, w := i, 0
		for j < len(doc.Text) && doc.Text[j] != ' ' && doc.Text[j] != '\n' {
			if chip < len(doc.Chips) && doc.Chips[chip].Start == j {
				break
			}
			w += runewidth.RuneWidth(doc.Text[j])
			j++
		}
		out = append(out, unit{start: i, end: j, width: w})
		i = j
	}
	return out
}

func widthOf(doc Doc, start, end int) int {
	w := 0
	for _, u := range units(doc) {
		if u.start >= end {
			break
		}
		if u.end <= start {
			continue
		}
		if u.space || (u.start >= start && u.end <= end) {
			w += u.width
			continue
		}
		// word cut by the range
		for i := max(u.start, start); i < min(u.end, end); i++ {
			w += runewidth.RuneWidth(doc.Text[i])
		}
	}
	return w
}

// Grid wraps greedily at unit boundaries for a fixed cell width.
type Grid struct {
	Width int
}

// Lines wraps doc. Trailing spaces hang on the line they follow; words wider
// than the grid are split by rune.
func (g Grid) Lines(doc Doc) []Line {
	width := g.Width
	if width <= 0 {
		width = math.MaxInt32
	}
	var lines []Line
	cur := Line{}
	flush := func(next int) {
		lines = append(lines, cur)
		cur = Line{Start: next, End: next}
	}
	for _, u := range units(doc) {
		if doc.Text[u.start] == '\n' {
			cur.End = u.end
			flush(u.end)
			continue
		}
		if u.space {
			cur.End = u.end
			cur.Width += u.width
			continue
		}
		if cur.Width+u.width > width && cur.End > cur.Start {
			flush(u.start)
		}
		if u.width <= width || u.end-u.start == 1 {
			cur.End = u.end
			cur.Width += u.width
			continue
		}
		for i := u.start; i < u.end; i++ {
			rw := runewidth.RuneWidth(doc.Text[i])
			if cur.Width+rw > width && cur.End > cur.Start {
				flush(i)
			}
			cur.End = i + 1
			cur.Width += rw
		}
	}
	lines = append(lines, cur)
	return lines
}

func (g Grid) LineVisibleEnd(doc Doc, line int) int {
	lines := g.Lines(doc)
	if line < 0 || line >= len(lines) {
		return len(doc.Text)
	}
	l := lines[line]
	end := l.End
	for end > l.Start && (doc.Text[end-1] == ' ' || doc.Text[end-1] == '\n') {
		end--
	}
	return end
}

func (g Grid) DesiredWidth(doc Doc, start, end int) int {
	return widthOf(doc, start, end)
}

func (g Grid) MaxAvailableWidth() int {
	if g.Width <= 0 {
		return math.MaxInt32
	}
	return g.Width
}

// Unbounded never wraps; everything sits on line 0.
type Unbounded struct{}

func (Unbounded) LineVisibleEnd(doc Doc, line int) int {
	return Grid{}.LineVisibleEnd(doc, line)
}

func (Unbounded) DesiredWidth(doc Doc, start, end int) int {
	return widthOf(doc, start, end)
}

func (Unbounded) MaxAvailableWidth() int { return math.MaxInt32 }
