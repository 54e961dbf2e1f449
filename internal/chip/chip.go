// Package chip renders tokens as terminal chips.
package chip

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokenfield/internal/field"
)

// DefaultMaxWidth bounds a chip label before it is truncated.
const DefaultMaxWidth = 24

// View is a rendered chip.
type View struct {
	Text string
}

func (v View) Width() int { return lipgloss.Width(v.Text) }

// Renderer draws tokens as padded, colored boxes. It implements
// field.ViewFactory.
type Renderer[T any] struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	MaxWidth int
	Label    func(T) string
}

var _ field.ViewFactory[string] = (*Renderer[string])(nil)

// New returns a Renderer with the default palette.
func New[T any]() *Renderer[T] {
	return &Renderer[T]{
		Normal:   lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
		Selected: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7")).Background(lipgloss.Color("4")).Bold(true),
		MaxWidth: DefaultMaxWidth,
	}
}

// RenderToken renders tok unselected.
func (r *Renderer[T]) RenderToken(tok T) field.View {
	return r.Render(tok, false)
}

// Render renders tok with the selected style when sel is set.
func (r *Renderer[T]) Render(tok T, sel bool) View {
	style := r.Normal
	if sel {
		style = r.Selected
	}
	return View{Text: style.Render(r.label(tok))}
}

func (r *Renderer[T]) label(tok T) string {
	s := fmt.Sprint(tok)
	if r.Label != nil {
		s = r.Label(tok)
	}
	return Truncate(s, r.MaxWidth)
}

// Truncate cuts value to width cells, ending in "..." when there is room.
func Truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
