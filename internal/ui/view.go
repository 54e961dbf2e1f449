package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"tokenfield/internal/chip"
	"tokenfield/internal/contact"
	"tokenfield/internal/layout"
	"tokenfield/internal/span"
)

const (
	fieldRow    = 2 // first screen row of the field
	fieldIndent = 2
	maxShown    = 5
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	caretStyle   = lipgloss.NewStyle().Reverse(true)
	pickedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	state := "focused"
	if !m.f.Focused() {
		state = "blurred"
	}
	b.WriteString(titleStyle.Render("tokenfield") + " " + blurredStyle.Render(state))
	b.WriteString("\n\n")

	doc := m.f.Doc()
	for _, l := range m.grid.Lines(doc) {
		b.WriteString(strings.Repeat(" ", fieldIndent))
		b.WriteString(m.renderLine(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.f.Focused() && m.f.EnoughToFilter() {
		for i, p := range m.f.Suggestions() {
			if i == maxShown {
				break
			}
			marker := "    "
			if i == m.cursor {
				marker = "  › "
			}
			line := chip.Truncate(fmt.Sprintf("%s%s <%s>", marker, p.Name, p.Email), m.width)
			if i == m.cursor {
				line = pickedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(wordwrap.String(m.statusText(), max(m.width-fieldIndent, 20))))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *model) statusText() string {
	names := make([]string, 0, len(m.f.Objects()))
	for _, p := range m.f.Objects() {
		names = append(names, p.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "objects (%d): %s", len(names), strings.Join(names, ", "))
	if h := m.f.Hidden(); len(h) > 0 {
		fmt.Fprintf(&b, "\nhidden: %d", len(h))
	}
	if m.status != "" {
		fmt.Fprintf(&b, "\n%s", m.status)
	}
	for _, l := range m.log {
		fmt.Fprintf(&b, "\n%s", l)
	}
	return b.String()
}

// renderLine draws one wrapped line of the buffer.
func (m *model) renderLine(l layout.Line) string {
	f := m.f
	text := []rune(f.Text())
	caret := -1
	if f.Focused() {
		caret = f.Caret()
	}
	chips := map[int]*span.Mark[contact.Person]{}
	for _, mk := range f.TokenMarks() {
		chips[mk.Start] = mk
	}
	var hint, count *span.Mark[contact.Person]
	for _, mk := range f.Marks() {
		switch mk.Kind {
		case span.KindHint:
			hint = mk
		case span.KindCount:
			count = mk
		}
	}
	sel, hasSel := f.Selected()

	var b strings.Builder
	for i := l.Start; i < l.End; {
		if mk, ok := chips[i]; ok {
			v := m.views.Render(mk.Token, hasSel && sel == mk.Token)
			s := v.Text
			if i == caret {
				s = lipgloss.NewStyle().Underline(true).Render(s)
			}
			b.WriteString(s)
			i = mk.End
			continue
		}
		s := string(text[i])
		switch {
		case i == caret:
			s = caretStyle.Render(s)
		case hint != nil && hint.Contains(i):
			s = hintStyle.Render(s)
		case count != nil && count.Contains(i):
			s = countStyle.Render(s)
		}
		b.WriteString(s)
		i++
	}
	if caret == len(text) && l.End == len(text) {
		b.WriteString(caretStyle.Render(" "))
	}
	return b.String()
}

// offsetAt maps a screen cell to a buffer offset.
func (m *model) offsetAt(x, y int) (int, bool) {
	row := y - fieldRow
	col := x - fieldIndent
	doc := m.f.Doc()
	lines := m.grid.Lines(doc)
	if row < 0 || row >= len(lines) || col < 0 {
		return 0, false
	}
	l := lines[row]
	chips := map[int]layout.Chip{}
	for _, c := range doc.Chips {
		chips[c.Start] = c
	}
	at := 0
	for i := l.Start; i < l.End; {
		w := runewidth.RuneWidth(doc.Text[i])
		next := i + 1
		if c, ok := chips[i]; ok {
			w, next = c.Width, c.End
		}
		if col < at+w {
			return i, true
		}
		at += w
		i = next
	}
	return l.End, true
}
