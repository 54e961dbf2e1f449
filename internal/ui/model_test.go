package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenfield/internal/config"
	"tokenfield/internal/contact"
	"tokenfield/internal/diag"
	"tokenfield/internal/field"
)

func newTestModel(t *testing.T, opts Options) *model {
	t.Helper()
	if opts.Config.Field.ClickStyle == "" {
		opts.Config = config.Default()
		opts.Config.Field.DeletionStyle = "to-string"
	}
	tm, err := New(opts)
	require.NoError(t, err)
	m := tm.(*model)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// send delivers msg and runs the drain the update schedules.
func send(m *model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if _, ok := cmd().(drainMsg); ok {
		m.Update(drainMsg{})
	}
}

func typeKeys(m *model, s string) {
	for _, r := range s {
		if r == ' ' {
			send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTypingCommitsContact(t *testing.T) {
	m := newTestModel(t, Options{})
	typeKeys(m, "mar,")

	assert.Equal(t, []contact.Person{contact.Samples()[0]}, m.f.Objects())
	assert.Equal(t, "To: Marshall Weir, ", m.f.Text())
	assert.Contains(t, m.View(), "Marshall Weir")
	assert.Contains(t, strings.Join(m.log, "\n"), "added Marshall Weir")
}

func TestTabPicksHighlightedSuggestion(t *testing.T) {
	m := newTestModel(t, Options{})
	typeKeys(m, "ma")
	send(m, tea.KeyMsg{Type: tea.KeyDown})
	send(m, tea.KeyMsg{Type: tea.KeyTab})

	require.Len(t, m.f.Objects(), 1)
	assert.Equal(t, "Margaret Smith", m.f.Objects()[0].Name)
}

func TestButtonsPostAndDrain(t *testing.T) {
	cfg := config.Default()
	cfg.Field.DeletionStyle = "to-string"
	cfg.Contacts = []contact.Person{{Name: "Ada", Email: "ada@example.com"}}
	m := newTestModel(t, Options{Config: cfg})

	send(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	send(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "To: Ada, Ada, ", m.f.Text())

	send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.f.Objects())
	assert.Equal(t, "To: ", m.f.Text())

	send(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Len(t, m.f.Objects(), 1)
	send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Empty(t, m.f.Objects())
}

func TestEscTogglesFocus(t *testing.T) {
	m := newTestModel(t, Options{})
	typeKeys(m, "bob")
	send(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.f.Focused())
	assert.Len(t, m.f.Objects(), 1, "blur commits the typed text")
	assert.Contains(t, m.View(), "blurred")

	typeKeys(m, "x")
	assert.NotContains(t, m.f.Text(), "x")

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.f.Focused())
}

func TestMouseClickDeletesChip(t *testing.T) {
	cfg := config.Default()
	cfg.Field.DeletionStyle = "to-string"
	cfg.Field.ClickStyle = "delete"
	m := newTestModel(t, Options{Config: cfg})
	typeKeys(m, "mar,")
	require.Len(t, m.f.Objects(), 1)

	// "To: " takes four cells, so the chip starts at column 2+4.
	send(m, tea.MouseMsg{X: fieldIndent + 5, Y: fieldRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Empty(t, m.f.Objects())
}

func TestOffsetAt(t *testing.T) {
	m := newTestModel(t, Options{})
	typeKeys(m, "mar,")

	off, ok := m.offsetAt(fieldIndent, fieldRow)
	require.True(t, ok)
	assert.Equal(t, 0, off)

	off, ok = m.offsetAt(fieldIndent+6, fieldRow)
	require.True(t, ok)
	assert.Equal(t, 4, off, "any cell of a chip maps to its start")

	_, ok = m.offsetAt(0, 0)
	assert.False(t, ok)
}

func TestReloadAppliesConfig(t *testing.T) {
	changes := make(chan struct{}, 1)
	next := config.Default()
	next.Field.Prefix = "Cc: "
	m := newTestModel(t, Options{
		Changes: changes,
		Loader:  func() (config.File, *diag.Bag, error) { return next, diag.NewBag(0), nil },
	})

	changes <- struct{}{}
	msg := m.listenForChanges()()
	require.IsType(t, reloadMsg{}, msg)
	m.Update(msg)

	assert.Equal(t, "Cc: ", m.f.Text())
	assert.Equal(t, "config reloaded", m.status)
}

func TestReloadFailureKeepsConfig(t *testing.T) {
	m := newTestModel(t, Options{
		Loader: func() (config.File, *diag.Bag, error) {
			return config.File{}, diag.NewBag(0), config.ErrInvalid
		},
	})
	before := m.f.Config()

	m.Update(reloadMsg{})

	assert.Equal(t, "reload failed", m.status)
	assert.Equal(t, before, m.f.Config())
	require.NotEmpty(t, m.log)
	assert.Contains(t, m.log[len(m.log)-1], "CFG2004")
}

func TestSaveOnQuit(t *testing.T) {
	var saved int
	m := newTestModel(t, Options{Save: func(*field.Field[contact.Person]) error {
		saved++
		return nil
	}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, saved)
	assert.Equal(t, "", m.View())
}
