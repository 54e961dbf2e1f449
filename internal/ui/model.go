// Package ui hosts a contact field in a Bubble Tea program. The program's
// update loop is the field's single thread: posted operations run on the
// drain message scheduled after each update.
package ui

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tokenfield/internal/chip"
	"tokenfield/internal/config"
	"tokenfield/internal/contact"
	"tokenfield/internal/diag"
	"tokenfield/internal/field"
	"tokenfield/internal/layout"
	"tokenfield/internal/suggest"
	"tokenfield/internal/trace"
)

const maxLog = 6

// Options configures the demo model.
type Options struct {
	Config  config.File
	Loader  func() (config.File, *diag.Bag, error) // reloads Config on change
	Changes <-chan struct{}                        // config change notifications
	Save    func(*field.Field[contact.Person]) error
	Restore func(*field.Field[contact.Person]) error
	Tracer  trace.Tracer
	Ctx     context.Context
}

type model struct {
	opts     Options
	f        *field.Field[contact.Person]
	views    *chip.Renderer[contact.Person]
	adapter  *suggest.Filtered[contact.Person]
	people   []contact.Person
	grid     layout.Grid
	fixed    int
	keys     keyMap
	help     help.Model
	cursor   int
	log      []string
	status   string
	width    int
	quitting bool
}

type drainMsg struct{}
type reloadMsg struct{}

// New builds the demo model.
func New(opts Options) (tea.Model, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	cfg, err := opts.Config.FieldConfig()
	if err != nil {
		return nil, err
	}
	m := &model{
		opts:   opts,
		views:  chip.New[contact.Person](),
		people: opts.Config.People(),
		fixed:  opts.Config.View.Width,
		keys:   defaultKeys(),
		help:   help.New(),
		width:  80,
	}
	m.views.MaxWidth = opts.Config.View.ChipMaxWidth
	m.adapter = contact.NewAdapter(m.people)
	m.grid = layout.Grid{Width: m.fieldWidth()}
	m.f = field.New(cfg,
		field.WithListener[contact.Person](field.ListenerFuncs[contact.Person]{
			Added:   func(p contact.Person) { m.logf("added %s", p.Name) },
			Removed: func(p contact.Person) { m.logf("removed %s", p.Name) },
			Ignored: func(p contact.Person) { m.logf("ignored %s", p.Name) },
		}),
		field.WithDefaultObject[contact.Person](contact.DefaultObject),
		field.WithAdapter[contact.Person](m.adapter),
		field.WithViews[contact.Person](m.views),
		field.WithMetrics[contact.Person](&m.grid),
		field.WithTracer[contact.Person](opts.Tracer),
		field.WithFocus[contact.Person](true),
	)
	if opts.Restore != nil {
		if err := opts.Restore(m.f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(drain, m.listenForChanges())
}

func drain() tea.Msg { return drainMsg{} }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case drainMsg:
		if err := m.f.Drain(); err != nil {
			m.logf("error: %v", err)
		}
		return m, nil
	case reloadMsg:
		m.reload()
		return m, tea.Batch(drain, m.listenForChanges())
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
			m.grid.Width = m.fieldWidth()
		}
		return m, nil
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if off, ok := m.offsetAt(msg.X, msg.Y); ok {
				m.check(m.f.Click(off))
			}
		}
		return m, drain
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
		return m, drain
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	f := m.f
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.save()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Focus):
		m.check(f.SetFocus(!f.Focused()))
	case !f.Focused():
		// blurred fields only take the commands above and the demo buttons
		return m.handleButtons(msg)
	case key.Matches(msg, m.keys.Commit):
		m.check(f.Commit())
		m.cursor = 0
	case key.Matches(msg, m.keys.Accept):
		if n := len(f.Suggestions()); n > 0 {
			m.check(f.SelectSuggestion(min(m.cursor, n-1)))
		}
		m.cursor = 0
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(0, len(f.Suggestions())-1))
	case key.Matches(msg, m.keys.Left):
		f.MoveCaret(-1)
	case key.Matches(msg, m.keys.Right):
		f.MoveCaret(1)
	case key.Matches(msg, m.keys.Home):
		f.SetSelection(0, 0)
	case key.Matches(msg, m.keys.End):
		f.SetSelection(f.Len(), f.Len())
	case key.Matches(msg, m.keys.Backspace):
		m.check(f.Backspace())
	case key.Matches(msg, m.keys.Delete):
		m.check(f.DeleteForward())
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		m.check(f.InsertText(string(msg.Runes)))
		m.cursor = 0
	default:
		return m.handleButtons(msg)
	}
	return nil
}

// handleButtons covers the demo's add, remove, clear and save actions.
func (m *model) handleButtons(msg tea.KeyMsg) tea.Cmd {
	f := m.f
	switch {
	case key.Matches(msg, m.keys.Add):
		p := m.people[rand.IntN(len(m.people))]
		f.AddObjectWithText(p, p.Name)
	case key.Matches(msg, m.keys.Remove):
		if objs := f.Objects(); len(objs) > 0 {
			f.RemoveObject(objs[0])
		}
	case key.Matches(msg, m.keys.Clear):
		f.Clear()
	case key.Matches(msg, m.keys.Save):
		m.save()
	}
	return nil
}

func (m *model) save() {
	if m.opts.Save == nil {
		return
	}
	if err := m.opts.Save(m.f); err != nil {
		m.logf("save failed: %v", err)
		return
	}
	m.status = "saved"
}

func (m *model) reload() {
	if m.opts.Loader == nil {
		return
	}
	file, bag, err := m.opts.Loader()
	for _, d := range bag.Items() {
		m.logf("%s", d.String())
	}
	if err == nil {
		var cfg field.Config
		if cfg, err = file.FieldConfig(); err == nil {
			err = m.f.Apply(cfg)
		}
	}
	if err != nil {
		d := diag.NewError(diag.CfgReloadFailed, diag.Location{Source: "config"}, err.Error())
		m.logf("%s", d.String())
		m.status = "reload failed"
		return
	}
	m.opts.Config = file
	m.fixed = file.View.Width
	m.views.MaxWidth = file.View.ChipMaxWidth
	m.people = file.People()
	m.adapter.SetItems(m.people)
	m.grid.Width = m.fieldWidth()
	m.status = "config reloaded"
}

func (m *model) listenForChanges() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-m.opts.Changes:
			if !ok {
				return nil
			}
			return reloadMsg{}
		case <-m.opts.Ctx.Done():
			return nil
		}
	}
}

func (m *model) fieldWidth() int {
	if m.fixed > 0 {
		return m.fixed
	}
	return max(m.width-4, 10)
}

func (m *model) check(err error) {
	if err != nil {
		m.logf("error: %v", err)
	}
}

func (m *model) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > maxLog {
		m.log = m.log[len(m.log)-maxLog:]
	}
}
