package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Commit    key.Binding
	Accept    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Focus     key.Binding
	Add       key.Binding
	Remove    key.Binding
	Clear     key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Commit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Accept:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pick suggestion")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "suggestions")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Delete:    key.NewBinding(key.WithKeys("delete")),
		Focus:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "focus/blur")),
		Add:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add sample")),
		Remove:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "remove first")),
		Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Focus, k.Add, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Commit, k.Accept, k.Up},
		{k.Focus, k.Add, k.Remove, k.Clear},
		{k.Save, k.Help, k.Quit},
	}
}
