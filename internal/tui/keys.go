package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Sort      key.Binding
	Secondary key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	PageSize  key.Binding
	Open      key.Binding
	Back      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Secondary: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "then by"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "prev page"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "page size"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// viewKeys narrows the help to the bindings of one view.
type viewKeys struct {
	keyMap
	detail bool
}

func (k viewKeys) ShortHelp() []key.Binding {
	if k.detail {
		return []key.Binding{k.Back, k.Reload, k.Help, k.Quit}
	}
	return []key.Binding{k.Up, k.Down, k.Sort, k.NextPage, k.PrevPage, k.Open, k.Help, k.Quit}
}

func (k viewKeys) FullHelp() [][]key.Binding {
	if k.detail {
		return [][]key.Binding{{k.Back, k.Reload}, {k.Help, k.Quit}}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Left, k.Right, k.Sort, k.Secondary},
		{k.NextPage, k.PrevPage, k.PageSize},
		{k.Reload, k.Help, k.Quit},
	}
}

var _ help.KeyMap = viewKeys{}
