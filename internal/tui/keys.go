package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	trigger   key.Binding
	rangeNext key.Binding
	rangePrev key.Binding
	countUp   key.Binding
	countDown key.Binding
	login     key.Binding
	help      key.Binding
	quit      key.Binding

	// action selects the bindings of the playlist screen for help output.
	action bool
}

func newKeyMap() keyMap {
	return keyMap{
		trigger: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		rangeNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next range"),
		),
		rangePrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev range"),
		),
		countUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "more tracks"),
		),
		countDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "fewer tracks"),
		),
		login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log in again"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if !k.action {
		return []key.Binding{k.trigger, k.quit}
	}
	return []key.Binding{k.trigger, k.rangePrev, k.rangeNext, k.countUp, k.countDown, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	if !k.action {
		return [][]key.Binding{{k.trigger}, {k.help, k.quit}}
	}
	return [][]key.Binding{
		{k.trigger, k.login},
		{k.rangePrev, k.rangeNext, k.countUp, k.countDown},
		{k.help, k.quit},
	}
}
