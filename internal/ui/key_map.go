package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Bindings that are printable characters are ignored while a text field has focus.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	pick   key.Binding
	pane   key.Binding
	check  key.Binding
	reset  key.Binding
	export key.Binding
	back   key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/drop")),
		pick:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		pane:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tray/targets")),
		check:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "check")),
		reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		export: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export report")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.check, k.reset, k.back, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.pick, k.pane},
		{k.check, k.reset, k.export},
		{k.back, k.help, k.quit},
	}
}
