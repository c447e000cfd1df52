package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Form screens only bind keys that cannot be typed into an input.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	toggle   key.Binding
	submit   key.Binding
	back     key.Binding
	signup   key.Binding
	upload   key.Binding
	refresh  key.Binding
	dyslexia key.Binding
	export   key.Binding
	logout   key.Binding
	quit     key.Binding
	exit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		signup:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create account")),
		upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		dyslexia: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dyslexia support")),
		export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		logout:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "logout")),
		quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		exit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.exit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.submit, k.back},
		{k.left, k.right, k.toggle},
		{k.upload, k.refresh, k.dyslexia, k.export},
		{k.logout, k.quit, k.exit},
	}
}
