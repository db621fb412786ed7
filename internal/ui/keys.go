package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the panel's key bindings.
type KeyMap struct {
	Lock        key.Binding
	AutoLock    key.Binding
	Wireless    key.Binding
	Maintenance key.Binding
	Logs        key.Binding
	Restart     key.Binding
	Reboot      key.Binding
	Shutdown    key.Binding
	Acknowledge key.Binding
	Help        key.Binding
	Quit        key.Binding

	// Flyout keys
	Accept  key.Binding
	Dismiss key.Binding
	Toggle  key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Lock:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock now")),
		AutoLock:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle auto-lock")),
		Wireless:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wireless")),
		Maintenance: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maintenance")),
		Logs:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "logs")),
		Restart:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart service")),
		Reboot:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "reboot")),
		Shutdown:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shutdown")),
		Acknowledge: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear notices")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lock, k.Wireless, k.Shutdown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Lock, k.AutoLock, k.Acknowledge},
		{k.Wireless, k.Maintenance, k.Logs},
		{k.Restart, k.Reboot, k.Shutdown},
		{k.Help, k.Quit},
	}
}
