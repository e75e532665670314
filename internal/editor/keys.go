package editor

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Next  key.Binding
	Prev  key.Binding

	// Editing
	Backspace key.Binding
	Clear     key.Binding
	Undo      key.Binding
	Redo      key.Binding

	// Modes
	Hex       key.Binding
	Signed    key.Binding
	Unsigned  key.Binding
	CycleMode key.Binding

	// Commands
	CopyField    key.Binding
	CopyRegister key.Binding
	Help         key.Binding
	Accept       key.Binding
	Cancel       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "row above"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "row below"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "more significant field"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "less significant field"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete character"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear field"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Hex: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "hexadecimal"),
		),
		Signed: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "signed"),
		),
		Unsigned: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "unsigned"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "cycle mode"),
		),
		CopyField: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "copy field"),
		),
		CopyRegister: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "copy register bytes"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("F1/?", "help"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// helpSections groups bindings for the help screen.
func (k KeyMap) helpSections() []struct {
	title    string
	bindings []key.Binding
} {
	return []struct {
		title    string
		bindings []key.Binding
	}{
		{"NAVIGATION", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Next, k.Prev}},
		{"EDITING", []key.Binding{k.Backspace, k.Clear, k.Undo, k.Redo}},
		{"FORMAT", []key.Binding{k.Hex, k.Signed, k.Unsigned, k.CycleMode}},
		{"OTHER", []key.Binding{k.CopyField, k.CopyRegister, k.Help, k.Accept, k.Cancel}},
	}
}
