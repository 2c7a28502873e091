package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the chart's key bindings. It implements help.KeyMap.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Next       key.Binding
	Prev       key.Binding
	Today      key.Binding
	Finer      key.Binding
	Coarser    key.Binding
	Add        key.Binding
	AddChild   key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Collapse   key.Binding
	Detail     key.Binding
	Search     key.Binding
	Copy       key.Binding
	SwitchPane key.Binding
	Help       key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "scroll down")),
		Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll left")),
		Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
		Next:       key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next task")),
		Prev:       key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "previous task")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "go to today")),
		Finer:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "finer scale")),
		Coarser:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "coarser scale")),
		Add:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		AddChild:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new child")),
		Delete:     key.NewBinding(key.WithKeys("delete", "backspace", "x"), key.WithHelp("del", "delete")),
		Edit:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Collapse:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "fold")),
		Detail:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the one-line help under the chart.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Edit, k.Add, k.Delete, k.Coarser, k.Search, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Next, k.Prev, k.Today},
		{k.Edit, k.Add, k.AddChild, k.Delete, k.Collapse, k.Copy},
		{k.Finer, k.Coarser, k.Detail, k.Search, k.SwitchPane, k.Help, k.Quit},
	}
}
