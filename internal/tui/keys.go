package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left         key.Binding
	Right        key.Binding
	Up           key.Binding
	Down         key.Binding
	Answer       key.Binding
	Play         key.Binding
	Replay       key.Binding
	Review       key.Binding
	Achievements key.Binding
	Focus        key.Binding
	Stats        key.Binding
	Goal         key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Answer:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		Play:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play new")),
		Replay:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replay")),
		Review:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "review mistake")),
		Achievements: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "achievements")),
		Focus:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Stats:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Goal:         key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "streak/goal")),
		NextTab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevTab:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Answer, k.Replay, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Play, k.Answer, k.Replay, k.Review},
		{k.Achievements, k.Focus, k.Stats, k.Goal},
		{k.NextTab, k.PrevTab, k.Help, k.Quit},
	}
}
