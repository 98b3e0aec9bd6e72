package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sadopc/farmrun/internal/store"
)

type keyMap struct {
	NextRun   key.Binding
	Pause     key.Binding
	Finish    key.Binding
	Search    key.Binding
	Special   key.Binding
	Reload    key.Binding
	Delete    key.Binding
	Export    key.Binding
	Filter    key.Binding
	Enter     key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Quit      key.Binding
	Quality1  key.Binding
	Quality2  key.Binding
	Quality3  key.Binding
}

// newKeyMap builds the default bindings, then applies user overrides from
// config. Only the recorded key name is honored; modifier flags are already
// folded into it ("ctrl+n", "f5").
func newKeyMap(overrides map[string]store.KeyBinding) keyMap {
	k := keyMap{
		NextRun: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next run"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish session"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "record drop"),
		),
		Special: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle terror"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Filter: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scene filter"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Quality1: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "normal"),
		),
		Quality2: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "magic"),
		),
		Quality3: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "rare"),
		),
	}

	apply := func(b *key.Binding, action string) {
		if v, ok := overrides[action]; ok && v.Name != "" {
			b.SetKeys(v.Name)
			b.SetHelp(v.Name, b.Help().Desc)
		}
	}
	apply(&k.NextRun, "nextRun")
	apply(&k.Pause, "pause")
	apply(&k.Finish, "finishSession")
	apply(&k.Search, "search")
	apply(&k.Special, "toggleSpecial")
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextRun, k.Pause, k.Finish, k.Search, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextRun, k.Pause, k.Finish},
		{k.Search, k.Special, k.Export},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
