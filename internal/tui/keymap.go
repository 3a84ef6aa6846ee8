package tui

import (
	"github.com/alkime/voicepost/internal/content"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for every stage.
type KeyMap struct {
	Record    key.Binding
	Continue  key.Binding
	Copy      map[content.Platform]key.Binding
	Publish   key.Binding
	Reset     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Record: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/stop recording"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Copy: map[content.Platform]key.Binding{
			content.Twitter: key.NewBinding(
				key.WithKeys("1"),
				key.WithHelp("1", "copy twitter"),
			),
			content.LinkedIn: key.NewBinding(
				key.WithKeys("2"),
				key.WithHelp("2", "copy linkedin"),
			),
			content.Instagram: key.NewBinding(
				key.WithKeys("3"),
				key.WithHelp("3", "copy instagram"),
			),
		},
		Publish: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "publish selected"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start over"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}

// ShortHelp returns the bindings shown on every screen.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Quit}
}

// FullHelp returns all bindings grouped by stage.
func (k KeyMap) FullHelp() [][]key.Binding {
	copyKeys := make([]key.Binding, 0, len(k.Copy))
	for _, p := range content.Platforms() {
		copyKeys = append(copyKeys, k.Copy[p])
	}

	return [][]key.Binding{
		{k.Record, k.Continue},
		append(copyKeys, k.Publish),
		{k.Reset, k.Quit, k.ForceQuit},
	}
}
