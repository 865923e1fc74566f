package components

import "charm.land/bubbles/v2/key"

// CardKeys are the answer card bindings.
type CardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

// DefaultCardKeys returns the standard answer card bindings. Digit keys are
// handled separately since their meaning depends on the option count.
func DefaultCardKeys() CardKeys {
	return CardKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "answer"),
		),
	}
}
