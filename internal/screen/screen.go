// Package screen defines the contract between the router and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizcard/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only; the app draws header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen put a short status on the right of the
// header, such as the running score.
type StatusProvider interface {
	Status() string
}

// EscapeHandler lets a screen consume Esc itself instead of being popped.
type EscapeHandler interface {
	HandlesEscape() bool
}
