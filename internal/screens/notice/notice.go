// Package notice shows a short message, such as a missing configuration,
// until the player goes back.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/ui/layout"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

type NoticeScreen struct {
	title   string
	message string
	isError bool
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

func New(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message}
}

// NewError creates a notice drawn in the error colour.
func NewError(title string, err error) *NoticeScreen {
	return &NoticeScreen{title: title, message: err.Error(), isError: true}
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return n, router.Pop
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	fg := theme.Text
	if n.isError {
		fg = theme.Error
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(fg).
		Render(n.message)
}

func (n *NoticeScreen) Title() string {
	return n.title
}

func (n *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter/Esc", Description: "Back"}}
}
