// Package app wires the router into a Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/screens/home"
	"github.com/abhisek/quizcard/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(deps home.Deps) AppModel {
	return AppModel{router: router.New(home.New(deps))}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) hints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	status := ""
	if p, ok := active.(screen.StatusProvider); ok {
		status = p.Status()
	}

	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	contentHeight := layout.ContentHeight(m.height, lipgloss.Height(header), lipgloss.Height(footer))

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the terminal UI and blocks until the player quits.
func Run(deps home.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
