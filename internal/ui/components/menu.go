package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizcard/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled items are drawn dim and skipped
// by the cursor.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			return m, nil
		}
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// step returns the next enabled index in direction dir, or the current one.
func (m Menu) step(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Dimmed.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Cursor.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Neutral.Render("    " + item.Label))
		}
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
