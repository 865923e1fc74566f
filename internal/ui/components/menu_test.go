package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type pickedMsg string

func pick(s string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return pickedMsg(s) }
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Play", Action: pick("play")},
		{Label: "Also off", Disabled: true},
		{Label: "Quit", Action: pick("quit")},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("expected 3, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("cursor should stay at the end, got %d", m.Selected)
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || cmd() != pickedMsg("quit") {
		t.Error("expected the quit action")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	m, _ = m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if m.Selected != 1 {
		t.Errorf("expected 1, got %d", m.Selected)
	}
}

func TestMenu_View(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Play", Detail: "12 questions"},
		{Label: "History"},
	})
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "▸ Play") || !strings.Contains(out, "12 questions") {
		t.Errorf("unexpected view:\n%s", out)
	}
	if strings.Contains(out, "▸ History") {
		t.Errorf("only the selected item has a cursor:\n%s", out)
	}
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("Score", 3, 4, 40)
	if p.Fraction() != 0.75 {
		t.Errorf("expected 0.75, got %v", p.Fraction())
	}
	if !strings.Contains(ansi.Strip(p.View()), "3/4") {
		t.Error("expected count in view")
	}
	if (ProgressBar{Done: 5, Total: 0}).Fraction() != 0 {
		t.Error("zero total should be empty")
	}
	if (ProgressBar{Done: 9, Total: 3}).Fraction() != 1 {
		t.Error("fraction is clamped to 1")
	}
}

func TestTextInput_Error(t *testing.T) {
	ti := NewTextInput("Topic", "e.g. volcanoes", 80)
	ti.SetError("topic is required")
	if !strings.Contains(ansi.Strip(ti.View()), "topic is required") {
		t.Error("expected error in view")
	}
	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if ti.Err() != "" {
		t.Error("key press should clear the error")
	}
	if ti.Value() != "a" {
		t.Errorf("expected value a, got %q", ti.Value())
	}
}
