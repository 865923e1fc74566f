package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizcard/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a validation message.
type TextInput struct {
	Model textinput.Model
	Label string
	err   string
}

// NewTextInput creates a focused input.
func NewTextInput(label, placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Label: label}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		t.err = ""
	}
	return t, cmd
}

func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		b.WriteString(t.Label + "\n")
	}
	b.WriteString(t.Model.View())
	if t.err != "" {
		b.WriteString("\n" + theme.Incorrect.Render(t.err))
	}
	return b.String()
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetError shows msg under the input until the next key press.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}

// Err returns the message set by SetError.
func (t TextInput) Err() string {
	return t.err
}
