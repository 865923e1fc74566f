package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/feedback"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

// ChooseMsg is emitted when the player commits to an option. The card does
// not change its own view; the owner applies the choice and calls SetView.
type ChooseMsg struct {
	Index int
}

// OptionID is the stable identifier of option i on a card.
func OptionID(i int) string {
	return fmt.Sprintf("answer-option-%d", i)
}

// Marker returns the symbol drawn next to an option in state v.
func Marker(v feedback.VisualState) string {
	switch {
	case v.Revealed():
		return "✓"
	case v.Marked():
		return "✗"
	default:
		return " "
	}
}

// AnswerCard draws one question from its ViewModel and turns key presses
// into ChooseMsg while the view is interactive.
type AnswerCard struct {
	Number int // 1-based position in the session
	Total  int
	Text   string
	Keys   CardKeys

	view   feedback.ViewModel
	cursor int
}

// NewAnswerCard creates a card for question number of total.
func NewAnswerCard(text string, view feedback.ViewModel, number, total int) AnswerCard {
	return AnswerCard{
		Number: number,
		Total:  total,
		Text:   text,
		Keys:   DefaultCardKeys(),
		view:   view,
	}
}

// SetView replaces the ViewModel, typically after a choice was applied.
func (c *AnswerCard) SetView(view feedback.ViewModel) {
	c.view = view
	if c.cursor >= len(view.Entries) {
		c.cursor = 0
	}
}

// ViewModel returns the model the card is drawing.
func (c AnswerCard) ViewModel() feedback.ViewModel {
	return c.view
}

// Cursor returns the highlighted option index.
func (c AnswerCard) Cursor() int {
	return c.cursor
}

// Header is the "Question N of M" line.
func (c AnswerCard) Header() string {
	return fmt.Sprintf("Question %d of %d", c.Number, c.Total)
}

// Update handles navigation. Input is ignored once the view is no longer
// interactive.
func (c AnswerCard) Update(msg tea.Msg) (AnswerCard, tea.Cmd) {
	if !c.view.Interactive {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(kmsg, c.Keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(kmsg, c.Keys.Down):
		if c.cursor < len(c.view.Entries)-1 {
			c.cursor++
		}
	case key.Matches(kmsg, c.Keys.Choose):
		return c, choose(c.cursor)
	default:
		if i, ok := digit(kmsg.String(), len(c.view.Entries)); ok {
			c.cursor = i
			return c, choose(i)
		}
	}
	return c, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChooseMsg{Index: i} }
}

// digit maps "1".."9" to an option index below n.
func digit(s string, n int) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	i := int(s[0] - '1')
	return i, i < n
}

// Verdict returns the feedback line, or "" while unanswered.
func (c AnswerCard) Verdict() string {
	switch c.view.Verdict {
	case feedback.VerdictCorrect:
		return "Correct!"
	case feedback.VerdictIncorrect:
		return "Incorrect!"
	}
	return ""
}

// View renders the card.
func (c AnswerCard) View() string {
	var b strings.Builder

	b.WriteString(theme.Hint.Render(c.Header()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Text))
	b.WriteString("\n\n")

	for _, e := range c.view.Entries {
		b.WriteString(c.renderEntry(e))
		b.WriteString("\n")
	}

	if v := c.Verdict(); v != "" {
		b.WriteString("\n")
		if c.view.Verdict == feedback.VerdictCorrect {
			b.WriteString(theme.Correct.Render(v))
		} else {
			b.WriteString(theme.Incorrect.Render(v))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c AnswerCard) renderEntry(e feedback.Entry) string {
	prefix := "  "
	if c.view.Interactive && e.Index == c.cursor {
		prefix = "▸ "
	}
	line := fmt.Sprintf("%s%d)  %s %s", prefix, e.Index+1, Marker(e.VisualState), e.Text)

	switch e.VisualState {
	case feedback.CorrectHighlighted, feedback.SelectedCorrect:
		return theme.Correct.Render(line)
	case feedback.SelectedIncorrect:
		return theme.Incorrect.Render(line)
	case feedback.Dimmed:
		return theme.Dimmed.Render(line)
	}
	if e.Index == c.cursor {
		return theme.Cursor.Render(line)
	}
	return theme.Neutral.Render(line)
}

// EntryIDs lists the stable identifiers of every option, in display order.
func (c AnswerCard) EntryIDs() []string {
	ids := make([]string, len(c.view.Entries))
	for i, e := range c.view.Entries {
		ids[i] = OptionID(e.Index)
	}
	return ids
}
